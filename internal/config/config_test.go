package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDefaults(t *testing.T) {
	cfg := GetConfig()

	assert.Equal(t, float64(DefaultDutyCycle), cfg.RobotCfg.DutyCycle)
	assert.Equal(t, MotorDriverPCA9685, cfg.MotorCfg.Driver)
	assert.Equal(t, byte(0x40), cfg.MotorCfg.PCA9685Cfg.Address)
	assert.Equal(t, DefaultRangerSamples, cfg.RangerCfg.Samples)
	assert.True(t, cfg.InfraredCfg.Enabled)
}

func TestGetConfigFromEnv(t *testing.T) {
	t.Setenv(AppEnvBase+"DUTYCYCLE", "35.5")
	t.Setenv(AppEnvBase+"MOTORDRIVER", "PiPWM\r")
	t.Setenv(AppEnvBase+"I2CADDRESS", "0x41")
	t.Setenv(AppEnvBase+"RANGER_ECHO", "25")
	t.Setenv(AppEnvBase+"IR_ENABLED", "false")

	cfg := GetConfig()

	assert.Equal(t, 35.5, cfg.RobotCfg.DutyCycle)
	assert.Equal(t, MotorDriverPiPWM, cfg.MotorCfg.Driver)
	assert.Equal(t, byte(0x41), cfg.MotorCfg.PCA9685Cfg.Address)
	assert.Equal(t, 25, cfg.RangerCfg.EchoPin)
	assert.False(t, cfg.InfraredCfg.Enabled)
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv(AppEnvBase+"X_INT", "twelve")
	t.Setenv(AppEnvBase+"X_BOOL", "maybe")
	t.Setenv(AppEnvBase+"X_FLOAT", "fast")

	assert.Equal(t, 12, GetIntEnv("X_INT", 12))
	assert.True(t, GetBoolEnv("X_BOOL", true))
	assert.Equal(t, 1.5, GetFloatEnv("X_FLOAT", 1.5))
}
