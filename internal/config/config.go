package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

func GetConfig() Config {
	cfg := Config{
		LogLevel:     GetStringEnv("LOGLEVEL", DefaultLogLevel),
		RobotCfg:     GetRobotConfig(),
		MotorCfg:     GetMotorConfig(),
		RangerCfg:    GetRangerConfig(),
		IndicatorCfg: GetIndicatorConfig(),
		InfraredCfg:  GetInfraredConfig(),
	}

	logrus.Debugf("app config: %+v", cfg)
	return cfg
}

func GetRobotConfig() RobotConfig {
	return RobotConfig{
		DutyCycle: GetFloatEnv("DUTYCYCLE", DefaultDutyCycle),
	}
}

func GetMotorConfig() MotorConfig {
	return MotorConfig{
		Driver: GetStringEnv("MOTORDRIVER", DefaultMotorDriver),
		PCA9685Cfg: PCA9685Config{
			Address:      byte(GetIntEnv("I2CADDRESS", DefaultAddress)),
			I2CDevice:    GetStringEnv("I2CDEVICE", DefaultI2CDevice),
			Frequency:    GetFloatEnv("PWMFREQ", DefaultPwmFreq),
			LeftForward:  GetIntEnv("PCA_LEFTFWD", DefaultPCALeftForward),
			LeftReverse:  GetIntEnv("PCA_LEFTREV", DefaultPCALeftReverse),
			RightForward: GetIntEnv("PCA_RIGHTFWD", DefaultPCARightForward),
			RightReverse: GetIntEnv("PCA_RIGHTREV", DefaultPCARightReverse),
		},
		PiPwmCfg: PiPwmConfig{
			Frequency:    GetIntEnv("PWMFREQ", DefaultPwmFreq),
			LeftEnable:   GetIntEnv("PI_LEFTEN", DefaultPiLeftEnable),
			LeftForward:  GetIntEnv("PI_LEFTFWD", DefaultPiLeftForward),
			LeftReverse:  GetIntEnv("PI_LEFTREV", DefaultPiLeftReverse),
			RightEnable:  GetIntEnv("PI_RIGHTEN", DefaultPiRightEnable),
			RightForward: GetIntEnv("PI_RIGHTFWD", DefaultPiRightForward),
			RightReverse: GetIntEnv("PI_RIGHTREV", DefaultPiRightReverse),
		},
	}
}

func GetRangerConfig() RangerConfig {
	envPrefix := "RANGER_"
	return RangerConfig{
		TriggerPin: GetIntEnv(envPrefix+"TRIGGER", DefaultRangerTrigger),
		EchoPin:    GetIntEnv(envPrefix+"ECHO", DefaultRangerEcho),
		Samples:    GetIntEnv(envPrefix+"SAMPLES", DefaultRangerSamples),
		TimeoutMs:  GetIntEnv(envPrefix+"TIMEOUTMS", DefaultRangerTimeoutMs),
		IntervalMs: GetIntEnv(envPrefix+"INTERVALMS", DefaultRangerIntervalMs),
	}
}

func GetIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{
		Pin: GetIntEnv("LED_PIN", DefaultLEDPin),
	}
}

func GetInfraredConfig() InfraredConfig {
	envPrefix := "IR_"
	return InfraredConfig{
		Enabled:   GetBoolEnv(envPrefix+"ENABLED", DefaultIREnabled),
		Pin:       GetIntEnv(envPrefix+"PIN", DefaultIRPin),
		ActiveLow: GetBoolEnv(envPrefix+"ACTIVELOW", DefaultIRActiveLow),
	}
}

func GetIntEnv(env string, defaultValue int) int {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	}

	// base 0 so addresses can be given as 0x40
	value, err := strconv.ParseInt(strings.Trim(envValue, "\r"), 0, 32)
	if err != nil {
		logrus.Warnf("%s not parsed - error: %s", env, err)
		return defaultValue
	}
	return int(value)
}

func GetBoolEnv(env string, defaultValue bool) bool {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	}

	value, err := strconv.ParseBool(strings.Trim(envValue, "\r"))
	if err != nil {
		logrus.Warnf("%s not parsed - error: %s", env, err)
		return defaultValue
	}
	return value
}

func GetStringEnv(env string, defaultValue string) string {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	}
	return strings.ToLower(strings.Trim(envValue, "\r"))
}

func GetFloatEnv(env string, defaultValue float64) float64 {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	}

	value, err := strconv.ParseFloat(strings.Trim(envValue, "\r"), 64)
	if err != nil {
		logrus.Warnf("%s not parsed - error: %s", env, err)
		return defaultValue
	}
	return value
}
