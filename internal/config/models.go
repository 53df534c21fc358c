package config

const (
	AppEnvBase = "ROVER_"

	MotorDriverPCA9685 = "pca9685"
	MotorDriverPiPWM   = "pipwm"

	DefaultDutyCycle = 20
	DefaultLogLevel  = "info"

	// Default Motor Options
	DefaultMotorDriver = MotorDriverPCA9685
	DefaultAddress     = 0x40
	DefaultI2CDevice   = "/dev/i2c-1"
	DefaultPwmFreq     = 1000

	DefaultPCALeftForward  = 0
	DefaultPCALeftReverse  = 1
	DefaultPCARightForward = 2
	DefaultPCARightReverse = 3

	DefaultPiLeftEnable   = 12 // hardware pwm0
	DefaultPiLeftForward  = 5
	DefaultPiLeftReverse  = 6
	DefaultPiRightEnable  = 13 // hardware pwm1
	DefaultPiRightForward = 20
	DefaultPiRightReverse = 21

	// Default Ranger Options
	DefaultRangerTrigger    = 23
	DefaultRangerEcho       = 24
	DefaultRangerSamples    = 5
	DefaultRangerTimeoutMs  = 40
	DefaultRangerIntervalMs = 60

	// Default Indicator Options
	DefaultLEDPin = 17

	// Default Infrared Options
	DefaultIREnabled   = true
	DefaultIRPin       = 27
	DefaultIRActiveLow = true
)

type Config struct {
	LogLevel string

	RobotCfg     RobotConfig
	MotorCfg     MotorConfig
	RangerCfg    RangerConfig
	IndicatorCfg IndicatorConfig
	InfraredCfg  InfraredConfig
}

type RobotConfig struct {
	DutyCycle float64
}

type MotorConfig struct {
	Driver     string
	PCA9685Cfg PCA9685Config
	PiPwmCfg   PiPwmConfig
}

type PCA9685Config struct {
	Address      byte
	I2CDevice    string
	Frequency    float64
	LeftForward  int
	LeftReverse  int
	RightForward int
	RightReverse int
}

type PiPwmConfig struct {
	Frequency    int
	LeftEnable   int
	LeftForward  int
	LeftReverse  int
	RightEnable  int
	RightForward int
	RightReverse int
}

type RangerConfig struct {
	TriggerPin int
	EchoPin    int
	Samples    int
	TimeoutMs  int
	IntervalMs int
}

type IndicatorConfig struct {
	Pin int
}

type InfraredConfig struct {
	Enabled   bool
	Pin       int
	ActiveLow bool
}
