package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const EnvironmentProduction = "production"

type HTTPConfig struct {
	Host         string
	Port         int
	PathPrefix   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxUploadMB  int64
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Driver    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	CDNURL    string
	KeyPrefix string
}

type SecurityConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	HMACAlgorithm string
	HMACSalt      string
	SessionHeader string
	SessionPrefix string
}

type OTPConfig struct {
	Expiry        time.Duration
	EnforceExpiry bool
	TestCode      string
	RatePerMinute int
	Burst         int
}

type ChatConfig struct {
	RequireFriendship bool
	DefaultLimit      int
	MaxLimit          int
}

type SMSConfig struct {
	Enabled  bool
	Region   string
	SenderID string
	Template string
}

type QueueConfig struct {
	Stream        string
	Group         string
	Consumer      string
	ClaimInterval time.Duration
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	OTP              OTPConfig
	Chat             ChatConfig
	SMS              SMSConfig
	Queue            QueueConfig
	Logging          LoggingConfig
	AllowCORSOrigins []string
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("WEXA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate refuses to start a production process without signing material.
// Outside production the token and session services still fail closed per call.
func (c *AppConfig) Validate() error {
	if !c.IsProduction() {
		return nil
	}
	var errs []error
	if c.Security.JWTSecret == "" {
		errs = append(errs, errors.New("security.jwtsecret is required"))
	}
	if c.Security.HMACSalt == "" {
		errs = append(errs, errors.New("security.hmacsalt is required"))
	}
	if c.Postgres.DSN == "" {
		errs = append(errs, errors.New("postgres.dsn is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 6001)
	v.SetDefault("http.pathprefix", "/wexa")
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")
	v.SetDefault("http.maxuploadmb", 5)

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 5)
	v.SetDefault("postgres.connmaxlifetime", "30m")
	v.SetDefault("postgres.automigrate", true)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.driver", "minio")
	v.SetDefault("storage.bucket", "wexa-avatars")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "ap-south-1")
	v.SetDefault("storage.keyprefix", "wexa")

	v.SetDefault("security.tokenttl", "12h")
	v.SetDefault("security.hmacalgorithm", "sha256")
	v.SetDefault("security.sessionheader", "key")
	v.SetDefault("security.sessionprefix", "auth:session:")

	v.SetDefault("otp.expiry", "5m")
	v.SetDefault("otp.enforceexpiry", true)
	v.SetDefault("otp.testcode", "9876")
	v.SetDefault("otp.rateperminute", 5)
	v.SetDefault("otp.burst", 3)

	v.SetDefault("chat.requirefriendship", false)
	v.SetDefault("chat.defaultlimit", 15)
	v.SetDefault("chat.maxlimit", 100)

	v.SetDefault("sms.enabled", false)
	v.SetDefault("sms.region", "ap-south-1")
	v.SetDefault("sms.template", "Your OTP for signing up with Aanchal is: %s. Please enter this code to complete your registration. This code is valid for %d minutes. Do not share it with anyone.")

	v.SetDefault("queue.stream", "wexa:tasks")
	v.SetDefault("queue.group", "wexa-workers")
	v.SetDefault("queue.consumer", "worker-1")
	v.SetDefault("queue.claiminterval", "30s")

	v.SetDefault("logging.level", "info")
}
