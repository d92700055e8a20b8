package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hyp3rd/ewrap"
	"github.com/spf13/viper"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	// EnvPrefix prefixes every environment override, e.g. KEEPALIVE_TARGET_URL.
	EnvPrefix = "KEEPALIVE"
	// EnvConfigFile names an explicit configuration file.
	EnvConfigFile = "KEEPALIVE_CONFIG"

	defaultConfigName = "keepalive"
	defaultUserAgent  = "keepalive-bot/1.0"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = ewrap.New("invalid configuration")

type TargetConfig struct {
	URL     string            `mapstructure:"url" json:"url"`
	Method  string            `mapstructure:"method" json:"method"`
	Headers map[string]string `mapstructure:"headers" json:"headers"`
	// Body is sent verbatim when it is a string, JSON-encoded otherwise.
	Body    any `mapstructure:"body" json:"body"`
	Timeout int `mapstructure:"timeout" json:"timeout"`
}

type ScheduleConfig struct {
	Interval  int `mapstructure:"interval" json:"interval"`
	MaxCycles int `mapstructure:"max_cycles" json:"max_cycles"`
}

type RetryConfig struct {
	MaxAttempts   int     `mapstructure:"max_attempts" json:"max_attempts"`
	BackoffFactor float64 `mapstructure:"backoff_factor" json:"backoff_factor"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level" json:"level"`
	Environment string `mapstructure:"environment" json:"environment"`
	File        string `mapstructure:"file" json:"file"`
	EnableFile  bool   `mapstructure:"enable_file" json:"enable_file"`
}

type Config struct {
	Target   TargetConfig   `mapstructure:"target" json:"target"`
	Schedule ScheduleConfig `mapstructure:"schedule" json:"schedule"`
	Retry    RetryConfig    `mapstructure:"retry" json:"retry"`
	Logging  LoggingConfig  `mapstructure:"logging" json:"logging"`

	// Source is the file the configuration was read from, empty when none was found.
	Source string `mapstructure:"-" json:"-"`
}

// Interval is the cycle interval.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Schedule.Interval) * time.Second
}

// Timeout is the per-attempt timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Target.Timeout) * time.Second
}

// Load reads the configuration. Missing files are not an error when searching
// the default paths; an explicit file must exist.
func Load(opts ...Option) (*Config, error) {
	o := options{
		paths: []string{"./config", ".", "/etc/keepalive"},
	}

	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// no default exists for the body, so the env key must be bound explicitly.
	err := v.BindEnv("target.body")
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to bind environment")
	}

	if o.file != "" {
		v.SetConfigFile(o.file)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")

		for _, path := range o.paths {
			v.AddConfigPath(path)
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.file != "" || !errors.As(err, &notFound) {
			return nil, ewrap.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to unmarshal config")
	}

	cfg.Source = v.ConfigFileUsed()
	cfg.normalize()

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("target.url", "")
	v.SetDefault("target.method", http.MethodGet)
	v.SetDefault("target.headers", map[string]string{"User-Agent": defaultUserAgent})
	v.SetDefault("target.timeout", 70)
	v.SetDefault("schedule.interval", 840)
	v.SetDefault("schedule.max_cycles", 0)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff_factor", 2.0)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.environment", EnvDev)
	v.SetDefault("logging.file", "/var/log/keepalive.log")
	v.SetDefault("logging.enable_file", false)
}

func (c *Config) normalize() {
	c.Target.Method = strings.ToUpper(strings.TrimSpace(c.Target.Method))
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Environment = strings.ToLower(c.Logging.Environment)
}

// Validate checks every section and reports all failures at once.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Target),
		validation.Field(&c.Schedule),
		validation.Field(&c.Retry),
		validation.Field(&c.Logging),
	)
}

func (t TargetConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.URL,
			validation.Required,
			is.URL,
			validation.By(validateTargetURL),
		),
		validation.Field(&t.Method,
			validation.Required,
			validation.In(http.MethodGet, http.MethodPost),
		),
		validation.Field(&t.Timeout,
			validation.Required,
			validation.Min(1),
		),
	)
}

func (s ScheduleConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Interval,
			validation.Required,
			validation.Min(1),
		),
		validation.Field(&s.MaxCycles,
			validation.Min(0),
		),
	)
}

func (r RetryConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MaxAttempts,
			validation.Required,
			validation.Min(1),
		),
		validation.Field(&r.BackoffFactor,
			validation.Required,
			validation.Min(0.0).Exclusive(),
		),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
		validation.Field(&l.Environment,
			validation.Required,
			validation.In(EnvDev, EnvProd),
		),
		validation.Field(&l.File,
			validation.When(l.EnableFile, validation.Required),
		),
	)
}

func validateTargetURL(value any) error {
	raw, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	parsedURL, err := url.Parse(raw)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
