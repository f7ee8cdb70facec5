package settings

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. RAN_QUEUE_CAPACITY.
const EnvPrefix = "RAN"

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("settings: invalid config")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Logger: Logger{
			LogLevel:   "info",
			MaxBackups: 3,
			MaxAge:     7,
			MaxSize:    100,
		},
		Queue: Queue{
			Name:     "default",
			Capacity: 128,
		},
		Metrics: Metrics{
			Namespace: "ran",
		},
	}
}

// Load reads the config file at path (yaml, json or toml by extension),
// applies defaults and RAN_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return decode(v)
}

// Watch loads path like Load, then calls fn with every valid config the file
// changes into. Invalid edits are reported to onErr and otherwise ignored.
func Watch(path string, fn func(*Config), onErr func(error)) (*Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(fsnotify.Event) {
		next, err := decode(v)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(next)
	})
	v.WatchConfig()
	return cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("logger.log_level", def.Logger.LogLevel)
	v.SetDefault("logger.file_log_name", def.Logger.FileLogName)
	v.SetDefault("logger.max_backups", def.Logger.MaxBackups)
	v.SetDefault("logger.max_age", def.Logger.MaxAge)
	v.SetDefault("logger.max_size", def.Logger.MaxSize)
	v.SetDefault("logger.compress", def.Logger.Compress)
	v.SetDefault("queue.name", def.Queue.Name)
	v.SetDefault("queue.capacity", def.Queue.Capacity)
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.namespace", def.Metrics.Namespace)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
