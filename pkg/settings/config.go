package settings

// Config is the configuration of a protocol endpoint's data-plane queues.
type Config struct {
	Logger  Logger  `mapstructure:"logger"`
	Queue   Queue   `mapstructure:"queue"`
	Metrics Metrics `mapstructure:"metrics"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge      int    `mapstructure:"max_age" validate:"gte=0"`  // Days
	MaxSize     int    `mapstructure:"max_size" validate:"gte=0"` // Megabytes
	Compress    bool   `mapstructure:"compress"`
}

// Queue is the configuration for a PDU queue at a layer boundary
type Queue struct {
	Name     string `mapstructure:"name"`
	Capacity int    `mapstructure:"capacity" validate:"gte=1"` // Number of PDUs
}

// Metrics is the configuration for Prometheus instrumentation
type Metrics struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
}
