// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Printer   PrinterConfig   `mapstructure:"printer"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CloudPRNT CloudPRNTConfig `mapstructure:"cloudprnt"`
	App       AppConfig       `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`

	// AllowedOrigins restricts CORS; empty means allow all.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         int           `mapstructure:"port" validate:"required"`
	User         string        `mapstructure:"user" validate:"required"`
	Password     string        `mapstructure:"password" validate:"required"`
	DBName       string        `mapstructure:"dbname" validate:"required"`
	SSLMode      string        `mapstructure:"sslmode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// PrinterConfig represents printing behavior configuration
type PrinterConfig struct {
	PaperWidth     int              `mapstructure:"paper_width"`
	QRURL          string           `mapstructure:"qr_url"`
	ConnectTimeout time.Duration    `mapstructure:"connect_timeout"`
	WriteTimeout   time.Duration    `mapstructure:"write_timeout"`
	Serial         SerialPortConfig `mapstructure:"serial"`
}

// SerialPortConfig represents serial line settings
type SerialPortConfig struct {
	BaudRate int           `mapstructure:"baud_rate"`
	DataBits int           `mapstructure:"data_bits"`
	StopBits int           `mapstructure:"stop_bits"`
	Parity   string        `mapstructure:"parity"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DiscoveryConfig represents device discovery configuration
type DiscoveryConfig struct {
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	BluetoothScan   time.Duration `mapstructure:"bluetooth_scan"`
	MDNSScan        time.Duration `mapstructure:"mdns_scan"`
	StaticAddresses []string      `mapstructure:"static_addresses"`
	FallbackSubnets []string      `mapstructure:"fallback_subnets"`
}

// QueueConfig represents print job queue configuration
type QueueConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	IdleSleep  time.Duration `mapstructure:"idle_sleep"`
}

// CloudPRNTConfig represents the server-polling print channel
type CloudPRNTConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.SetEnvPrefix("PRINTER_SERVICE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file; defaults plus env are enough to run without one
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8086")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.allowed_origins", []string{})

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "printer_service")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.max_lifetime", "5m")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("logging.compress", true)

	// Printer defaults
	viper.SetDefault("printer.paper_width", 42)
	viper.SetDefault("printer.qr_url", "https://tilaa.pizzapalvelu.fi")
	viper.SetDefault("printer.connect_timeout", "10s")
	viper.SetDefault("printer.write_timeout", "30s")
	viper.SetDefault("printer.serial.baud_rate", 9600)
	viper.SetDefault("printer.serial.data_bits", 8)
	viper.SetDefault("printer.serial.stop_bits", 1)
	viper.SetDefault("printer.serial.parity", "none")
	viper.SetDefault("printer.serial.timeout", "5s")

	// Discovery defaults
	viper.SetDefault("discovery.probe_timeout", "2s")
	viper.SetDefault("discovery.http_timeout", "3s")
	viper.SetDefault("discovery.bluetooth_scan", "10s")
	viper.SetDefault("discovery.mdns_scan", "5s")
	viper.SetDefault("discovery.static_addresses", []string{
		"192.168.1.100", "192.168.1.200", "192.168.0.100", "192.168.0.200",
	})
	viper.SetDefault("discovery.fallback_subnets", []string{
		"192.168.1", "192.168.0", "10.0.0",
	})

	// Queue defaults
	viper.SetDefault("queue.max_retries", 3)
	viper.SetDefault("queue.retry_delay", "1s")
	viper.SetDefault("queue.idle_sleep", "200ms")

	// CloudPRNT defaults
	viper.SetDefault("cloudprnt.enabled", false)
	viper.SetDefault("cloudprnt.base_url", "http://localhost:8087/cloudprnt")
	viper.SetDefault("cloudprnt.timeout", "15s")

	// App defaults
	viper.SetDefault("app.name", "printer-service")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	// Basic validation
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.Printer.PaperWidth < 24 || config.Printer.PaperWidth > 64 {
		return fmt.Errorf("printer.paper_width out of range: %d", config.Printer.PaperWidth)
	}

	// Validate environment
	validEnvs := []string{"development", "staging", "production", "test"}
	isValidEnv := false
	for _, env := range validEnvs {
		if config.App.Environment == env {
			isValidEnv = true
			break
		}
	}
	if !isValidEnv {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}
