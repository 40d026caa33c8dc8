package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Settings  SettingsConfig  `mapstructure:"settings"`
	Documents DocumentsConfig `mapstructure:"documents"`
	Email     EmailConfig     `mapstructure:"email"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// SettingsConfig holds laboratory settings service configuration
type SettingsConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIToken   string        `mapstructure:"api_token"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	APITimeout time.Duration `mapstructure:"api_timeout"`
}

// DocumentsConfig holds certificate and invoice generation configuration
type DocumentsConfig struct {
	OutputDir  string `mapstructure:"output_dir"`
	LabName    string `mapstructure:"lab_name"`
	LabAddress string `mapstructure:"lab_address"`
}

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	SenderName string `mapstructure:"sender_name"`
	FromEmail  string `mapstructure:"from_email"`
}

// WorkflowConfig holds phase advancement configuration
type WorkflowConfig struct {
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/submissions.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Settings service defaults
	viper.SetDefault("settings.cache_ttl", 5*time.Minute)
	viper.SetDefault("settings.api_timeout", 10*time.Second)

	// Document defaults
	viper.SetDefault("documents.output_dir", "generated_documents")
	viper.SetDefault("documents.lab_name", "HerboLab Forensic Laboratory")

	// Email defaults
	viper.SetDefault("email.port", 587)
	viper.SetDefault("email.sender_name", "HerboLab")

	// Workflow defaults
	viper.SetDefault("workflow.confirm_timeout", 5*time.Minute)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("settings.base_url", "SETTINGS_BASE_URL")
	viper.BindEnv("settings.api_token", "SETTINGS_API_TOKEN")
	viper.BindEnv("email.host", "SMTP_HOST")
	viper.BindEnv("email.username", "SMTP_USERNAME")
	viper.BindEnv("email.password", "SMTP_PASSWORD")
	viper.BindEnv("email.from_email", "SMTP_FROM_EMAIL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate settings service
	if c.Settings.BaseURL == "" {
		return fmt.Errorf("settings.base_url is required")
	}

	// Validate email
	if c.Email.Host == "" {
		return fmt.Errorf("email.host is required")
	}
	if c.Email.FromEmail == "" {
		return fmt.Errorf("email.from_email is required")
	}

	// Validate documents config
	if c.Documents.OutputDir == "" {
		return fmt.Errorf("documents.output_dir is required")
	}
	if c.Documents.LabName == "" {
		return fmt.Errorf("documents.lab_name is required")
	}

	return nil
}
