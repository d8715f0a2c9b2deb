package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Required fields
	JWTSecretKey string `mapstructure:"jwt_secret_key"`

	// Optional API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Optional logging settings
	LogFile       string `mapstructure:"log_file"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"` // "json" or "text"
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days"`

	// Optional JWT settings
	JWTAlgorithm string `mapstructure:"jwt_algorithm"`

	// Metadata store
	DBPath string `mapstructure:"db_path"`

	// Propagation and introspection tuning
	PropagationParallelism int           `mapstructure:"propagation_parallelism"`
	IntrospectionTimeout   time.Duration `mapstructure:"introspection_timeout"`

	// Audit log retention, 0 keeps entries forever
	AuditRetentionDays int `mapstructure:"audit_retention_days"`

	ConfigPath string
}

const (
	EnvPrefix                     = "CLUSTERCALM"
	DefaultConfigPath             = "/etc/clustercalm/config.yml"
	DefaultDBPath                 = "/var/lib/clustercalm/db.sqlite3"
	DefaultAPIHost                = "0.0.0.0"
	DefaultAPIPort                = 8336
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "json"
	DefaultLogMaxSizeMB           = 50
	DefaultLogMaxBackups          = 5
	DefaultLogMaxAgeDays          = 28
	DefaultJWTAlgorithm           = "HS256"
	DefaultPropagationParallelism = 5
	DefaultIntrospectionTimeout   = 10 * time.Second
	DefaultAuditRetentionDays     = 90
)

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("api_host", DefaultAPIHost)
	v.SetDefault("api_port", DefaultAPIPort)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("log_max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("log_max_backups", DefaultLogMaxBackups)
	v.SetDefault("log_max_age_days", DefaultLogMaxAgeDays)
	v.SetDefault("jwt_algorithm", DefaultJWTAlgorithm)
	v.SetDefault("propagation_parallelism", DefaultPropagationParallelism)
	v.SetDefault("introspection_timeout", DefaultIntrospectionTimeout)
	v.SetDefault("audit_retention_days", DefaultAuditRetentionDays)
	// AutomaticEnv only sees keys viper already knows about
	v.SetDefault("jwt_secret_key", "")
	v.SetDefault("ssl_cert", "")
	v.SetDefault("ssl_key", "")
	v.SetDefault("log_file", "")
	v.SetDefault("cors_origins", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConfigPath = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("jwt_secret_key is required")
	}

	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("jwt_algorithm must be one of HS256, HS384, HS512")
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port must be between 1 and 65535")
	}

	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	format := strings.ToLower(c.LogFormat)
	if format != "json" && format != "text" {
		return fmt.Errorf("log_format must be 'json' or 'text'")
	}

	if c.PropagationParallelism < 1 {
		return fmt.Errorf("propagation_parallelism must be at least 1")
	}

	if c.IntrospectionTimeout <= 0 {
		return fmt.Errorf("introspection_timeout must be positive")
	}

	if c.AuditRetentionDays < 0 {
		return fmt.Errorf("audit_retention_days must not be negative")
	}

	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

func (c *Config) IsDevMode() bool {
	return os.Getenv(EnvPrefix+"_DEV_MODE") == "1"
}
