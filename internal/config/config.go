package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT"`
	User     string `mapstructure:"user" envconfig:"DB_USER"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" envconfig:"JWT_SECRET"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	LoginRate     float64       `mapstructure:"login_rate"`
	LoginBurst    int           `mapstructure:"login_burst"`
	UpgradeHashes bool          `mapstructure:"upgrade_hashes"`
	BcryptCost    int           `mapstructure:"bcrypt_cost"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeoutSeconds", 30)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("auth.token_ttl", "12h")
	viper.SetDefault("auth.idle_timeout", "15m")
	viper.SetDefault("auth.login_rate", 1.0)
	viper.SetDefault("auth.login_burst", 5)
	viper.SetDefault("auth.upgrade_hashes", false)
	viper.SetDefault("auth.bcrypt_cost", 12)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Secrets come from the environment, never the config file.
	if err := envconfig.Process("", &config.Database); err != nil {
		return nil, fmt.Errorf("failed to read database env overrides: %w", err)
	}
	if err := envconfig.Process("", &config.Auth); err != nil {
		return nil, fmt.Errorf("failed to read auth env overrides: %w", err)
	}

	return &config, nil
}
