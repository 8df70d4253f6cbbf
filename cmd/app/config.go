package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rewards_engine/internal/repository"
	"rewards_engine/internal/service"
	"rewards_engine/pkg/cache"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
	envPrefix    = "APP"
)

type Config struct {
	Database   repository.Config     `mapstructure:"database"`
	Server     ServerConfig          `mapstructure:"server"`
	Auth       AuthConfig            `mapstructure:"auth"`
	Redis      cache.Config          `mapstructure:"redis"`
	Rewards    service.RewardsConfig `mapstructure:"rewards"`
	Migrations MigrationsConfig      `mapstructure:"migrations"`

	LogLevel string `mapstructure:"logLevel"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwtSecret"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`

	Policy service.AuthPolicy `mapstructure:",squash"`
}

type MigrationsConfig struct {
	AutoMigrate bool `mapstructure:"autoMigrate"`
}

func setDefaults(v *viper.Viper) {
	rewards := service.DefaultRewardsConfig()
	policy := service.DefaultAuthPolicy()

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "rewards")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.tokenTTL", 24*time.Hour)
	v.SetDefault("auth.maxLoginAttempts", policy.MaxLoginAttempts)
	v.SetDefault("auth.lockoutDuration", policy.LockoutDuration)
	v.SetDefault("auth.minPasswordLength", policy.MinPasswordLen)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("redis.dialTimeout", 5*time.Second)
	v.SetDefault("redis.readTimeout", 3*time.Second)
	v.SetDefault("redis.writeTimeout", 3*time.Second)
	v.SetDefault("redis.keyPrefix", "rewards:")

	v.SetDefault("rewards.managementBonus.rates.a", rewards.ManagementBonus.Rates.A)
	v.SetDefault("rewards.managementBonus.rates.b", rewards.ManagementBonus.Rates.B)
	v.SetDefault("rewards.managementBonus.rates.c", rewards.ManagementBonus.Rates.C)
	v.SetDefault("rewards.managementBonus.caps.daily", rewards.ManagementBonus.Caps.Daily)
	v.SetDefault("rewards.managementBonus.caps.monthly", rewards.ManagementBonus.Caps.Monthly)
	v.SetDefault("rewards.triggers.firstVideoCount", rewards.Triggers.FirstVideoCount)
	v.SetDefault("rewards.triggers.weeklyActivityCount", rewards.Triggers.WeeklyActivityCount)
	v.SetDefault("rewards.triggers.highEarnerThreshold", rewards.Triggers.HighEarnerThreshold)
	v.SetDefault("rewards.antiCheat.gateOnSecurityScore", rewards.AntiCheat.GateOnSecurityScore)
	v.SetDefault("rewards.antiCheat.minSecurityScore", rewards.AntiCheat.MinSecurityScore)
	v.SetDefault("rewards.dashboardCacheTTL", rewards.DashboardCacheTTL)
	v.SetDefault("rewards.referralBaseURL", "http://localhost:3000")

	v.SetDefault("migrations.autoMigrate", true)

	v.SetDefault("logLevel", "info")
}

// LoadConfig reads .env, then config.yaml if present, then APP_* environment variables.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(configPath)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret must be set (APP_AUTH_JWTSECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTTL must be positive")
	}
	rates := c.Rewards.ManagementBonus.Rates
	if rates.A < 0 || rates.B < 0 || rates.C < 0 {
		return errors.New("rewards.managementBonus.rates must not be negative")
	}
	return nil
}
