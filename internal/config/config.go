package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	ProviderAPIURL string `env:"PROVIDER_API_URL"`
	ProviderAPIKey string `env:"PROVIDER_API_KEY"`

	JWTSecret string `env:"JWT_SECRET"`

	// MarkupPercent наценка на сырую цену провайдера в процентах. Пустое значение
	// означает наценку по умолчанию.
	MarkupPercent string `env:"MARKUP_PERCENT"`
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.ProviderAPIURL == "" {
		return nil, errors.New("provider API URL is not set")
	}
	if conf.ProviderAPIKey == "" {
		return nil, errors.New("provider API key is not set")
	}
	if conf.JWTSecret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.ProviderAPIURL, "p", "", "Provider API URL")
	flag.StringVar(&flagConfig.ProviderAPIKey, "k", "", "Provider API key")
	flag.StringVar(&flagConfig.JWTSecret, "j", "", "JWT signing secret")
	flag.StringVar(&flagConfig.MarkupPercent, "markup", "", "Markup percent over provider rate")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:     defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:    defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:  defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		ProviderAPIURL: defaultIfBlank(envConfig.ProviderAPIURL, flagsConfig.ProviderAPIURL),
		ProviderAPIKey: defaultIfBlank(envConfig.ProviderAPIKey, flagsConfig.ProviderAPIKey),
		JWTSecret:      defaultIfBlank(envConfig.JWTSecret, flagsConfig.JWTSecret),
		MarkupPercent:  defaultIfBlank(envConfig.MarkupPercent, flagsConfig.MarkupPercent),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
