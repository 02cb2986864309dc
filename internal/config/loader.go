package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/dvfdata/warehouse-api/internal/db"
)

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// IngestConfig holds the pipeline settings.
type IngestConfig struct {
	URLTemplate string
}

// Config aggregates all process configuration, constructed once at
// startup and passed down by handle.
type Config struct {
	DB     db.Config
	Server ServerConfig
	Ingest IngestConfig
}

// Load reads config.yaml from configPath with environment overrides
// (DVF_ prefix, e.g. DVF_DATABASE_HOST). Missing file is fine: the
// defaults plus env vars apply.
func Load(configPath string) (Config, error) {
	cfg := Config{
		DB: db.DefaultConfig(),
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("DVF")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")
	v.BindEnv("ingest.url_template")

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.DB.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.DB.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.DB.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.DB.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DB.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.DB.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("ingest.url_template") {
		cfg.Ingest.URLTemplate = v.GetString("ingest.url_template")
	}

	return cfg, nil
}
