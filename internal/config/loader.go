package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr          string
	AllowedOrigin string
}

// StoreConfig holds the remote list store settings.
type StoreConfig struct {
	BaseURL   string
	ListName  string
	AuthToken string
	Timeout   time.Duration
}

// Config is the full service configuration.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":8080",
			AllowedOrigin: "http://localhost:3000",
		},
		Store: StoreConfig{
			ListName: "Employee Database",
			Timeout:  30 * time.Second,
		},
	}
}

// Load reads config.yaml from configPath, with environment overrides mapped
// under the BULKUPLOAD prefix (BULKUPLOAD_STORE_BASEURL and so on). A missing
// file is fine; defaults plus env apply.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("BULKUPLOAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("server.addr")
	v.BindEnv("server.allowed_origin")
	v.BindEnv("store.baseurl")
	v.BindEnv("store.list_name")
	v.BindEnv("store.auth_token")
	v.BindEnv("store.timeout")

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origin") {
		cfg.Server.AllowedOrigin = v.GetString("server.allowed_origin")
	}
	if v.IsSet("store.baseurl") {
		cfg.Store.BaseURL = v.GetString("store.baseurl")
	}
	if v.IsSet("store.list_name") {
		cfg.Store.ListName = v.GetString("store.list_name")
	}
	if v.IsSet("store.auth_token") {
		cfg.Store.AuthToken = v.GetString("store.auth_token")
	}
	if v.IsSet("store.timeout") {
		cfg.Store.Timeout = v.GetDuration("store.timeout")
	}

	return cfg, nil
}
