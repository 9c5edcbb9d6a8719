package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	AvatarMaxSizeMB     int
	LoginMaxAttempts    int
	LoginWindow         time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SHULE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Shule API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "shule/avatars")
	v.SetDefault("avatar.max_size_mb", 5)
	v.SetDefault("login.max_attempts", 10)
	v.SetDefault("login.window", "5m")

	windowString := v.GetString("login.window")
	if windowString == "" {
		windowString = "5m"
	}

	window, err := time.ParseDuration(windowString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid login window: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		CloudinaryCloudName: v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:    v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret: v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:    v.GetString("cloudinary.folder"),
		AvatarMaxSizeMB:     v.GetInt("avatar.max_size_mb"),
		LoginMaxAttempts:    v.GetInt("login.max_attempts"),
		LoginWindow:         window,
	}

	if cfg.AvatarMaxSizeMB <= 0 {
		cfg.AvatarMaxSizeMB = 5
	}

	if cfg.LoginMaxAttempts <= 0 {
		cfg.LoginMaxAttempts = 10
	}

	return cfg, nil
}
