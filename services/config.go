package services

import (
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AI       AIConfig
	JWT      JWTConfig
	Storage  StorageConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL          string
	Seed         bool
	LogLevel     string
	MaxIdleConns int
	MaxOpenConns int
}

type AIConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

type JWTConfig struct {
	Secret string
}

type StorageConfig struct {
	UploadDir string
}

type CORSConfig struct {
	AllowedOrigins string // Comma-separated list
}

// LoadConfig loads configuration from environment variables and config files
func LoadConfig() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.seed", "true")
	viper.SetDefault("database.log_level", "silent")
	viper.SetDefault("database.max_idle_conns", "10")
	viper.SetDefault("database.max_open_conns", "100")
	viper.SetDefault("ai.service_url", "http://localhost:8000")
	viper.SetDefault("ai.timeout_seconds", "30")
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("storage.upload_dir", "uploads")
	viper.SetDefault("cors.allowed_origins", "http://localhost:3000")

	// Map environment variables to config keys
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("database.seed", "DATABASE_SEED")
	viper.BindEnv("database.log_level", "DATABASE_LOG_LEVEL")
	viper.BindEnv("database.max_idle_conns", "DATABASE_MAX_IDLE_CONNS")
	viper.BindEnv("database.max_open_conns", "DATABASE_MAX_OPEN_CONNS")
	viper.BindEnv("ai.service_url", "AI_SERVICE_URL")
	viper.BindEnv("ai.timeout_seconds", "AI_SERVICE_TIMEOUT_SECONDS")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("storage.upload_dir", "UPLOAD_DIR")
	viper.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			slog.Error("Error reading config file", "error", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
		},
		Database: DatabaseConfig{
			URL:          viper.GetString("database.url"),
			Seed:         viper.GetBool("database.seed"),
			LogLevel:     viper.GetString("database.log_level"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
		},
		AI: AIConfig{
			ServiceURL: viper.GetString("ai.service_url"),
			Timeout:    time.Duration(viper.GetInt("ai.timeout_seconds")) * time.Second,
		},
		JWT: JWTConfig{
			Secret: viper.GetString("jwt.secret"),
		},
		Storage: StorageConfig{
			UploadDir: viper.GetString("storage.upload_dir"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetString("cors.allowed_origins"),
		},
	}
}
