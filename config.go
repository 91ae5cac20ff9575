package bimcloud

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type AppConfig struct {
	LogLevel string
	NatsURL  string
	TenantID string
}

var config AppConfig

// InitConfig loads the optional .env file, fills the AppConfig from the
// environment and initializes the package logger. A missing env file is fine
// for a local converter run.
func InitConfig(envfile string) {
	_ = godotenv.Load(envfile)

	config = AppConfig{
		LogLevel: GetEnv("LOG_LEVEL", "info"),
		NatsURL:  GetEnv("NATS_URL", ""),
		TenantID: GetEnv("TENANT_ID", "default"),
	}

	Logger = initLogger(config.LogLevel)
}

func GetConfig() AppConfig {
	return config
}

func GetEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func initLogger(level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    false,
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("  %s  ", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
		FormatFieldValue: func(i interface{}) string {
			return fmt.Sprintf("%s", i)
		},
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}
