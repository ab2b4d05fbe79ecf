package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Config holds every setting the process reads at startup.
type Config struct {
	HTTPAddr  string
	MySQLDSN  string
	RedisAddr string

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string
	ManagerEmail string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		logger.Info().Msg("Loaded environment from .env")
	}

	return Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		MySQLDSN:     getEnv("MYSQL_DSN", "root:@tcp(127.0.0.1:3306)/sweet_store?parseTime=true"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.office365.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPEmail:    os.Getenv("SMTP_EMAIL"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		ManagerEmail: os.Getenv("MANAGER_EMAIL"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn().Msgf("Invalid value for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
