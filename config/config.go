package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from the environment.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Email     EmailConfig
	Recaptcha RecaptchaConfig
	Seminar   SeminarConfig
	Admin     AdminConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// EmailConfig holds SMTP settings for outbound mail.
type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
}

// RecaptchaConfig holds reCAPTCHA verification settings. An empty secret
// disables verification, which is only acceptable in development.
type RecaptchaConfig struct {
	SecretKey string
	MinScore  float64
	VerifyURL string
	TimeoutMS int
}

// SeminarConfig seeds the seminar settings singleton on first start.
type SeminarConfig struct {
	Title          string
	Date           string
	Time           string
	Location       string
	Duration       string
	WhatsAppNumber string
}

// AdminConfig seeds the bootstrap admin account.
type AdminConfig struct {
	Username string
	Password string
	Email    string
}

// Load reads configuration from the environment, falling back to a local
// .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "seminar"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
			ExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),
		},
		Email: EmailConfig{
			SMTPHost: getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort: getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", ""),
		},
		Recaptcha: RecaptchaConfig{
			SecretKey: getEnv("RECAPTCHA_SECRET_KEY", ""),
			MinScore:  getEnvFloat("RECAPTCHA_MIN_SCORE", 0.5),
			VerifyURL: getEnv("RECAPTCHA_VERIFY_URL", ""),
			TimeoutMS: getEnvInt("RECAPTCHA_TIMEOUT_MS", 5000),
		},
		Seminar: SeminarConfig{
			Title:          getEnv("SEMINAR_TITLE", "Prompt Your Future: Master Prompt Engineering & Build Your AI Portfolio"),
			Date:           getEnv("SEMINAR_DATE", "2025-07-15"),
			Time:           getEnv("SEMINAR_TIME", "10:00 AM"),
			Location:       getEnv("SEMINAR_LOCATION", "Main Auditorium"),
			Duration:       getEnv("SEMINAR_DURATION", "3 hours"),
			WhatsAppNumber: getEnv("SEMINAR_WHATSAPP", "919156633236"),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
			Email:    getEnv("ADMIN_EMAIL", "admin@promptfuture.local"),
		},
	}

	if cfg.Server.GinMode == "release" {
		if os.Getenv("ADMIN_PASSWORD") == "" {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be set in release mode")
		}
		if os.Getenv("JWT_SECRET") == "" {
			return nil, fmt.Errorf("JWT_SECRET must be set in release mode")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
