package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	JWTSecret            string
	TokenTTL             time.Duration
	SessionTTL           time.Duration
	BotAgent             string
	SearchDepth          int
	LogLevel             zerolog.Level
	Production           bool
}

var AppConfig *Config

// LoadEnvFiles loads .env from the working directory or its parent. A
// missing file is not an error, the process environment still applies.
func LoadEnvFiles() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Debug().Msg("no .env file found, using environment variables")
		}
	}
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// CORS: localhost plus any CSV values
	allowedOrigins := []string{"http://localhost:5173"}
	if extra := GetEnv("ALLOWED_ORIGINS", ""); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	if dbURL != "" {
		if u, err := url.Parse(dbURL); err == nil && u.Scheme != "" {
			q := u.Query()
			if q.Get("sslmode") == "" {
				q.Set("sslmode", "disable")
				u.RawQuery = q.Encode()
				dbURL = u.String()
			}
		}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(GetEnv("LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	AppConfig = &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:            GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		TokenTTL:             time.Duration(GetEnvAsInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		SessionTTL:           time.Duration(GetEnvAsInt("SESSION_TTL_MINUTES", 30)) * time.Minute,
		BotAgent:             GetEnv("BOT_AGENT", "alphabeta"),
		SearchDepth:          GetEnvAsInt("SEARCH_DEPTH", 6),
		LogLevel:             level,
		Production:           GetEnv("ENVIRONMENT", "development") == "production",
	}

	return AppConfig
}

// SetupLogging installs the global zerolog logger. Console output is meant
// for the CLIs and local runs, production logs JSON.
func SetupLogging(level zerolog.Level, console bool) {
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Msgf("invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Msgf("invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
