package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Runtime holds process settings read from the environment.
type Runtime struct {
	LogLevel  string
	LogPretty bool

	APIPort string
	APIEnv  string

	// ConfigPath is the YAML model config; empty means built-in defaults.
	ConfigPath string

	CORSAllowedOrigins []string
	ResultCacheTTL     time.Duration
	RunTimeout         time.Duration
}

// LoadRuntime reads the environment, loading a .env file first if present.
func LoadRuntime() Runtime {
	// Load .env file if it exists
	_ = godotenv.Load()

	return Runtime{
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnvAsBool("LOG_PRETTY", false),
		APIPort:            getEnv("API_PORT", "8080"),
		APIEnv:             getEnv("API_ENV", "development"),
		ConfigPath:         getEnv("NEV_CONFIG", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ResultCacheTTL:     getEnvAsDuration("RESULT_CACHE_TTL", 30*time.Minute),
		RunTimeout:         getEnvAsDuration("RUN_TIMEOUT", 2*time.Minute),
	}
}

func (r Runtime) Production() bool { return r.APIEnv == "production" }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
