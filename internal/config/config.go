package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	Env      string
	LogLevel string
	LogFile  string

	// Metrics store and topology. An empty DBConn disables the Postgres
	// store (the metrics endpoint then serves 404s and pricing falls back
	// to defaults). An empty MetricsAPIBase keeps metrics in-process; when
	// set, the pricing pipeline fetches them over HTTP instead.
	DBConn         string
	MetricsAPIBase string
	MetricsRefresh string

	// LLM classifier / summary rewrite.
	GroqAPIKey         string
	AIModelName        string
	AITemperature      float64
	AIMaxTokens        int
	AITopP             float64
	AIFrequencyPenalty float64
	UseLLMSummary      bool

	// Analyst report.
	NewsPerCoin     int
	HTTPTimeout     time.Duration
	ContractAddress string
	ExplorerBaseURL string
	ChainName       string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnvAsInt("PORT", 5002),
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		DBConn:         getEnv("DB_CONN", ""),
		MetricsAPIBase: strings.TrimRight(getEnv("METRICS_API_BASE", ""), "/"),
		MetricsRefresh: getEnv("METRICS_REFRESH", "@hourly"),

		GroqAPIKey:         getEnv("GROQ_API_KEY", ""),
		AIModelName:        getEnv("AI_MODEL_NAME", "llama-3.3-70b-versatile"),
		AITemperature:      getEnvAsFloat("AI_MODEL_TEMPERATURE", 0.2),
		AIMaxTokens:        getEnvAsInt("AI_MODEL_MAX_TOKENS", 800),
		AITopP:             getEnvAsFloat("AI_MODEL_TOP_P", 0.95),
		AIFrequencyPenalty: getEnvAsFloat("AI_MODEL_FREQUENCY_PENALTY", 0.0),
		UseLLMSummary:      getEnvAsBool("USE_LLM_SUMMARY", false),

		NewsPerCoin:     getEnvAsInt("NEWS_PER_COIN", 3),
		HTTPTimeout:     time.Duration(getEnvAsFloat("HTTP_TIMEOUT", 10)) * time.Second,
		ContractAddress: strings.TrimSpace(getEnv("CONTRACT_ADDRESS", "")),
		ExplorerBaseURL: strings.TrimRight(getEnv("EXPLORER_BASE_URL", ""), "/"),
		ChainName:       getEnv("CHAIN_NAME", "Ethereum"),
	}

	return cfg, nil
}

// DevMode reports whether the service runs with dev conveniences
// (console logging instead of JSON).
func (c *Config) DevMode() bool {
	return c.Env == "dev"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
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
