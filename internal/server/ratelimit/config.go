package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the rate limit for one endpoint. Paths ending in "/"
// are matched by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity, defaults to Limit when 0
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: Gemini and LaTeX backed operations (strictest limits)
		{Path: "/api/ats_cv", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/ats_render", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/ats_evaluate", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/smart-assistant", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},

		// Tier 2: parsing, scoring and scraping (moderate limits)
		{Path: "/cv/analyze", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/cv/analyze-upload", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/cv_analyser", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/courses", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/search", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/clarify", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/assistant", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/jobs/assistant", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/jobs/smart-assistant", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Tier 3: dataset reads are covered by the default limit
		// Tier 4: the health check is a special case in the matcher
	}
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
