package config

import (
	"os"
	"strconv"
	"strings"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL string
}

// MatchingConfig holds the externally managed matching settings
type MatchingConfig struct {
	// Leagues to search, e.g. ["nba", "ufc", "fra.1"]
	Leagues []string

	// IncludeLeagues whitelists leagues for inclusion; empty means
	// every matched league is included
	IncludeLeagues []string

	// ExceptionKeywords force a non-match when present in a stream name
	ExceptionKeywords []string

	// SingleEventLeagues maps single-event-per-day leagues to their
	// fallback keywords
	SingleEventLeagues map[string][]string

	// ChannelGroupID scopes fingerprint cache entries
	ChannelGroupID string

	// StrictEventNames raises the event-name pass threshold from the
	// default to the strict one, trading recall for precision on
	// display-name matches
	StrictEventNames bool

	// ExcludeFinalEvents drops terminal events from the output
	ExcludeFinalEvents bool

	// CacheRetentionRuns is how many runs an untouched cache entry
	// survives before it is purged
	CacheRetentionRuns int64

	// IntervalMinutes is the period between matching runs
	IntervalMinutes int
}

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	DatabaseURL string
	StreamsURL  string
	Matching    MatchingConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8085"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6380"),
		},
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/teamarr?sslmode=disable"),
		StreamsURL:  getEnv("STREAM_SOURCE_URL", "http://localhost:8084/streams"),
		Matching: MatchingConfig{
			Leagues:            splitList(getEnv("LEAGUES", "nba")),
			IncludeLeagues:     splitList(getEnv("INCLUDE_LEAGUES", "")),
			ExceptionKeywords:  splitList(getEnv("EXCEPTION_KEYWORDS", "")),
			SingleEventLeagues: parseSingleEventLeagues(getEnv("SINGLE_EVENT_LEAGUES", "")),
			ChannelGroupID:     getEnv("CHANNEL_GROUP_ID", "sports"),
			StrictEventNames:   getEnvBool("STRICT_EVENT_NAMES", false),
			ExcludeFinalEvents: getEnvBool("EXCLUDE_FINAL_EVENTS", true),
			CacheRetentionRuns: int64(getEnvInt("CACHE_RETENTION_RUNS", 0)),
			IntervalMinutes:    getEnvInt("MATCH_INTERVAL_MINUTES", 15),
		},
	}
}

// splitList parses a comma-separated list, dropping empty entries
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			list = append(list, p)
		}
	}
	return list
}

// parseSingleEventLeagues parses semicolon-separated league:kw1|kw2
// entries, e.g. "ufc:ufc|fight night;f1:grand prix"
func parseSingleEventLeagues(value string) map[string][]string {
	leagues := make(map[string][]string)
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		league, keywords, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		league = strings.TrimSpace(league)
		var kws []string
		for _, kw := range strings.Split(keywords, "|") {
			kw = strings.TrimSpace(kw)
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		if league != "" && len(kws) > 0 {
			leagues[league] = kws
		}
	}
	return leagues
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
