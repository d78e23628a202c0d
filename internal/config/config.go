package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	infcfg "phoneprice-gateway/internal/infrastructure/config"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	Storage     string
	DatabaseURL string
	PGMaxConns  int
	PGMinConns  int
	PGConnIdle  time.Duration
	// Inference backend
	InferenceTarget  string
	InferenceTimeout time.Duration
	InferenceAddr    string
	// Exchange rates
	RateSources       []string
	RateSourceAURL    string
	RateSourceBURL    string
	RateSourceCURL    string
	RateSourceTimeout time.Duration
	RateFreshness     time.Duration
	RateDefault       string
	RateCache         string
	RateWarmInterval  time.Duration
	// Redis (shared quote, rate limiting); disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisQuoteTTL time.Duration
	// Rate limiting of /api
	RateLimitMax    int
	RateLimitWindow time.Duration
	// TrustProxy keys clients by X-Forwarded-For instead of the peer address.
	TrustProxy bool
	// Tracing
	OTLPEndpoint string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func boolDef(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func msDef(key string, def time.Duration) time.Duration {
	return time.Duration(atoiDef(getEnv(key, ""), int(def/time.Millisecond))) * time.Millisecond
}

func listDef(key, def string) []string {
	var out []string
	for _, s := range strings.Split(getEnv(key, def), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:               getEnv("ENV", "local"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Port:              getEnv("PORT", infcfg.DefaultHTTPPort),
		Storage:           getEnv("STORAGE", "memory"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		PGMaxConns:        atoiDef(getEnv("PG_MAX_CONNS", ""), infcfg.DefaultPGMaxConns),
		PGMinConns:        atoiDef(getEnv("PG_MIN_CONNS", ""), infcfg.DefaultPGMinConns),
		PGConnIdle:        msDef("PG_CONN_IDLE_MS", infcfg.DefaultPGConnIdle),
		InferenceTarget:   getEnv("INFERENCE_TARGET", "localhost:50051"),
		InferenceTimeout:  msDef("INFERENCE_TIMEOUT_MS", infcfg.DefaultInferenceTimeout),
		InferenceAddr:     getEnv("INFERENCE_ADDR", ":50051"),
		RateSources:       listDef("RATE_SOURCES", "exchangerate-api,frankfurter,tcmb"),
		RateSourceAURL:    getEnv("RATE_SOURCE_A_URL", ""),
		RateSourceBURL:    getEnv("RATE_SOURCE_B_URL", ""),
		RateSourceCURL:    getEnv("RATE_SOURCE_C_URL", ""),
		RateSourceTimeout: msDef("RATE_SOURCE_TIMEOUT_MS", infcfg.DefaultRateSourceTimeout),
		RateFreshness:     msDef("RATE_FRESHNESS_MS", infcfg.DefaultRateFreshness),
		RateDefault:       getEnv("RATE_DEFAULT", "34.50"),
		RateCache:         getEnv("RATE_CACHE", "memory"),
		RateWarmInterval:  msDef("RATE_WARM_INTERVAL_MS", 0),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisQuoteTTL:     msDef("REDIS_QUOTE_TTL_MS", infcfg.DefaultSharedQuoteTTL),
		RateLimitMax:      atoiDef(getEnv("RATE_LIMIT_MAX", "100"), 100),
		RateLimitWindow:   msDef("RATE_LIMIT_WINDOW_MS", infcfg.DefaultRateLimitWindow),
		TrustProxy:        boolDef(getEnv("TRUST_PROXY", ""), false),
		OTLPEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}
