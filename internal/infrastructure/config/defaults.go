package config

import "time"

const (
	DefaultHTTPPort          = "8080"
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultInferenceTimeout  = 5 * time.Second
	DefaultRateSourceTimeout = 10 * time.Second
	DefaultRateFreshness     = 5 * time.Minute
	DefaultWorkerWarmEvery   = 4 * time.Minute
	DefaultSharedQuoteTTL    = 24 * time.Hour
	DefaultRateLimitWindow   = 15 * time.Minute
	DefaultPGMaxConns        = 5
	DefaultPGMinConns        = 1
	DefaultPGConnIdle        = 2 * time.Minute
)
