package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/config"
	"phoneprice-gateway/internal/domain"
	"phoneprice-gateway/internal/infrastructure/catalog"
	"phoneprice-gateway/internal/infrastructure/grpc/inferenceclient"
	"phoneprice-gateway/internal/infrastructure/grpc/inferenceserver"
	httpserver "phoneprice-gateway/internal/infrastructure/http"
	"phoneprice-gateway/internal/infrastructure/httpx"
	"phoneprice-gateway/internal/infrastructure/logx"
	"phoneprice-gateway/internal/infrastructure/pg"
	"phoneprice-gateway/internal/infrastructure/provider"
	redisstore "phoneprice-gateway/internal/infrastructure/redis"
	"phoneprice-gateway/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrMissingDBURL     = errors.New("DATABASE_URL is required for STORAGE=pg or RATE_CACHE=pg")
	ErrMissingRedisAddr = errors.New("REDIS_ADDR is required for RATE_CACHE=redis")
)

const recorderBuffer = 256

// API is everything cmd/api runs: the HTTP handler and its background workers.
type API struct {
	Server  *httpserver.Server
	Handler http.Handler
	Workers []application.Worker
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvidePair() domain.Pair { return domain.NewPair(provider.DefaultForeign, provider.DefaultLocal) }

func needsDB(cfg config.Config) bool { return cfg.Storage == "pg" || cfg.RateCache == "pg" }

// ProvideDB returns a nil pool when nothing is configured to use Postgres.
func ProvideDB(ctx context.Context, log *zap.Logger, cfg config.Config) (*pg.DB, func(), error) {
	if !needsDB(cfg) {
		return nil, func() {}, nil
	}
	if cfg.DatabaseURL == "" {
		return nil, func() {}, ErrMissingDBURL
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL, pg.PoolOptions{
		MaxConns:    int32(cfg.PGMaxConns),
		MinConns:    int32(cfg.PGMinConns),
		MaxConnIdle: cfg.PGConnIdle,
	})
	if err != nil {
		return nil, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db, log); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	cleanup := func() {
		log.Info("closing pg")
		db.Close()
	}
	return db, cleanup, nil
}

// ProvideRedisClient returns a nil client when REDIS_ADDR is unset.
func ProvideRedisClient(ctx context.Context, log *zap.Logger, cfg config.Config) (*redis.Client, func(), error) {
	if cfg.RedisAddr == "" {
		if cfg.RateCache == "redis" {
			return nil, func() {}, ErrMissingRedisAddr
		}
		return nil, func() {}, nil
	}
	client, err := redisstore.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, func() {}, err
	}
	cleanup := func() {
		log.Info("closing redis")
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateSources builds the ordered source chain named by RATE_SOURCES.
func ProvideRateSources(cfg config.Config) ([]application.RateSource, error) {
	hc := &httpx.Client{UserAgent: "phoneprice-gateway/1.0", MaxElapsed: cfg.RateSourceTimeout}
	var out []application.RateSource
	for _, name := range cfg.RateSources {
		switch name {
		case provider.ExchangeRateAPIName:
			out = append(out, &provider.ExchangeRateAPI{URL: cfg.RateSourceAURL, Client: hc})
		case provider.FrankfurterName:
			out = append(out, &provider.Frankfurter{URL: cfg.RateSourceBURL, Client: hc})
		case provider.TCMBName:
			out = append(out, &provider.TCMB{URL: cfg.RateSourceCURL, Client: hc})
		case "static":
			rate, err := decimal.NewFromString(cfg.RateDefault)
			if err != nil {
				return nil, fmt.Errorf("RATE_DEFAULT: %w", err)
			}
			out = append(out, provider.NewStatic(rate))
		default:
			return nil, fmt.Errorf("unknown rate source %q", name)
		}
	}
	return out, nil
}

func ProvideSharedStore(cfg config.Config, pair domain.Pair, rdb *redis.Client, db *pg.DB) (application.SharedQuoteStore, error) {
	switch cfg.RateCache {
	case "", "memory":
		return nil, nil
	case "redis":
		if rdb == nil {
			return nil, ErrMissingRedisAddr
		}
		return redisstore.NewQuoteStore(rdb, pair, cfg.RedisQuoteTTL), nil
	case "pg":
		if db == nil {
			return nil, ErrMissingDBURL
		}
		return pg.NewQuoteRepo(db, pair), nil
	default:
		return nil, fmt.Errorf("unsupported RATE_CACHE=%q", cfg.RateCache)
	}
}

func ProvideResolver(cfg config.Config, pair domain.Pair, sources []application.RateSource, shared application.SharedQuoteStore, log *zap.Logger) (*application.Resolver, error) {
	def, err := decimal.NewFromString(cfg.RateDefault)
	if err != nil || !def.IsPositive() {
		return nil, fmt.Errorf("RATE_DEFAULT must be a positive decimal, got %q", cfg.RateDefault)
	}
	opts := []application.ResolverOption{
		application.WithFreshness(cfg.RateFreshness),
		application.WithSourceTimeout(cfg.RateSourceTimeout),
		application.WithDefaultRate(def),
		application.WithResolverLogger(log),
	}
	if shared != nil {
		opts = append(opts, application.WithSharedStore(shared))
	}
	return application.NewResolver(pair, application.NewQuoteHolder(), sources, opts...), nil
}

func ProvideCatalog(cfg config.Config, db *pg.DB) application.Catalog {
	if cfg.Storage == "pg" && db != nil {
		return pg.NewCatalogRepo(db)
	}
	return catalog.NewStatic()
}

// ProvideInference returns a nil client when INFERENCE_TARGET is empty, which
// puts every estimate on the fallback path.
func ProvideInference(ctx context.Context, cfg config.Config) (application.InferenceClient, func(), error) {
	if cfg.InferenceTarget == "" {
		return nil, func() {}, nil
	}
	c, cleanup, err := inferenceclient.New(ctx, cfg.InferenceTarget, cfg.InferenceTimeout)
	if err != nil {
		return nil, func() {}, err
	}
	return c, cleanup, nil
}

func ProvidePredictionService(cat application.Catalog, inf application.InferenceClient, rates *application.Resolver, cfg config.Config, log *zap.Logger) *application.PredictionService {
	return application.NewPredictionService(cat, inf, rates,
		application.WithInferenceTimeout(cfg.InferenceTimeout),
		application.WithLogger(log),
	)
}

func ProvideCatalogService(cat application.Catalog, inf application.InferenceClient, cfg config.Config, log *zap.Logger) *application.CatalogService {
	return application.NewCatalogService(cat, inf, cfg.InferenceTimeout, log)
}

func ProvideRecorder(cfg config.Config, db *pg.DB, log *zap.Logger) *worker.AsyncRecorder {
	var sink application.PredictionRecorder = application.NoopRecorder{}
	if cfg.Storage == "pg" && db != nil {
		sink = pg.NewPredictionRepo(db)
	}
	return worker.NewAsyncRecorder(sink, recorderBuffer, log)
}

func ProvideLimiter(cfg config.Config, rdb *redis.Client) redisstore.Limiter {
	if rdb == nil || cfg.RateLimitMax <= 0 {
		return redisstore.NoopLimiter{}
	}
	return redisstore.NewWindowLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
}

func ProvideServer(svc *application.PredictionService, cat *application.CatalogService, rates *application.Resolver, rec *worker.AsyncRecorder, lim redisstore.Limiter, db *pg.DB, cfg config.Config, log *zap.Logger) *httpserver.Server {
	srv := httpserver.NewServer(svc, cat, rates,
		httpserver.WithRecorder(rec),
		httpserver.WithLimiter(lim),
		httpserver.WithTrustProxy(cfg.TrustProxy),
		httpserver.WithLogger(log),
	)
	if db != nil {
		srv.SetReadyCheck(db.Ping)
	}
	return srv
}

// ProvideWarmer uses RATE_WARM_INTERVAL_MS, or the worker default when unset.
func ProvideWarmer(cfg config.Config, rates *application.Resolver, log *zap.Logger) *worker.RateWarmer {
	return &worker.RateWarmer{Rates: rates, Every: cfg.RateWarmInterval, Log: log}
}

func ProvideAPI(srv *httpserver.Server, rec *worker.AsyncRecorder, warmer *worker.RateWarmer, cfg config.Config) *API {
	workers := []application.Worker{rec}
	// the API only warms in-process when asked to; cmd/worker warms otherwise
	if cfg.RateWarmInterval > 0 {
		workers = append(workers, warmer)
	}
	return &API{Server: srv, Handler: httpserver.NewRouter(srv), Workers: workers}
}

func ProvideInferenceStub(cat application.Catalog, log *zap.Logger) *inferenceserver.Server {
	return inferenceserver.NewServer(cat, log)
}
