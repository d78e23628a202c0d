package application

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"phoneprice-gateway/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultFreshness     = 5 * time.Minute
	DefaultSourceTimeout = 10 * time.Second
)

// DefaultRate is served when no source has ever answered.
var DefaultRate = decimal.RequireFromString("34.50")

// QuoteHolder owns the single live quote. Readers always get a whole
// snapshot; writers replace the pointer, never the fields.
type QuoteHolder struct {
	p atomic.Pointer[domain.ExchangeQuote]
}

func NewQuoteHolder() *QuoteHolder { return &QuoteHolder{} }

func (h *QuoteHolder) Load() (domain.ExchangeQuote, bool) {
	q := h.p.Load()
	if q == nil {
		return domain.ExchangeQuote{}, false
	}
	return *q, true
}

func (h *QuoteHolder) Store(q domain.ExchangeQuote) {
	h.p.Store(&q)
}

// Resolver serves the cached quote while fresh and otherwise walks its
// sources in order. It never fails: exhaustion degrades to the stale quote,
// then to DefaultRate.
type Resolver struct {
	pair    domain.Pair
	sources []RateSource
	holder  *QuoteHolder
	shared  SharedQuoteStore

	clock         Clock
	freshness     time.Duration
	sourceTimeout time.Duration
	defaultRate   decimal.Decimal
	log           *zap.Logger

	group singleflight.Group
}

var _ RateResolver = (*Resolver)(nil)

type ResolverOption func(*Resolver)

func WithResolverClock(c Clock) ResolverOption { return func(r *Resolver) { r.clock = c } }
func WithSharedStore(s SharedQuoteStore) ResolverOption {
	return func(r *Resolver) { r.shared = s }
}
func WithFreshness(d time.Duration) ResolverOption { return func(r *Resolver) { r.freshness = d } }
func WithSourceTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.sourceTimeout = d }
}
func WithDefaultRate(rate decimal.Decimal) ResolverOption {
	return func(r *Resolver) { r.defaultRate = rate }
}
func WithResolverLogger(l *zap.Logger) ResolverOption { return func(r *Resolver) { r.log = l } }

func NewResolver(pair domain.Pair, holder *QuoteHolder, sources []RateSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		pair:    pair,
		sources: sources,
		holder:  holder,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.holder == nil {
		r.holder = NewQuoteHolder()
	}
	if r.clock == nil {
		r.clock = realClock{}
	}
	if r.freshness <= 0 {
		r.freshness = DefaultFreshness
	}
	if r.sourceTimeout <= 0 {
		r.sourceTimeout = DefaultSourceTimeout
	}
	if !r.defaultRate.IsPositive() {
		r.defaultRate = DefaultRate
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Resolve returns the quote to convert with. Concurrent callers that find the
// cache stale share one refresh. The refresh is detached from ctx: a caller
// that gives up gets the degraded answer while the refresh still fills the
// cache for later callers.
func (r *Resolver) Resolve(ctx context.Context) domain.RateResolution {
	if q, ok := r.holder.Load(); ok && r.fresh(q) {
		return domain.RateResolution{Quote: q, Mode: domain.RateModeCached}
	}
	return r.await(ctx, false)
}

// Refresh walks the sources even when the cached quote is still fresh.
func (r *Resolver) Refresh(ctx context.Context) domain.RateResolution {
	return r.await(ctx, true)
}

func (r *Resolver) await(ctx context.Context, force bool) domain.RateResolution {
	refreshCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan("refresh", func() (any, error) {
		return r.refresh(refreshCtx, force), nil
	})
	select {
	case res := <-ch:
		return res.Val.(domain.RateResolution)
	case <-ctx.Done():
		r.log.Warn("rate_resolve.caller_gone", zap.Error(ctx.Err()))
		return r.degraded()
	}
}

// ResolveRate is Resolve reduced to the rate.
func (r *Resolver) ResolveRate(ctx context.Context) decimal.Decimal {
	return r.Resolve(ctx).Quote.Rate
}

// Current returns the cached quote without triggering a refresh.
func (r *Resolver) Current() (domain.ExchangeQuote, bool) {
	return r.holder.Load()
}

func (r *Resolver) Freshness() time.Duration { return r.freshness }

func (r *Resolver) fresh(q domain.ExchangeQuote) bool {
	return q.Age(r.clock.Now()) < r.freshness
}

func (r *Resolver) refresh(ctx context.Context, force bool) domain.RateResolution {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "rates.refresh")
	defer span.End()
	span.SetAttributes(attribute.Bool("rate.forced", force))

	if !force {
		// another refresh may have finished between the caller's check and ours
		if q, ok := r.holder.Load(); ok && r.fresh(q) {
			return domain.RateResolution{Quote: q, Mode: domain.RateModeCached}
		}
		if q, ok := r.loadShared(ctx); ok {
			r.holder.Store(q)
			span.SetAttributes(attribute.String("rate.source", q.Source), attribute.String("rate.mode", string(domain.RateModeShared)))
			return domain.RateResolution{Quote: q, Mode: domain.RateModeShared}
		}
	}

	for _, src := range r.sources {
		rate, err := r.attempt(ctx, src)
		if err != nil {
			r.log.Warn("rate_source.failed", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		q := domain.ExchangeQuote{
			Pair:      r.pair,
			Rate:      rate,
			FetchedAt: r.clock.Now(),
			Source:    src.Name(),
		}
		r.holder.Store(q)
		r.saveShared(ctx, q)
		r.log.Info("rate_source.success", zap.String("source", src.Name()), zap.String("rate", rate.String()))
		span.SetAttributes(attribute.String("rate.source", q.Source), attribute.String("rate.mode", string(domain.RateModeLive)))
		return domain.RateResolution{Quote: q, Mode: domain.RateModeLive}
	}

	r.log.Warn("rate_resolve.degraded", zap.Error(domain.ErrSourceExhausted), zap.Int("sources", len(r.sources)))
	span.SetStatus(codes.Error, domain.ErrSourceExhausted.Error())
	return r.degraded()
}

func (r *Resolver) attempt(ctx context.Context, src RateSource) (decimal.Decimal, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "rates.source")
	defer span.End()
	span.SetAttributes(attribute.String("rate.source", src.Name()))

	ctx, cancel := context.WithTimeout(ctx, r.sourceTimeout)
	defer cancel()

	rate, err := src.FetchRate(ctx)
	if err == nil && !rate.IsPositive() {
		err = fmt.Errorf("%w: non-positive rate %s", domain.ErrMalformedPayload, rate.String())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return decimal.Decimal{}, err
	}
	return rate, nil
}

func (r *Resolver) degraded() domain.RateResolution {
	if q, ok := r.holder.Load(); ok {
		mode := domain.RateModeStale
		if r.fresh(q) {
			mode = domain.RateModeCached
		}
		return domain.RateResolution{Quote: q, Mode: mode}
	}
	return domain.RateResolution{
		Quote: domain.ExchangeQuote{
			Pair:      r.pair,
			Rate:      r.defaultRate,
			FetchedAt: r.clock.Now(),
			Source:    domain.SourceDefault,
		},
		Mode: domain.RateModeDefault,
	}
}

func (r *Resolver) loadShared(ctx context.Context) (domain.ExchangeQuote, bool) {
	if r.shared == nil {
		return domain.ExchangeQuote{}, false
	}
	q, err := r.shared.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.log.Warn("rate_shared.load_failed", zap.Error(err))
		}
		return domain.ExchangeQuote{}, false
	}
	if q.Pair != r.pair || !q.Rate.IsPositive() || !r.fresh(q) {
		return domain.ExchangeQuote{}, false
	}
	return q, true
}

func (r *Resolver) saveShared(ctx context.Context, q domain.ExchangeQuote) {
	if r.shared == nil {
		return
	}
	if err := r.shared.Save(ctx, q); err != nil {
		r.log.Warn("rate_shared.save_failed", zap.Error(err))
	}
}
