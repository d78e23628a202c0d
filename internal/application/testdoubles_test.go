package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"phoneprice-gateway/internal/domain"

	"github.com/shopspring/decimal"
)

var errBoom = errors.New("boom")

var testPair = domain.NewPair("USD", "TRY")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixedIDGen string

func (g fixedIDGen) NewID() string { return string(g) }

type fakeSource struct {
	name  string
	rate  decimal.Decimal
	err   error
	delay time.Duration
	gate  chan struct{}
	calls atomic.Int32
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return decimal.Decimal{}, ctx.Err()
		}
	}
	if s.err != nil {
		return decimal.Decimal{}, s.err
	}
	return s.rate, nil
}

type fakeSharedStore struct {
	mu      sync.Mutex
	q       *domain.ExchangeQuote
	loadErr error
	saved   []domain.ExchangeQuote
}

func (f *fakeSharedStore) Load(context.Context) (domain.ExchangeQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return domain.ExchangeQuote{}, f.loadErr
	}
	if f.q == nil {
		return domain.ExchangeQuote{}, domain.ErrNotFound
	}
	return *f.q, nil
}

func (f *fakeSharedStore) Save(_ context.Context, q domain.ExchangeQuote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, q)
	return nil
}

type stubResolver struct {
	res   domain.RateResolution
	calls atomic.Int32
}

func (s *stubResolver) Resolve(context.Context) domain.RateResolution {
	s.calls.Add(1)
	return s.res
}

type fakeInference struct {
	res    domain.PredictionResult
	err    error
	info   domain.ModelInfo
	health domain.BackendHealth
	last   domain.InferenceRequest
	calls  int
}

func (f *fakeInference) PredictPrice(_ context.Context, req domain.InferenceRequest) (domain.PredictionResult, error) {
	f.calls++
	f.last = req
	return f.res, f.err
}

func (f *fakeInference) ModelInfo(context.Context, int) (domain.ModelInfo, error) {
	return f.info, f.err
}

func (f *fakeInference) Health(context.Context) (domain.BackendHealth, error) {
	return f.health, f.err
}

type fakeCatalog struct {
	models map[int]domain.PhoneModel
	err    error
}

func (f *fakeCatalog) LookupModel(_ context.Context, id int) (domain.PhoneModel, error) {
	if f.err != nil {
		return domain.PhoneModel{}, f.err
	}
	m, ok := f.models[id]
	if !ok {
		return domain.PhoneModel{}, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeCatalog) ListModels(context.Context) ([]domain.PhoneModel, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.PhoneModel, 0, len(f.models))
	for id := 8; id <= 16; id++ {
		if m, ok := f.models[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Conditions(context.Context) ([]string, error) {
	return []string{"Mükemmel", "Çok İyi", "İyi", "Orta"}, f.err
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{models: map[int]domain.PhoneModel{
		13: {ID: 13, Name: "Apple iPhone 13", ReleaseYear: 2021, Brand: "Apple"},
		14: {ID: 14, Name: "Apple iPhone 14", ReleaseYear: 2022, Brand: "Apple"},
	}}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
