package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"phoneprice-gateway/internal/adapters/protocol"
	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/domain"
	"phoneprice-gateway/internal/infrastructure/grpc/inferenceclient"
	"phoneprice-gateway/internal/infrastructure/logx"
	redisstore "phoneprice-gateway/internal/infrastructure/redis"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Predictor interface {
	Predict(ctx context.Context, spec domain.PhoneSpecification) (domain.ConvertedResult, error)
	Convert(ctx context.Context, amount decimal.Decimal) (domain.Conversion, error)
	NewRecord(res domain.ConvertedResult) domain.PredictionRecord
}

type RateView interface {
	Resolve(ctx context.Context) domain.RateResolution
	Freshness() time.Duration
}

var _ Predictor = (*application.PredictionService)(nil)
var _ RateView = (*application.Resolver)(nil)

type Server struct {
	predictor Predictor
	catalog   *application.CatalogService
	rates     RateView
	recorder  application.PredictionRecorder
	limiter   redisstore.Limiter
	trustXFF  bool
	ping      func(ctx context.Context) error
	now       func() time.Time
	log       *zap.Logger
}

type Option func(*Server)

func WithRecorder(r application.PredictionRecorder) Option { return func(s *Server) { s.recorder = r } }
func WithLimiter(l redisstore.Limiter) Option              { return func(s *Server) { s.limiter = l } }
func WithTrustProxy(b bool) Option                         { return func(s *Server) { s.trustXFF = b } }
func WithLogger(l *zap.Logger) Option                      { return func(s *Server) { s.log = l } }
func WithNow(now func() time.Time) Option                  { return func(s *Server) { s.now = now } }

func NewServer(p Predictor, c *application.CatalogService, rates RateView, opts ...Option) *Server {
	s := &Server{predictor: p, catalog: c, rates: rates}
	for _, opt := range opts {
		opt(s)
	}
	if s.recorder == nil {
		s.recorder = application.NoopRecorder{}
	}
	if s.limiter == nil {
		s.limiter = redisstore.NoopLimiter{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logx.L()
	}
	return s
}

// SetReadyCheck installs the dependency probe behind /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

// looseInt accepts a JSON number or a numeric string, as form-built
// clients send. Anything else decodes to zero and fails validation as a
// missing field.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = 0
	switch t := v.(type) {
	case float64:
		*n = looseInt(t)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			*n = looseInt(i)
		}
	}
	return nil
}

type predictRequest struct {
	ModelID     looseInt `json:"model_id"`
	RAMGB       looseInt `json:"ram_gb"`
	StorageGB   looseInt `json:"storage_gb"`
	Condition   string   `json:"condition"`
	ReleaseYear looseInt `json:"release_year"`
}

func (p predictRequest) spec() domain.PhoneSpecification {
	return domain.PhoneSpecification{
		ModelID:     int(p.ModelID),
		RAMGB:       int(p.RAMGB),
		StorageGB:   int(p.StorageGB),
		Condition:   p.Condition,
		ReleaseYear: int(p.ReleaseYear),
	}
}

func (s *Server) Predict(w http.ResponseWriter, r *http.Request) {
	var body predictRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := s.predictor.Predict(r.Context(), body.spec())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, protocol.ToJSONError(err))
			return
		}
		s.logFor(r).Error("predict_failed", zap.Error(err))
		internalError(w)
		return
	}
	s.record(r.Context(), res)
	writeJSON(w, http.StatusOK, protocol.ToJSON(res))
}

func (s *Server) record(ctx context.Context, res domain.ConvertedResult) {
	rec := s.predictor.NewRecord(res)
	if err := s.recorder.Record(ctx, rec); err != nil {
		logx.From(ctx, s.log).Warn("prediction_record_failed", zap.String("id", rec.ID), zap.Error(err))
	}
}

type healthServices struct {
	API     string `json:"api"`
	Catalog string `json:"catalog"`
	GRPC    string `json:"grpc"`
	MLModel string `json:"ml_model"`
}

type healthDocument struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
	Version   string         `json:"version,omitempty"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	doc := healthDocument{
		Status:    "healthy",
		Timestamp: s.now().UTC().Format(isoMillis),
		Services:  healthServices{API: "ok", Catalog: "ok", GRPC: "unavailable", MLModel: "fallback_mode"},
	}
	if _, err := s.catalog.Models(r.Context()); err != nil {
		doc.Services.Catalog = "error"
	}
	if h, err := s.catalog.BackendHealth(r.Context()); err == nil {
		doc.Services.GRPC = "error"
		if h.Status == inferenceclient.HealthyStatus {
			doc.Services.GRPC = "ok"
		}
		doc.Services.MLModel = "not_loaded"
		if h.ModelLoaded {
			doc.Services.MLModel = "loaded"
		}
		doc.Version = h.Version
	} else {
		s.logFor(r).Info("inference_health_unavailable", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, doc)
}

type modelDocument struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ReleaseYear int    `json:"release_year"`
	Brand       string `json:"brand,omitempty"`

	AvailableStorage []int `json:"available_storage,omitempty"`
	RAMGB            int   `json:"ram_gb,omitempty"`
	IsPro            *bool `json:"is_pro,omitempty"`
}

type listDocument[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func toModelDocument(m domain.PhoneModel) modelDocument {
	return modelDocument{ID: m.ID, Name: m.Name, ReleaseYear: m.ReleaseYear, Brand: m.Brand}
}

func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.catalog.Models(r.Context())
	if err != nil {
		s.logFor(r).Error("list_models_failed", zap.Error(err))
		internalError(w)
		return
	}
	out := make([]modelDocument, 0, len(models))
	for _, m := range models {
		out = append(out, toModelDocument(m))
	}
	writeJSON(w, http.StatusOK, listDocument[[]modelDocument]{Success: true, Data: out})
}

func (s *Server) GetModel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}
	m, info, err := s.catalog.Model(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "model not found")
			return
		}
		s.logFor(r).Error("get_model_failed", zap.Int("model_id", id), zap.Error(err))
		internalError(w)
		return
	}
	doc := toModelDocument(m)
	if info != nil {
		doc.AvailableStorage = info.AvailableStorage
		doc.RAMGB = info.RAMGB
		doc.IsPro = &info.IsPro
	}
	writeJSON(w, http.StatusOK, listDocument[modelDocument]{Success: true, Data: doc})
}

func (s *Server) ListConditions(w http.ResponseWriter, r *http.Request) {
	conds, err := s.catalog.Conditions(r.Context())
	if err != nil {
		s.logFor(r).Error("list_conditions_failed", zap.Error(err))
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, listDocument[[]string]{Success: true, Data: conds})
}

type rateDocument struct {
	Pair       string  `json:"pair"`
	Rate       float64 `json:"rate"`
	Source     string  `json:"source"`
	Mode       string  `json:"mode"`
	FetchedAt  string  `json:"fetched_at"`
	AgeSeconds float64 `json:"age_seconds"`
	Fresh      bool    `json:"fresh"`
}

func (s *Server) GetRate(w http.ResponseWriter, r *http.Request) {
	res := s.rates.Resolve(r.Context())
	age := res.Quote.Age(s.now())
	if age < 0 {
		age = 0
	}
	writeJSON(w, http.StatusOK, listDocument[rateDocument]{Success: true, Data: rateDocument{
		Pair:       string(res.Quote.Pair),
		Rate:       res.Quote.Rate.InexactFloat64(),
		Source:     res.Quote.Source,
		Mode:       string(res.Mode),
		FetchedAt:  res.Quote.FetchedAt.UTC().Format(isoMillis),
		AgeSeconds: age.Round(time.Second).Seconds(),
		Fresh:      age < s.rates.Freshness(),
	}})
}

func (s *Server) logFor(r *http.Request) *zap.Logger { return logx.From(r.Context(), s.log) }

const (
	isoMillis = "2006-01-02T15:04:05.000Z07:00"
	maxBody   = 1 << 20
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, protocol.ErrorDocument{Error: msg})
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
