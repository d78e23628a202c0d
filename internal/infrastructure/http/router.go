package httpserver

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"phoneprice-gateway/internal/adapters/protocol"
	"phoneprice-gateway/internal/domain"
	"phoneprice-gateway/internal/infrastructure/logx"
	redisstore "phoneprice-gateway/internal/infrastructure/redis"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID())
	r.Use(traceID())
	r.Use(recoverer(s.log))
	r.Use(accessLog(s.log))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "endpoint not found")
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.ping != nil {
			if err := s.ping(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "db not ready")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(s.limiter, s.trustXFF, s.log))
		r.Post("/predict", s.Predict)
		r.Get("/health", s.Health)
		r.Get("/models", s.ListModels)
		r.Get("/models/{id}", s.GetModel)
		r.Get("/conditions", s.ListConditions)
		r.Get("/rate", s.GetRate)
		r.Get("/soap/convert", s.SOAPConvert)
		r.Post("/soap/convert", s.SOAPConvert)
	})

	// legacy clients call the envelope endpoint outside /api
	r.Get("/soap/convert", s.SOAPConvert)
	r.Post("/soap/convert", s.SOAPConvert)

	return otelhttp.NewHandler(r, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func requestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(logx.WithRequestID(r.Context(), rid)))
		})
	}
}

// traceID echoes the inbound X-Trace-Id, else the active span's trace id.
func traceID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid := r.Header.Get("X-Trace-Id")
			if tid == "" {
				if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
					tid = sc.TraceID().String()
				} else {
					tid = uuid.NewString()
				}
			}
			w.Header().Set("X-Trace-Id", tid)
			next.ServeHTTP(w, r.WithContext(logx.WithTraceID(r.Context(), tid)))
		})
	}
}

func isSOAP(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/soap/") || strings.HasPrefix(r.URL.Path, "/api/soap/")
}

func recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logx.From(r.Context(), log).Error("panic recovered", zap.Any("error", rec))
					if isSOAP(r) {
						writeEnvelope(w, protocol.FaultEnvelope(fmt.Errorf("%w: internal error", domain.ErrProtocolFault)))
						return
					}
					internalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func accessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(sr, r)
			logx.From(r.Context(), log).Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sr.status),
				zap.Int("bytes", sr.bytes),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// rateLimit admits requests per client address. Limiter errors let the
// request through.
func rateLimit(l redisstore.Limiter, trustXFF bool, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := l.Allow(r.Context(), clientIP(r, trustXFF))
			if err != nil {
				logx.From(r.Context(), log).Warn("ratelimit_unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if d.Limit > 0 {
				reset := strconv.Itoa(int(d.ResetIn.Round(time.Second) / time.Second))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
				w.Header().Set("X-RateLimit-Reset", reset)
				if !d.Allowed {
					w.Header().Set("Retry-After", reset)
				}
			}
			if !d.Allowed {
				writeError(w, http.StatusTooManyRequests, "too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the peer address. X-Forwarded-For is only read behind a
// trusted proxy.
func clientIP(r *http.Request, trustXFF bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustXFF && fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
