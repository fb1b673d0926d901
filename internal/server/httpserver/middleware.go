package httpserver

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/telemetry/logger"
	"github.com/yndnr/ofchat-go/internal/telemetry/metric"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first middleware is the
// outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID tags each request with an ID, reusing the caller's X-Request-ID
// when present.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" || len(requestID) > 128 {
				requestID = "req-" + uuid.NewString()
			}

			w.Header().Set("X-Request-ID", requestID)
			ctx := logger.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Audit logs one line per request.
func Audit(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			status := wrapped.statusCode
			level, msg := slog.LevelInfo, "request completed"
			switch {
			case status >= 500:
				level, msg = slog.LevelError, "request completed with error"
			case status >= 400:
				level, msg = slog.LevelWarn, "request completed with client error"
			}
			log.Log(r.Context(), level, msg,
				"method", r.Method,
				"path", r.URL.Path,
				"action", r.URL.Query().Get("action"),
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", getClientIP(r))
		})
	}
}

// Recover recovers from panics and returns a 500 error reply.
func Recover(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.ErrorContext(r.Context(), "panic recovered",
						"error", err,
						"path", r.URL.Path,
					)
					writeError(w, domain.ErrInternal)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// CORS adds Cross-Origin Resource Sharing headers and answers preflight
// requests. An empty list or "*" allows every origin.
func CORS(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := len(allowedOrigins) == 0
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}

			if allowed && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ipLimiters hands out one token bucket per client IP.
type ipLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*ipLimiter
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// idleLimiter is how long an unused bucket is kept.
const idleLimiter = 10 * time.Minute

func (l *ipLimiters) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) > 0 && len(l.limiters)%1024 == 0 {
			l.evict(now)
		}
		entry = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// evict drops buckets idle for longer than idleLimiter. Caller holds mu.
func (l *ipLimiters) evict(now time.Time) {
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > idleLimiter {
			delete(l.limiters, ip)
		}
	}
}

// RateLimit limits each client IP to requestsPerSecond with a burst of the
// same size. A non-positive rate disables the limit.
func RateLimit(requestsPerSecond float64) Middleware {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	limiters := &ipLimiters{
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		limiters: make(map[string]*ipLimiter),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(getClientIP(r), time.Now()) {
				w.Header().Set("Retry-After", "1")
				writeError(w, errTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// errTooManyRequests is returned by RateLimit.
var errTooManyRequests = domain.NewDomainError("OF-SYS-4290", domain.CategoryInternal, "Too many requests")

// Metrics records request counts and latencies labelled by method and action.
func Metrics(reg *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		if reg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			action := actionLabel(r)
			reg.RecordRequest(r.Method, action, strconv.Itoa(wrapped.statusCode))
			reg.ObserveRequestDuration(r.Method, action, time.Since(start).Seconds())
		})
	}
}

// actionLabel bounds label cardinality to the known endpoints.
func actionLabel(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, "/")
	switch path {
	case "sms", "auth", "users":
	default:
		return path
	}

	action := r.URL.Query().Get("action")
	switch action {
	case "":
		return path
	case "send", "verify", "register", "login", "profile", "search", "add_contact", "contacts":
		return path + "." + action
	default:
		return path + ".unknown"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.statusCode = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// writeError writes the standard {"error", "code"} reply.
func writeError(w http.ResponseWriter, de *domain.DomainError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", de.Code)
	w.WriteHeader(de.HTTPStatus())
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": de.Message,
		"code":  de.Code,
	})
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// SplitHostPort handles IPv6 addresses like [::1]:8080.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
