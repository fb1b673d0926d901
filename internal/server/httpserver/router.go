package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/ofchat-go/internal/server/httpserver/handler"
	"github.com/yndnr/ofchat-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Verifier serves /sms.
	Verifier handler.Verifier

	// Accounts serves /auth and /users.
	Accounts handler.Accounts

	// Logger for request logging.
	Logger *slog.Logger

	// Metrics records request metrics and backs /metrics. Nil disables both.
	Metrics *metric.Registry

	// CORSOrigins is the list of allowed CORS origins (empty = allow all).
	CORSOrigins []string

	// RateLimit is the per-IP request rate in requests/second (0 = unlimited).
	RateLimit float64
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// Order: Recover -> RequestID -> Metrics -> Audit -> CORS -> RateLimit -> Handler.
// /health and /metrics skip the rate limit and CORS.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(cfg.Verifier, cfg.Accounts, log)

	api := Chain(h,
		Recover(log),
		RequestID(),
		Metrics(cfg.Metrics),
		Audit(log),
		CORS(cfg.CORSOrigins),
		RateLimit(cfg.RateLimit),
	)
	probe := Chain(h, Recover(log), RequestID())

	mux := http.NewServeMux()
	mux.Handle("/sms", api)
	mux.Handle("/auth", api)
	mux.Handle("/users", api)
	mux.Handle("GET /health", probe)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(log)))
	}

	return mux
}
