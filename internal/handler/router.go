package handler

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/boddenberg/financeiro-bfa-go/internal/infra/observability"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Info is the static application metadata reported by /healthz and shown on the page.
type Info struct {
	AppName string
	APIURL  string
}

// NewRouter creates the HTTP router with all routes and middleware.
// static is served under /static/; it may be nil.
func NewRouter(
	info Info,
	sessions *session.Store[*Page],
	tmpl *template.Template,
	static fs.FS,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(info))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	if static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	// --- Stateless API ---
	r.Post("/v1/value/normalize", normalizeValueHandler())
	r.Get("/v1/metrics/ledger", ledgerMetricsHandler(metrics))

	// --- Session-bound page and API ---
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(sessions, logger))

		r.Get("/", ledgerPageHandler(info, tmpl, logger))
		r.Post("/transactions", submitFormHandler(info, tmpl, logger))
		r.Post("/ui/sidebar/toggle", sidebarToggleHandler())
		r.Post("/ui/sidebar/outside-click", sidebarOutsideClickHandler())

		r.Get("/v1/ledger", ledgerSnapshotHandler(logger))
		r.Post("/v1/transactions", createTransactionHandler(logger))
	})

	return r
}
