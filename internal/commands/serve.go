package commands

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boddenberg/financeiro-bfa-go/internal/handler"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/observability"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/session"
	"github.com/boddenberg/financeiro-bfa-go/web"
)

func newServeCommand(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger web page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "listen port (overrides PORT)")

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, cfg.AppName)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("ledger_api_url", cfg.LedgerAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.String("locale", cfg.Locale),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "financeiro-bfa")
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Ledger API client ---
	formatter, err := a.formatter()
	if err != nil {
		return err
	}
	api := a.ledgerClient(logger)

	// --- Sessions ---
	pages := handler.NewPageFactory(api, api, formatter, cfg.SidebarBreakpoint, metrics, logger)
	sessions := session.NewStore(session.NewManager(cfg.SessionSecret, cfg.SessionTTL), metrics, logger, pages)
	defer sessions.Close()

	// --- Templates ---
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	// --- Router ---
	info := handler.Info{AppName: cfg.AppName, APIURL: cfg.LedgerAPIURL}
	router := handler.NewRouter(info, sessions, tmpl, static, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// --- Graceful shutdown ---
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
