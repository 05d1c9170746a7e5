package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boddenberg/financeiro-bfa-go/internal/buildinfo"
	"github.com/boddenberg/financeiro-bfa-go/internal/config"
	"github.com/boddenberg/financeiro-bfa-go/internal/format"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/client"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/observability"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/resilience"
)

// app is the configuration shared by every subcommand. It is filled in by the
// root command's PersistentPreRunE, after flags are parsed.
type app struct {
	cfg *config.Config

	apiURL string
	locale string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Personal finance ledger client",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "ledger API base URL (overrides LEDGER_API_URL)")
	rootCmd.PersistentFlags().StringVar(&a.locale, "locale", "", "display locale, e.g. pt-BR (overrides LOCALE)")

	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newShowCommand(a))
	rootCmd.AddCommand(newAddCommand(a))
	rootCmd.AddCommand(newNormalizeCommand())

	return rootCmd
}

func (a *app) load() error {
	// A missing .env is fine.
	_ = config.LoadDotEnv()

	a.cfg = config.Load()
	if a.apiURL != "" {
		a.cfg.LedgerAPIURL = a.apiURL
	}
	if a.locale != "" {
		a.cfg.Locale = a.locale
	}
	return nil
}

func (a *app) formatter() (*format.LocaleFormatter, error) {
	f, err := format.ForTag(a.cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", a.cfg.Locale, err)
	}
	return f, nil
}

func (a *app) ledgerClient(logger *zap.Logger) *client.LedgerClient {
	return client.NewLedgerClient(
		&http.Client{Timeout: a.cfg.HTTPTimeout},
		a.cfg.LedgerAPIURL,
		resilience.NewCircuitBreaker("ledger-api", logger),
		resilience.NewBulkhead(a.cfg.MaxConcurrency),
	)
}

// cliLogger keeps the terminal quiet unless LOG_LEVEL asks for debug output.
func (a *app) cliLogger() *zap.Logger {
	if a.cfg.LogLevel == "debug" {
		return observability.NewLogger("debug", a.cfg.AppName)
	}
	return zap.NewNop()
}
