package handler

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"
	"github.com/boddenberg/financeiro-bfa-go/internal/format"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/observability"

	"go.uber.org/zap"
)

const pageTemplate = "ledger_page"

type pageData struct {
	AppName string
	domain.LedgerSnapshot
}

// ============================================================
// 1. Ledger page
// ============================================================

func ledgerPageHandler(info Info, tmpl *template.Template, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /")
		defer span.End()

		page := PageFromContext(ctx)
		// Failures are already alerts on the page.
		_ = page.Ledger.Initialize(ctx)

		renderPage(w, http.StatusOK, info, tmpl, page, logger)
	}
}

func submitFormHandler(info Info, tmpl *template.Template, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /transactions")
		defer span.End()

		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}

		form := domain.EntryForm{
			Type:        r.PostForm.Get("type"),
			Description: r.PostForm.Get("description"),
			Value:       r.PostForm.Get("value"),
			Date:        r.PostForm.Get("date"),
		}
		form.Value, _ = format.NormalizeCurrencyInput(form.Value)

		page := PageFromContext(ctx)
		page.State.SetForm(form)

		status := http.StatusOK
		if err := page.Ledger.Submit(ctx, form); err != nil {
			status = http.StatusUnprocessableEntity
		}
		renderPage(w, status, info, tmpl, page, logger)
	}
}

func renderPage(w http.ResponseWriter, status int, info Info, tmpl *template.Template, page *Page, logger *zap.Logger) {
	data := pageData{AppName: info.AppName, LedgerSnapshot: page.State.Snapshot()}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, pageTemplate, data); err != nil {
		logger.Error("page template execution failed", zap.Error(err))
	}
}

// ============================================================
// 2. Sidebar
// ============================================================

func sidebarToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		PageFromContext(r.Context()).State.ToggleSidebar()
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func sidebarOutsideClickHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		width, err := strconv.Atoi(r.FormValue("width"))
		if err != nil || width < 0 {
			writeError(w, http.StatusBadRequest, "width must be a non-negative integer")
			return
		}

		state := PageFromContext(r.Context()).State.SidebarOutsideClick(width)
		writeJSON(w, http.StatusOK, state)
	}
}

// ============================================================
// 3. JSON API
// ============================================================

type normalizeRequest struct {
	Value string `json:"value"`
}

type normalizeResponse struct {
	Value   string `json:"value"`
	Changed bool   `json:"changed"`
}

func normalizeValueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req normalizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		value, changed := format.NormalizeCurrencyInput(req.Value)
		writeJSON(w, http.StatusOK, normalizeResponse{Value: value, Changed: changed})
	}
}

func ledgerSnapshotHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/ledger")
		defer span.End()

		page := PageFromContext(ctx)
		if err := page.Ledger.Initialize(ctx); err != nil {
			logger.Debug("ledger snapshot served with alerts", zap.Error(err))
		}
		writeJSON(w, http.StatusOK, page.State.Snapshot())
	}
}

func createTransactionHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/transactions")
		defer span.End()

		var form domain.EntryForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		page := PageFromContext(ctx)
		page.State.SetForm(form)
		if err := page.Ledger.Submit(ctx, form); err != nil {
			// Reported in the error body.
			page.State.DrainAlerts()
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, page.State.Snapshot())
	}
}

// ============================================================
// 4. Metrics & Health
// ============================================================

func ledgerMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}

func healthzHandler(info Info) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:  "healthy",
			Time:    time.Now().UTC(),
			APIURL:  info.APIURL,
			AppName: info.AppName,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
