package domain

import "time"

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status  string    `json:"status"` // healthy, degraded
	Time    time.Time `json:"time"`
	APIURL  string    `json:"api_url"`
	AppName string    `json:"app_name"`
}

// LedgerMetrics is returned by GET /v1/metrics/ledger.
type LedgerMetrics struct {
	SubmitsOK       int64   `json:"submitsOk"`
	SubmitsRejected int64   `json:"submitsRejected"`
	SubmitsFailed   int64   `json:"submitsFailed"`
	Alerts          int64   `json:"alerts"`
	StaleDiscarded  int64   `json:"staleDiscarded"`
	ExternalErrors  int64   `json:"externalErrors"`
	SessionHitRate  float64 `json:"sessionHitRate"`
	Period          string  `json:"period"`
}

// ============================================================
// Generic API Response wrappers
// ============================================================

// LedgerSnapshot is returned by GET /v1/ledger.
type LedgerSnapshot struct {
	Rows    []TransactionRow `json:"rows"`
	Summary *SummaryDisplay  `json:"summary,omitempty"`
	Form    EntryForm        `json:"form"`
	Alerts  []string         `json:"alerts"`
	Sidebar SidebarState     `json:"sidebar"`
}

// SidebarState is the serialisable state of the navigation panel.
type SidebarState struct {
	Collapsed bool `json:"collapsed"`
}
