// Package view holds the application state the ledger renders into and the
// adapters that put that state in front of a user.
package view

import (
	"sync"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"
)

// State is the explicit application state of one ledger page. It implements
// port.View; every method is safe for concurrent use.
type State struct {
	mu      sync.RWMutex
	rows    []domain.TransactionRow
	summary *domain.SummaryDisplay
	form    domain.EntryForm
	alerts  []string
	sidebar Sidebar
}

// NewState returns an empty page state.
func NewState(breakpoint int) *State {
	return &State{sidebar: NewSidebar(breakpoint)}
}

// ShowTransactions replaces the whole table.
func (s *State) ShowTransactions(rows []domain.TransactionRow) {
	cp := make([]domain.TransactionRow, len(rows))
	copy(cp, rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = cp
}

// ShowSummary replaces the three summary regions.
func (s *State) ShowSummary(d domain.SummaryDisplay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = &d
}

// ResetForm clears every entry form field.
func (s *State) ResetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = domain.EntryForm{}
}

// Alert queues a message for the next render.
func (s *State) Alert(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, msg)
}

// SetForm records what the user typed, so a failed submit can show it again.
func (s *State) SetForm(f domain.EntryForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = f
}

// ToggleSidebar flips the navigation panel.
func (s *State) ToggleSidebar() domain.SidebarState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebar.Toggle()
	return domain.SidebarState{Collapsed: s.sidebar.Collapsed}
}

// SidebarOutsideClick applies a click outside the panel at the given viewport width.
func (s *State) SidebarOutsideClick(viewportWidth int) domain.SidebarState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebar.OutsideClick(viewportWidth)
	return domain.SidebarState{Collapsed: s.sidebar.Collapsed}
}

// Snapshot copies the current state and drains the pending alerts.
func (s *State) Snapshot() domain.LedgerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.LedgerSnapshot{
		Rows:    make([]domain.TransactionRow, len(s.rows)),
		Form:    s.form,
		Alerts:  s.alerts,
		Sidebar: domain.SidebarState{Collapsed: s.sidebar.Collapsed},
	}
	copy(snap.Rows, s.rows)
	if s.summary != nil {
		sum := *s.summary
		snap.Summary = &sum
	}
	if snap.Alerts == nil {
		snap.Alerts = []string{}
	}
	s.alerts = nil
	return snap
}

// DrainAlerts returns and clears the pending alerts.
func (s *State) DrainAlerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := s.alerts
	s.alerts = nil
	return alerts
}
