package view

// DefaultBreakpoint is the widest viewport, in logical pixels, that counts as narrow.
const DefaultBreakpoint = 768

// Sidebar is the collapsible navigation panel.
type Sidebar struct {
	Collapsed  bool
	Breakpoint int
}

// NewSidebar returns an open sidebar. A non-positive breakpoint uses DefaultBreakpoint.
func NewSidebar(breakpoint int) Sidebar {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return Sidebar{Breakpoint: breakpoint}
}

// Toggle flips the panel, as a click on the toggle button does.
func (s *Sidebar) Toggle() {
	s.Collapsed = !s.Collapsed
}

// OutsideClick handles a click that landed outside both the panel and its
// toggle button. Only narrow viewports collapse the panel.
func (s *Sidebar) OutsideClick(viewportWidth int) {
	if viewportWidth <= s.Breakpoint {
		s.Collapsed = true
	}
}
