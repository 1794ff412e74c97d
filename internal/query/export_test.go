package query

import (
	"time"

	"github.com/shivros/lnq/internal/linear"
)

// Test seams for internals.

var (
	NormalizeStatus = normalizeStatus
	MatchStatus     = matchStatus
	SortByDueDate   = sortByDueDate
)

const TestStateTTL = stateTTL

// SetClock replaces the service's clock, driving both date-window
// resolution and the workflow-state cache TTL.
func SetClock(s *Service, now func() time.Time) {
	s.now = now
	s.states.now = now
}

// CachedStates exposes the raw cache contents.
func CachedStates(s *Service) []linear.WorkflowState {
	s.states.mu.RLock()
	defer s.states.mu.RUnlock()

	return s.states.states
}
