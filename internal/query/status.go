package query

import (
	"strings"

	"github.com/shivros/lnq/internal/linear"
)

// normalizeStatus lowercases and strips every character outside [a-z0-9],
// so "In Progress", "in-progress" and "INPROGRESS" compare equal. Used
// solely for status-name comparison.
func normalizeStatus(name string) string {
	lower := strings.ToLower(name)

	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}

		return -1
	}, lower)
}

// matchStatus finds the workflow state whose normalized name equals the
// normalized query name. With a team scope, a candidate matches when it
// is global (no team) or belongs to that team. The first match in fetch
// order wins; duplicate same-named states in one scope resolve by fetch
// order, which is a deliberate, tested contract.
func matchStatus(states []linear.WorkflowState, name, teamID string) (linear.WorkflowState, bool) {
	want := normalizeStatus(name)

	for _, state := range states {
		if normalizeStatus(state.Name) != want {
			continue
		}

		if teamID == "" || state.Team == nil || state.Team.ID == teamID {
			return state, true
		}
	}

	return linear.WorkflowState{}, false
}
