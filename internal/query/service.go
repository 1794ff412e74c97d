// Package query resolves human-facing issue query parameters (team name,
// status name, assignee email, date expressions) into exact Linear filter
// identifiers, runs the remote query and post-processes the result.
//
// A Service owns the two session caches (team-name index, workflow-state
// cache). It is created with one credential's API client and discarded
// with it; independent credentials get independent Services and never
// share cache state. All methods are safe for concurrent use.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shivros/lnq/internal/linear"
)

// Options is the structured query surface. All fields are optional;
// an absent field means "do not filter or sort on this dimension".
type Options struct {
	Limit           int
	Team            string
	Status          string
	Assignee        string
	DueAfter        string
	DueBefore       string
	Sort            Direction
	HideDescription bool
}

// Result is the outcome of one query. Diagnostic is a human-readable
// message describing any resolution failure; a failed query degrades to
// empty Issues plus a Diagnostic, never an error.
type Result struct {
	Issues     []linear.Issue
	Diagnostic string
}

// Lookup pairs a requested issue ID with its issue, nil when absent.
type Lookup struct {
	ID    string
	Issue *linear.Issue
}

// Service is the query facade over one Linear credential.
type Service struct {
	api    API
	teams  *teamIndex
	states *stateCache
	now    func() time.Time
}

// NewService creates a Service around an API client. Caches start empty
// and live until the Service is discarded.
func NewService(api API) *Service {
	return &Service{
		api:    api,
		teams:  newTeamIndex(api),
		states: newStateCache(api),
		now:    time.Now,
	}
}

// Run resolves opts, executes the issue query and applies sorting.
// Resolution order is fixed: team, then status (scoped by the resolved
// team), then date window, then assignee, then fetch, then sort. Run
// never fails: every error path returns an empty Result with a
// diagnostic naming the failed step and its input.
func (s *Service) Run(ctx context.Context, opts Options) Result {
	var teamID string

	builders := []clauseBuilder{
		s.teamClause(opts.Team, &teamID),
		s.statusClause(opts.Status, opts.Team, &teamID),
		dueDateClause(opts.DueAfter, opts.DueBefore, s.now()),
		assigneeClause(opts.Assignee),
	}

	filter, diags, abort := composeFilter(ctx, builders)
	if abort != "" {
		return Result{Diagnostic: joinDiags(append(diags, abort))}
	}

	issues, err := s.api.Issues(ctx, filter, opts.Limit)
	if err != nil {
		diags = append(diags, fmt.Sprintf("%v: %v", ErrIssueFetch, err))

		return Result{Diagnostic: joinDiags(diags)}
	}

	sortByDueDate(issues, opts.Sort)

	return Result{Issues: issues, Diagnostic: joinDiags(diags)}
}

// teamClause resolves the team name and writes the resolved ID through
// resolvedID for the status clause. A supplied-but-unknown team aborts
// the query rather than silently dropping the clause.
func (s *Service) teamClause(name string, resolvedID *string) clauseBuilder {
	return func(ctx context.Context) clause {
		if name == "" {
			return clause{}
		}

		id, found, err := s.teams.resolve(ctx, name)
		if err != nil {
			return clause{Abort: err.Error()}
		}

		if !found {
			return clause{Abort: fmt.Sprintf("team %q not found", name)}
		}

		*resolvedID = id

		return clause{Apply: func(f *linear.IssueFilter) {
			f.Team = &linear.IDFilter{ID: &linear.StringComparator{Eq: id}}
		}}
	}
}

// statusClause resolves the status name against the workflow-state
// cache, scoped to the team resolved by the preceding clause when one
// was given. Same abort-on-miss rule as the team clause.
func (s *Service) statusClause(name, teamName string, teamID *string) clauseBuilder {
	return func(ctx context.Context) clause {
		if name == "" {
			return clause{}
		}

		states, err := s.states.getAll(ctx)
		if err != nil {
			return clause{Abort: err.Error()}
		}

		state, found := matchStatus(states, name, *teamID)
		if !found {
			if teamName != "" {
				return clause{Abort: fmt.Sprintf("status %q not found for team %q", name, teamName)}
			}

			return clause{Abort: fmt.Sprintf("status %q not found", name)}
		}

		return clause{Apply: func(f *linear.IssueFilter) {
			f.State = &linear.IDFilter{ID: &linear.StringComparator{Eq: state.ID}}
		}}
	}
}

// IssueByID fetches one issue. Returns (nil, nil) when absent.
func (s *Service) IssueByID(ctx context.Context, id string) (*linear.Issue, error) {
	issue, err := s.api.Issue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIssueFetch, err)
	}

	return issue, nil
}

// IssuesByIDs looks up each ID in turn, preserving input order. Absent
// issues keep their slot with a nil Issue.
func (s *Service) IssuesByIDs(ctx context.Context, ids []string) ([]Lookup, error) {
	lookups := make([]Lookup, 0, len(ids))

	for _, id := range ids {
		issue, err := s.IssueByID(ctx, id)
		if err != nil {
			return nil, err
		}

		lookups = append(lookups, Lookup{ID: id, Issue: issue})
	}

	return lookups, nil
}

// Teams lists all teams and opportunistically indexes them, so a
// listing amortizes later name resolutions.
func (s *Service) Teams(ctx context.Context) ([]linear.Team, error) {
	teams, err := s.api.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTeamFetch, err)
	}

	s.teams.add(teams)

	return teams, nil
}

// States returns the cached workflow-state set, optionally filtered to
// states visible to one team (its own plus global ones).
func (s *Service) States(ctx context.Context, teamID string) ([]linear.WorkflowState, error) {
	states, err := s.states.getAll(ctx)
	if err != nil {
		return nil, err
	}

	if teamID == "" {
		return states, nil
	}

	var scoped []linear.WorkflowState

	for _, state := range states {
		if state.Team == nil || state.Team.ID == teamID {
			scoped = append(scoped, state)
		}
	}

	return scoped, nil
}

// ResolveTeam resolves a team name to its ID.
func (s *Service) ResolveTeam(ctx context.Context, name string) (string, bool, error) {
	return s.teams.resolve(ctx, name)
}

func joinDiags(diags []string) string {
	return strings.Join(diags, "; ")
}
