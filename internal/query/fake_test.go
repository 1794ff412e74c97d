package query_test

import (
	"context"
	"errors"
	"sync"

	"github.com/shivros/lnq/internal/linear"
)

var errBoom = errors.New("boom")

// fakeAPI is an in-memory query.API with call counting.
type fakeAPI struct {
	mu sync.Mutex

	teams     []linear.Team
	teamsErr  error
	teamCalls int

	statePages   []linear.WorkflowStatePage
	statesErr    error
	pageCalls    int
	stateFetches int // first-page requests

	issues     []linear.Issue
	issuesErr  error
	issueCalls int
	lastFilter *linear.IssueFilter
	lastLimit  int

	issuesByID map[string]*linear.Issue

	// stateGate, when set, blocks the first page request until closed.
	stateGate chan struct{}
}

func (f *fakeAPI) Teams(context.Context) ([]linear.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.teamCalls++

	if f.teamsErr != nil {
		return nil, f.teamsErr
	}

	return f.teams, nil
}

func (f *fakeAPI) WorkflowStatesPage(_ context.Context, cursor string) (linear.WorkflowStatePage, error) {
	f.mu.Lock()
	gate := f.stateGate
	f.pageCalls++

	if cursor == "" {
		f.stateFetches++
	}

	f.mu.Unlock()

	if cursor == "" && gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.statesErr != nil {
		return linear.WorkflowStatePage{}, f.statesErr
	}

	if cursor == "" {
		return f.statePages[0], nil
	}

	for i, page := range f.statePages[:len(f.statePages)-1] {
		if page.PageInfo.EndCursor == cursor {
			return f.statePages[i+1], nil
		}
	}

	return linear.WorkflowStatePage{}, errors.New("unknown cursor: " + cursor)
}

func (f *fakeAPI) Issues(_ context.Context, filter *linear.IssueFilter, limit int) ([]linear.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.issueCalls++
	f.lastFilter = filter
	f.lastLimit = limit

	if f.issuesErr != nil {
		return nil, f.issuesErr
	}

	if limit > 0 && len(f.issues) > limit {
		return f.issues[:limit], nil
	}

	return f.issues, nil
}

func (f *fakeAPI) Issue(_ context.Context, id string) (*linear.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.issuesErr != nil {
		return nil, f.issuesErr
	}

	return f.issuesByID[id], nil
}

// onePage wraps states into a single terminal page.
func onePage(states ...linear.WorkflowState) []linear.WorkflowStatePage {
	return []linear.WorkflowStatePage{{Nodes: states}}
}
