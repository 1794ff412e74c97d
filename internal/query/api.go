package query

import (
	"context"

	"github.com/shivros/lnq/internal/linear"
)

// API is the slice of the Linear client the query core consumes.
// *linear.Client satisfies it; tests substitute fakes.
type API interface {
	Teams(ctx context.Context) ([]linear.Team, error)
	WorkflowStatesPage(ctx context.Context, cursor string) (linear.WorkflowStatePage, error)
	Issues(ctx context.Context, filter *linear.IssueFilter, limit int) ([]linear.Issue, error)
	Issue(ctx context.Context, id string) (*linear.Issue, error)
}
