package query

import (
	"context"
	"time"

	"github.com/shivros/lnq/internal/linear"
)

// clause is the outcome of one filter dimension. Exactly one of the
// three shapes applies: no clause (zero value), a clause (Apply set),
// or an abort (Abort set), which terminates the whole query with a
// user-facing diagnostic. Diags carries non-fatal diagnostics either way.
type clause struct {
	Apply func(*linear.IssueFilter)
	Abort string
	Diags []string
}

// clauseBuilder produces one clause. Builders run lazily in fixed order
// so an abort skips the remote calls of later dimensions.
type clauseBuilder func(ctx context.Context) clause

// composeFilter folds clause builders into a filter. It returns the
// filter (nil when no dimension contributed), collected diagnostics,
// and the abort diagnostic if any builder aborted.
func composeFilter(ctx context.Context, builders []clauseBuilder) (*linear.IssueFilter, []string, string) {
	var (
		filter  linear.IssueFilter
		diags   []string
		applied bool
	)

	for _, build := range builders {
		c := build(ctx)
		diags = append(diags, c.Diags...)

		if c.Abort != "" {
			return nil, diags, c.Abort
		}

		if c.Apply != nil {
			c.Apply(&filter)
			applied = true
		}
	}

	if !applied {
		return nil, diags, ""
	}

	return &filter, diags, ""
}

// assigneeClause filters by assignee email. The email is passed through
// unvalidated; the API is the source of truth for matching.
func assigneeClause(email string) clauseBuilder {
	return func(context.Context) clause {
		if email == "" {
			return clause{}
		}

		return clause{Apply: func(f *linear.IssueFilter) {
			f.Assignee = &linear.EmailFilter{Email: &linear.StringComparator{Eq: email}}
		}}
	}
}

// dueDateClause builds the due-date bounds from the dueAfter/dueBefore
// tokens. Each token resolves to a one-day window independently; "after"
// maps the window start to an inclusive lower bound and "before" maps
// the window start to an exclusive upper bound (before the day's start,
// not its end). An unparseable token omits only its own bound and is
// surfaced as a diagnostic, never an abort.
func dueDateClause(after, before string, now time.Time) clauseBuilder {
	return func(context.Context) clause {
		var (
			cmp   linear.DateComparator
			diags []string
			bound bool
		)

		if after != "" {
			w, ok := ResolveWindow(after, now)
			if ok {
				cmp.Gte = w.Start.Format(time.RFC3339)
				bound = true
			} else {
				diags = append(diags, `could not parse date "`+after+`"`)
			}
		}

		if before != "" {
			w, ok := ResolveWindow(before, now)
			if ok {
				cmp.Lt = w.Start.Format(time.RFC3339)
				bound = true
			} else {
				diags = append(diags, `could not parse date "`+before+`"`)
			}
		}

		if !bound {
			return clause{Diags: diags}
		}

		return clause{
			Diags: diags,
			Apply: func(f *linear.IssueFilter) { f.DueDate = &cmp },
		}
	}
}
