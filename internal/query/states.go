package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shivros/lnq/internal/linear"
)

// stateTTL is how long a fetched workflow-state set stays fresh.
const stateTTL = 5 * time.Minute

// stateCache holds the full workflow-state set of the workspace.
// Reads within the TTL return the cached sequence with no I/O; an empty
// or stale cache triggers a full cursor-paginated re-fetch whose result
// replaces the previous entry wholesale. A failed refresh leaves the
// previous entry untouched and surfaces the error: callers never get
// silently stale data.
type stateCache struct {
	mu        sync.RWMutex
	states    []linear.WorkflowState
	fetchedAt time.Time

	group singleflight.Group
	api   API
	now   func() time.Time
}

func newStateCache(api API) *stateCache {
	return &stateCache{
		api: api,
		now: time.Now,
	}
}

// getAll returns the workflow-state set in fetch order. Concurrent
// callers hitting an empty or stale cache share one in-flight fetch.
func (c *stateCache) getAll(ctx context.Context) ([]linear.WorkflowState, error) {
	c.mu.RLock()
	cached, ok := c.states, c.fresh()
	c.mu.RUnlock()

	if ok {
		return cached, nil
	}

	result, err, _ := c.group.Do("states", func() (any, error) {
		// A waiter queued behind a fetch that just completed sees a
		// fresh cache here and skips the duplicate round trip.
		c.mu.RLock()
		cached, ok := c.states, c.fresh()
		c.mu.RUnlock()

		if ok {
			return cached, nil
		}

		fetched, fetchErr := c.fetchAll(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}

		c.mu.Lock()
		c.states = fetched
		c.fetchedAt = c.now()
		c.mu.Unlock()

		return fetched, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStateFetch, err)
	}

	return result.([]linear.WorkflowState), nil
}

// fresh reports whether the cached entry is within the TTL.
// Callers hold at least a read lock.
func (c *stateCache) fresh() bool {
	return !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < stateTTL
}

// fetchAll walks the workflowStates connection, threading the end cursor
// until the API reports no next page, and concatenates pages in response
// order.
func (c *stateCache) fetchAll(ctx context.Context) ([]linear.WorkflowState, error) {
	var all []linear.WorkflowState

	cursor := ""

	for {
		page, err := c.api.WorkflowStatesPage(ctx, cursor)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Nodes...)

		if !page.PageInfo.HasNextPage {
			return all, nil
		}

		cursor = page.PageInfo.EndCursor
	}
}
