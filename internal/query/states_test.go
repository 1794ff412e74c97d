package query_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivros/lnq/internal/linear"
	"github.com/shivros/lnq/internal/query"
)

// fakeClock is an adjustable clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newClockedService(api *fakeAPI) (*query.Service, *fakeClock) {
	svc := query.NewService(api)
	clock := &fakeClock{now: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
	query.SetClock(svc, clock.Now)

	return svc, clock
}

func TestStateCacheFreshWithinTTL(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{statePages: onePage(
		linear.WorkflowState{ID: "S1", Name: "Backlog"},
	)}
	svc, clock := newClockedService(api)
	ctx := context.Background()

	first, err := svc.States(ctx, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	clock.Advance(query.TestStateTTL - time.Second)

	second, err := svc.States(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.stateFetches, "read within TTL must not fetch")
}

func TestStateCacheExpiryReplacesWholesale(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{statePages: onePage(
		linear.WorkflowState{ID: "S1", Name: "Backlog"},
		linear.WorkflowState{ID: "S2", Name: "Done"},
	)}
	svc, clock := newClockedService(api)
	ctx := context.Background()

	_, err := svc.States(ctx, "")
	require.NoError(t, err)

	// Remote set changes; after expiry the cache holds exactly the new
	// sequence, with no merged leftovers.
	api.mu.Lock()
	api.statePages = onePage(linear.WorkflowState{ID: "S3", Name: "Canceled"})
	api.mu.Unlock()

	clock.Advance(query.TestStateTTL + time.Second)

	states, err := svc.States(ctx, "")
	require.NoError(t, err)

	want := []linear.WorkflowState{{ID: "S3", Name: "Canceled"}}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Fatalf("cache not replaced wholesale (-want +got):\n%s", diff)
	}

	assert.Equal(t, 2, api.stateFetches)
}

func TestStateCachePaginationConcatenatesInOrder(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{statePages: []linear.WorkflowStatePage{
		{
			Nodes:    []linear.WorkflowState{{ID: "S1"}, {ID: "S2"}},
			PageInfo: linear.PageInfo{HasNextPage: true, EndCursor: "c1"},
		},
		{
			Nodes:    []linear.WorkflowState{{ID: "S3"}},
			PageInfo: linear.PageInfo{HasNextPage: true, EndCursor: "c2"},
		},
		{
			Nodes: []linear.WorkflowState{{ID: "S4"}, {ID: "S5"}},
		},
	}}
	svc, _ := newClockedService(api)

	states, err := svc.States(context.Background(), "")
	require.NoError(t, err)

	got := make([]string, 0, len(states))
	for _, s := range states {
		got = append(got, s.ID)
	}

	assert.Equal(t, []string{"S1", "S2", "S3", "S4", "S5"}, got)
	assert.Equal(t, 3, api.pageCalls)
}

func TestStateCacheFailedRefreshKeepsOldEntryAndErrors(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{statePages: onePage(linear.WorkflowState{ID: "S1", Name: "Backlog"})}
	svc, clock := newClockedService(api)
	ctx := context.Background()

	_, err := svc.States(ctx, "")
	require.NoError(t, err)

	api.mu.Lock()
	api.statesErr = errBoom
	api.mu.Unlock()

	clock.Advance(query.TestStateTTL + time.Second)

	// No stale-while-revalidate: the caller gets the error, not the
	// old data.
	_, err = svc.States(ctx, "")
	require.ErrorIs(t, err, query.ErrStateFetch)

	// The previous entry survived the failed refresh.
	cached := query.CachedStates(svc)
	require.Len(t, cached, 1)
	assert.Equal(t, "S1", cached[0].ID)

	// Once the remote recovers, the next read fetches again.
	api.mu.Lock()
	api.statesErr = nil
	api.statePages = onePage(linear.WorkflowState{ID: "S9", Name: "Done"})
	api.mu.Unlock()

	states, err := svc.States(ctx, "")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "S9", states[0].ID)
}

func TestStateCacheCoalescesConcurrentFills(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		statePages: onePage(linear.WorkflowState{ID: "S1"}),
		stateGate:  make(chan struct{}),
	}
	svc, _ := newClockedService(api)
	ctx := context.Background()

	const callers = 8

	var wg sync.WaitGroup

	results := make([][]linear.WorkflowState, callers)
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], errs[i] = svc.States(ctx, "")
		}()
	}

	// Let the in-flight fetch proceed once every caller is queued
	// behind it, then require a single first-page request.
	time.Sleep(50 * time.Millisecond)
	close(api.stateGate)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		require.Len(t, results[i], 1)
	}

	assert.Equal(t, 1, api.stateFetches, "concurrent fills must share one fetch")
}
