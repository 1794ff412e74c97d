package query

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/shivros/lnq/internal/linear"
)

// teamIndex maps lowercased team names to team IDs. It grows
// monotonically for the lifetime of the owning Service and is never
// evicted or persisted.
type teamIndex struct {
	mu    sync.RWMutex
	ids   map[string]string
	group singleflight.Group
	api   API
}

func newTeamIndex(api API) *teamIndex {
	return &teamIndex{
		ids: make(map[string]string),
		api: api,
	}
}

func teamKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// resolve maps a team name to its ID, case-insensitively. A miss triggers
// one full team listing; every returned team is indexed so a single miss
// amortizes future lookups for any team. found is false when no team with
// that name exists after the fetch; err is set only on fetch failure.
func (x *teamIndex) resolve(ctx context.Context, name string) (string, bool, error) {
	key := teamKey(name)

	x.mu.RLock()
	id, ok := x.ids[key]
	x.mu.RUnlock()

	if ok {
		return id, true, nil
	}

	// Coalesce concurrent misses into one listing fetch.
	_, err, _ := x.group.Do("teams", func() (any, error) {
		teams, fetchErr := x.api.Teams(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}

		x.add(teams)

		return nil, nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrTeamFetch, err)
	}

	x.mu.RLock()
	id, ok = x.ids[key]
	x.mu.RUnlock()

	return id, ok, nil
}

// add indexes every team in the listing.
func (x *teamIndex) add(teams []linear.Team) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, team := range teams {
		x.ids[teamKey(team.Name)] = team.ID
	}
}
