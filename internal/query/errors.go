package query

import "errors"

// Resolution and query errors. Not-found conditions are distinct from
// fetch failures at every call site: resolvers return an explicit found
// flag, these errors only signal that a remote call failed.
var (
	ErrTeamFetch  = errors.New("failed to fetch teams")
	ErrStateFetch = errors.New("failed to fetch workflow states")
	ErrIssueFetch = errors.New("failed to fetch issues")
)
