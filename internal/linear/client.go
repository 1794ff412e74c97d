// Package linear is a minimal client for the Linear GraphQL API.
// It covers the read surface the query core needs: team listing,
// workflow-state pagination, filtered issue listing and issue lookup.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the public Linear GraphQL endpoint.
const DefaultEndpoint = "https://api.linear.app/graphql"

// StatesPageSize is the page size used for workflow-state pagination.
const StatesPageSize = 100

const defaultTimeout = 30 * time.Second

// Client errors.
var (
	ErrNoAPIKey = errors.New("no API key configured")
	ErrAPI      = errors.New("linear api error")
)

// Client talks to one Linear workspace, identified by its API key.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewClient creates a client for the given endpoint and API key.
// An empty endpoint falls back to DefaultEndpoint.
func NewClient(endpoint, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: defaultTimeout},
	}, nil
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do posts one GraphQL request and decodes the data envelope into out.
func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting query: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrAPI, resp.StatusCode)
	}

	var envelope gqlResponse

	decodeErr := json.Unmarshal(raw, &envelope)
	if decodeErr != nil {
		return fmt.Errorf("decoding response: %w", decodeErr)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}

		return fmt.Errorf("%w: %s", ErrAPI, strings.Join(messages, "; "))
	}

	if out != nil {
		unmarshalErr := json.Unmarshal(envelope.Data, out)
		if unmarshalErr != nil {
			return fmt.Errorf("decoding data: %w", unmarshalErr)
		}
	}

	return nil
}

const teamsQuery = `query Teams {
  teams(first: 250) {
    nodes { id key name }
  }
}`

// Teams lists the teams visible to the credential.
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	var data struct {
		Teams struct {
			Nodes []Team `json:"nodes"`
		} `json:"teams"`
	}

	err := c.do(ctx, teamsQuery, nil, &data)
	if err != nil {
		return nil, err
	}

	return data.Teams.Nodes, nil
}

const workflowStatesQuery = `query WorkflowStates($first: Int!, $after: String) {
  workflowStates(first: $first, after: $after) {
    nodes { id name type team { id key name } }
    pageInfo { hasNextPage endCursor }
  }
}`

// WorkflowStatesPage fetches one page of workflow states. An empty cursor
// requests the first page.
func (c *Client) WorkflowStatesPage(ctx context.Context, cursor string) (WorkflowStatePage, error) {
	vars := map[string]any{"first": StatesPageSize}
	if cursor != "" {
		vars["after"] = cursor
	}

	var data struct {
		WorkflowStates WorkflowStatePage `json:"workflowStates"`
	}

	err := c.do(ctx, workflowStatesQuery, vars, &data)
	if err != nil {
		return WorkflowStatePage{}, err
	}

	return data.WorkflowStates, nil
}

const issuesQuery = `query Issues($filter: IssueFilter, $first: Int) {
  issues(filter: $filter, first: $first) {
    nodes {
      id identifier title description url dueDate createdAt
      state { id name }
      assignee { id name email }
      team { id key name }
    }
  }
}`

// Issues lists issues matching filter, capped at limit. A nil filter lists
// unfiltered; limit <= 0 leaves the count to the API default.
func (c *Client) Issues(ctx context.Context, filter *IssueFilter, limit int) ([]Issue, error) {
	vars := map[string]any{}
	if filter != nil {
		vars["filter"] = filter
	}

	if limit > 0 {
		vars["first"] = limit
	}

	var data struct {
		Issues struct {
			Nodes []Issue `json:"nodes"`
		} `json:"issues"`
	}

	err := c.do(ctx, issuesQuery, vars, &data)
	if err != nil {
		return nil, err
	}

	return data.Issues.Nodes, nil
}

const issueQuery = `query Issue($id: String!) {
  issue(id: $id) {
    id identifier title description url dueDate createdAt
    state { id name }
    assignee { id name email }
    team { id key name }
  }
}`

// Issue fetches one issue by ID. Returns (nil, nil) when the issue
// does not exist.
func (c *Client) Issue(ctx context.Context, id string) (*Issue, error) {
	var data struct {
		Issue *Issue `json:"issue"`
	}

	err := c.do(ctx, issueQuery, map[string]any{"id": id}, &data)
	if err != nil {
		// Linear reports unknown IDs as an entity-not-found error
		// rather than a null issue.
		if errors.Is(err, ErrAPI) && strings.Contains(err.Error(), "not found") {
			return nil, nil
		}

		return nil, err
	}

	return data.Issue, nil
}
