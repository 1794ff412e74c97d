package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shivros/lnq/internal/cli"
)

// fakeLinear is a canned GraphQL backend for CLI tests. It dispatches
// on the operation name in the query text.
type fakeLinear struct {
	teamsJSON  string
	statesJSON string
	issuesJSON string
	issueJSON  func(id string) string
}

func defaultFakeLinear() *fakeLinear {
	return &fakeLinear{
		teamsJSON: `{"data":{"teams":{"nodes":[
			{"id":"T1","key":"ENG","name":"Engineering"},
			{"id":"T2","key":"DES","name":"Design"}
		]}}}`,
		statesJSON: `{"data":{"workflowStates":{
			"nodes":[
				{"id":"S1","name":"Done","type":"completed","team":{"id":"T1","key":"ENG","name":"Engineering"}},
				{"id":"S2","name":"Triage","type":"triage"}
			],
			"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`,
		issuesJSON: `{"data":{"issues":{"nodes":[
			{"id":"I1","identifier":"ENG-1","title":"Fix login","description":"Broken on mobile",
			 "state":{"id":"S1","name":"Done"},"dueDate":"2026-03-10","createdAt":"2026-01-01T00:00:00.000Z"},
			{"id":"I2","identifier":"ENG-2","title":"Ship exports",
			 "state":{"id":"S2","name":"Triage"},"createdAt":"2026-01-02T00:00:00.000Z"}
		]}}}`,
		issueJSON: func(id string) string {
			if id == "I1" {
				return `{"data":{"issue":{"id":"I1","identifier":"ENG-1","title":"Fix login",
					"state":{"id":"S1","name":"Done"},"createdAt":"2026-01-01T00:00:00.000Z"}}}`
			}

			return `{"errors":[{"message":"Entity not found: Issue"}]}`
		},
	}
}

func (f *fakeLinear) serve(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}

		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			t.Errorf("bad request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.Contains(req.Query, "query Teams"):
			_, _ = w.Write([]byte(f.teamsJSON))
		case strings.Contains(req.Query, "query WorkflowStates"):
			_, _ = w.Write([]byte(f.statesJSON))
		case strings.Contains(req.Query, "query Issues"):
			_, _ = w.Write([]byte(f.issuesJSON))
		case strings.Contains(req.Query, "query Issue"):
			id, _ := req.Variables["id"].(string)
			_, _ = w.Write([]byte(f.issueJSON(id)))
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
	}))

	t.Cleanup(server.Close)

	return server
}

// setupWorkspace writes a project config pointing at the fake backend
// and returns the working directory.
func setupWorkspace(t *testing.T, endpoint string) string {
	t.Helper()

	workDir := t.TempDir()

	content := fmt.Sprintf(`{
		// test workspace
		"api_key": "lin_api_test",
		"endpoint": %q,
	}`, endpoint)

	err := os.WriteFile(filepath.Join(workDir, ".lnq.json"), []byte(content), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	return workDir
}

// runCLI invokes cli.Run with captured output.
func runCLI(t *testing.T, workDir string, stdin string, args ...string) (int, string, string) {
	t.Helper()

	var out, errOut bytes.Buffer

	argv := append([]string{"lnq", "-C", workDir}, args...)
	env := map[string]string{}

	code := cli.Run(strings.NewReader(stdin), &out, &errOut, argv, env, nil)

	return code, out.String(), errOut.String()
}
