package linear

import "time"

// Team is an organizational grouping that owns issues and workflow states.
type Team struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// WorkflowState is a named status value (e.g. "Backlog", "Done"),
// optionally scoped to one team. A state without a team is global.
type WorkflowState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // backlog, unstarted, started, completed, canceled
	Team *Team  `json:"team,omitempty"`
}

// User is a workspace member.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IssueState is the embedded state reference on an issue.
type IssueState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Issue is a Linear issue with the fields the query surface needs.
type Issue struct {
	ID          string     `json:"id"`
	Identifier  string     `json:"identifier"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	State       IssueState `json:"state"`
	Assignee    *User      `json:"assignee,omitempty"`
	Team        *Team      `json:"team,omitempty"`
	DueDate     *string    `json:"dueDate,omitempty"` // "2006-01-02" or RFC3339
	CreatedAt   string     `json:"createdAt"`
}

// Due date layouts accepted from the API.
var dueDateLayouts = []string{"2006-01-02", time.RFC3339}

// DueTime parses the issue's due date. ok is false when the issue has no
// due date or it cannot be parsed.
func (i *Issue) DueTime() (time.Time, bool) {
	if i.DueDate == nil || *i.DueDate == "" {
		return time.Time{}, false
	}

	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, *i.DueDate)
		if err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// PageInfo is the cursor envelope on paginated connections.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// WorkflowStatePage is one page of the workflowStates connection.
type WorkflowStatePage struct {
	Nodes    []WorkflowState `json:"nodes"`
	PageInfo PageInfo        `json:"pageInfo"`
}

// StringComparator matches a string field exactly.
type StringComparator struct {
	Eq string `json:"eq,omitempty"`
}

// IDFilter matches an entity by ID.
type IDFilter struct {
	ID *StringComparator `json:"id,omitempty"`
}

// EmailFilter matches a user by email.
type EmailFilter struct {
	Email *StringComparator `json:"email,omitempty"`
}

// DateComparator bounds a date field. Gte is inclusive, Lt exclusive.
type DateComparator struct {
	Gte string `json:"gte,omitempty"`
	Lt  string `json:"lt,omitempty"`
}

// IssueFilter marshals to Linear's nested IssueFilter input type.
// Absent dimensions contribute no clause.
type IssueFilter struct {
	Team     *IDFilter       `json:"team,omitempty"`
	State    *IDFilter       `json:"state,omitempty"`
	Assignee *EmailFilter    `json:"assignee,omitempty"`
	DueDate  *DateComparator `json:"dueDate,omitempty"`
}
