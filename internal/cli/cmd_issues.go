package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/shivros/lnq/internal/query"
)

const defaultLimit = 50

var errBadSort = errors.New("--sort must be dateascending or datedescending")

// IssuesCmd returns the issues command.
func IssuesCmd(a *app) *Command {
	fs := flag.NewFlagSet("issues", flag.ContinueOnError)
	fs.String("team", "", "Filter by team name")
	fs.String("status", "", "Filter by status name")
	fs.String("assignee", "", "Filter by assignee email")
	fs.String("due-after", "", "Due on or after this day (today|tomorrow|yesterday|YYYY-MM-DD)")
	fs.String("due-before", "", "Due before the start of this day")
	fs.String("sort", "", "Sort by due date (dateascending|datedescending)")
	fs.Int("limit", defaultLimit, "Maximum issues to fetch")
	fs.Bool("hide-description", false, "Omit issue descriptions")

	return &Command{
		Flags: fs,
		Usage: "issues [flags]",
		Short: "Query issues by team/status/assignee/due date",
		Long: "Query issues. Team and status names are resolved case-insensitively;\n" +
			"status names also ignore punctuation (\"In Progress\" == \"in-progress\").\n" +
			"Issues without a due date always sort last.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execIssues(ctx, o, a, fs)
		},
	}
}

func execIssues(ctx context.Context, o *IO, a *app, fs *flag.FlagSet) error {
	limit, _ := fs.GetInt("limit")
	if limit < 0 {
		return errors.New("--limit must be non-negative")
	}

	sortValue, _ := fs.GetString("sort")

	dir, ok := query.ParseDirection(sortValue)
	if !ok {
		return fmt.Errorf("%w: %s", errBadSort, sortValue)
	}

	team, _ := fs.GetString("team")
	if team == "" {
		team = a.cfg.Team // configured default team, if any
	}

	status, _ := fs.GetString("status")
	assignee, _ := fs.GetString("assignee")
	dueAfter, _ := fs.GetString("due-after")
	dueBefore, _ := fs.GetString("due-before")
	hideDescription, _ := fs.GetBool("hide-description")

	svc, err := a.service()
	if err != nil {
		return err
	}

	result := svc.Run(ctx, query.Options{
		Limit:           limit,
		Team:            team,
		Status:          status,
		Assignee:        assignee,
		DueAfter:        dueAfter,
		DueBefore:       dueBefore,
		Sort:            dir,
		HideDescription: hideDescription,
	})

	if result.Diagnostic != "" {
		o.Warn("%s", result.Diagnostic)
	}

	for _, issue := range result.Issues {
		o.Println(formatIssueLine(&issue, hideDescription))
	}

	return nil
}
