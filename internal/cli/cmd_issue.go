package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

var errIDRequired = errors.New("issue ID is required")

// IssueCmd returns the issue command.
func IssueCmd(a *app) *Command {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	fs.Bool("hide-description", false, "Omit issue descriptions")

	return &Command{
		Flags: fs,
		Usage: "issue <id>...",
		Short: "Show issues by ID",
		Long: "Fetch one or more issues by ID. Output preserves the order of the\n" +
			"given IDs; unknown IDs are reported as warnings.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execIssue(ctx, o, a, fs, args)
		},
	}
}

func execIssue(ctx context.Context, o *IO, a *app, fs *flag.FlagSet, ids []string) error {
	if len(ids) == 0 {
		return errIDRequired
	}

	hideDescription, _ := fs.GetBool("hide-description")

	svc, err := a.service()
	if err != nil {
		return err
	}

	lookups, err := svc.IssuesByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("fetch issues: %w", err)
	}

	for _, lookup := range lookups {
		if lookup.Issue == nil {
			o.Warn("issue %s not found", lookup.ID)

			continue
		}

		o.Println(formatIssueLine(lookup.Issue, hideDescription))
	}

	return nil
}
