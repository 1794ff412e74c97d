package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"
)

// StatusesCmd returns the statuses command.
func StatusesCmd(a *app) *Command {
	fs := flag.NewFlagSet("statuses", flag.ContinueOnError)
	fs.String("team", "", "Only states visible to this team (its own plus global)")

	return &Command{
		Flags: fs,
		Usage: "statuses [flags]",
		Short: "List workflow states",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execStatuses(ctx, o, a, fs)
		},
	}
}

func execStatuses(ctx context.Context, o *IO, a *app, fs *flag.FlagSet) error {
	svc, err := a.service()
	if err != nil {
		return err
	}

	teamName, _ := fs.GetString("team")

	teamID := ""

	if teamName != "" {
		id, found, resolveErr := svc.ResolveTeam(ctx, teamName)
		if resolveErr != nil {
			return resolveErr
		}

		if !found {
			return fmt.Errorf("team %q not found", teamName)
		}

		teamID = id
	}

	states, err := svc.States(ctx, teamID)
	if err != nil {
		return err
	}

	for _, state := range states {
		scope := "(global)"
		if state.Team != nil {
			scope = state.Team.Name
		}

		o.Printf("%s\t%s\t%s\n", state.Name, state.Type, scope)
	}

	return nil
}
