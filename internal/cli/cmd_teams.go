package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"
)

// TeamsCmd returns the teams command.
func TeamsCmd(a *app) *Command {
	fs := flag.NewFlagSet("teams", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "teams",
		Short: "List teams",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			teams, err := svc.Teams(ctx)
			if err != nil {
				return fmt.Errorf("list teams: %w", err)
			}

			for _, team := range teams {
				o.Printf("%s\t%s\t%s\n", team.Key, team.Name, team.ID)
			}

			return nil
		},
	}
}
