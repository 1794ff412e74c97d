// Package cli implements the lnq command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shivros/lnq/internal/config"
	"github.com/shivros/lnq/internal/linear"
	"github.com/shivros/lnq/internal/query"
)

const (
	consumedOne = 1
	consumedTwo = 2
	helpFlag    = "--help"
)

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sig <-chan os.Signal) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sig != nil {
		go func() {
			select {
			case <-sig:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	if len(args) < 2 {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: flags.workDir,
		ConfigPath:      flags.configPath,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	name := flags.remaining[0]
	if name == "-h" || name == helpFlag {
		printUsage(out)

		return 0
	}

	app := &app{cfg: cfg, env: env, in: in}

	cmd := app.command(name)
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", name)
		printUsage(errOut)

		return 1
	}

	o := NewIO(out, errOut)

	return cmd.Run(ctx, o, flags.remaining[1:])
}

// app carries the resolved config and lazily-built query service shared
// by the commands of one invocation.
type app struct {
	cfg config.Config
	env map[string]string
	in  io.Reader

	svc *query.Service
}

func (a *app) command(name string) *Command {
	switch name {
	case "issues":
		return IssuesCmd(a)
	case "issue":
		return IssueCmd(a)
	case "teams":
		return TeamsCmd(a)
	case "statuses":
		return StatusesCmd(a)
	case "auth":
		return AuthCmd(a)
	case "repl":
		return ReplCmd(a)
	case "print-config":
		return PrintConfigCmd(a)
	}

	return nil
}

// service builds the query service on first use. Commands that do not
// talk to the API (auth, print-config) never pay for it.
func (a *app) service() (*query.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	if a.cfg.APIKey == "" {
		return nil, config.ErrNoAPIKey
	}

	client, err := linear.NewClient(a.cfg.Endpoint, a.cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("creating linear client: %w", err)
	}

	a.svc = query.NewService(client)

	return a.svc, nil
}

type globalFlags struct {
	workDir    string
	configPath string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if (arg == "-C" || arg == "--cwd") && idx+1 < len(args) {
		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return 0, fmt.Errorf("flag requires an argument: %s", arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return 0, fmt.Errorf("unknown flag: %s", arg)
	}

	// Not a flag
	return 0, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer) {
	fprintln(w, `lnq - query Linear issues from the command line

Usage: lnq [options] <command> [args]

Options:
  -C, --cwd <dir>    Run as if started in <dir>
  -c, --config       Use specified config file

Commands:
  issues [flags]         Query issues by team/status/assignee/due date
  issue <id>...          Show issues by ID
  teams                  List teams
  statuses [flags]       List workflow states
  auth [flags]           Store the Linear API key
  repl                   Interactive query shell
  print-config           Show resolved configuration`)
}
