package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

// ReplCmd returns the repl command.
//
// The shell keeps one query service alive across queries, so the
// team-name index and the workflow-state cache amortize: the first
// resolved team or status pays for a listing fetch, later queries in
// the session reuse it until the 5-minute state TTL expires.
func ReplCmd(a *app) *Command {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "repl",
		Short: "Interactive query shell",
		Long: "Interactive query shell. Enter commands as on the command line\n" +
			"(issues, issue, teams, statuses); 'help' lists them, 'exit' quits.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execRepl(ctx, o, a)
		},
	}
}

func execRepl(ctx context.Context, o *IO, a *app) error {
	// Fail early so the shell is not entered without a credential.
	_, err := a.service()
	if err != nil {
		return err
	}

	read, closeInput := lineReader(a.in, a.in == os.Stdin && liner.TerminalSupported())
	defer closeInput()

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, readErr := read("lnq> ")
		if readErr != nil {
			if errors.Is(readErr, io.EOF) || errors.Is(readErr, liner.ErrPromptAborted) {
				return nil
			}

			return readErr
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch input {
		case "exit", "quit", "q":
			return nil
		case "help":
			printReplHelp(o)

			continue
		}

		runReplLine(ctx, o, a, strings.Fields(input))
	}
}

// runReplLine dispatches one shell line as a command invocation.
// Errors are reported and the shell continues.
func runReplLine(ctx context.Context, o *IO, a *app, words []string) {
	cmd := a.command(words[0])
	if cmd == nil || words[0] == "repl" {
		o.ErrPrintln("error: unknown command:", words[0])

		return
	}

	// Each line gets a fresh IO so warnings reset between queries.
	lineIO := NewIO(o.out, o.errOut)
	_ = cmd.Run(ctx, lineIO, words[1:])
}

// lineReader prefers a liner terminal prompt and falls back to plain
// buffered reads when stdin is not a terminal (tests, pipes).
func lineReader(in io.Reader, useTerminal bool) (func(prompt string) (string, error), func()) {
	if useTerminal {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)

		read := func(prompt string) (string, error) {
			input, err := state.Prompt(prompt)
			if err == nil {
				state.AppendHistory(input)
			}

			return input, err
		}

		return read, func() { _ = state.Close() }
	}

	reader := bufio.NewReader(in)

	read := func(string) (string, error) {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line != "" {
				return line, nil
			}

			return "", err
		}

		return strings.TrimRight(line, "\n"), nil
	}

	return read, func() {}
}

func printReplHelp(o *IO) {
	o.Println(`Commands:
  issues [flags]    Query issues (--team --status --assignee --due-after --due-before --sort --limit)
  issue <id>...     Show issues by ID
  teams             List teams
  statuses [flags]  List workflow states
  help              Show this help
  exit              Leave the shell`)
}
