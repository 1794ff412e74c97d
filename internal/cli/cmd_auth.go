package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/shivros/lnq/internal/config"
)

var (
	errEmptyKey      = errors.New("API key cannot be empty")
	errNoConfigHome  = errors.New("cannot determine config directory (set HOME or XDG_CONFIG_HOME)")
	errNoInteractive = errors.New("no terminal available, pass the key with --key")
)

// AuthCmd returns the auth command.
func AuthCmd(a *app) *Command {
	fs := flag.NewFlagSet("auth", flag.ContinueOnError)
	fs.String("key", "", "Linear API key (prompted interactively when omitted)")

	return &Command{
		Flags: fs,
		Usage: "auth [flags]",
		Short: "Store the Linear API key",
		Long: "Store the Linear API key in the global config file\n" +
			"(~/.config/lnq/config.json). The file is written atomically.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execAuth(o, a, fs)
		},
	}
}

func execAuth(o *IO, a *app, fs *flag.FlagSet) error {
	path := config.GlobalPath(a.env)
	if path == "" {
		return errNoConfigHome
	}

	key, _ := fs.GetString("key")
	if key == "" {
		var err error

		key, err = promptKey()
		if err != nil {
			return err
		}
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errEmptyKey
	}

	cfg := a.cfg
	cfg.APIKey = key

	err := config.Save(path, cfg)
	if err != nil {
		return err
	}

	o.Println("API key saved to", path)

	return nil
}

// promptKey reads the API key from the terminal without echoing it.
func promptKey() (string, error) {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	key, err := line.PasswordPrompt("Linear API key: ")
	if err != nil {
		if errors.Is(err, liner.ErrNotTerminalOutput) {
			return "", errNoInteractive
		}

		return "", err
	}

	return key, nil
}
