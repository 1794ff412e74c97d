// Package config loads and persists lnq configuration. Config files are
// JSONC (comments and trailing commas allowed); precedence is defaults,
// then the global user config, then the project config or an explicit
// file, then environment, then CLI overrides.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Config errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrEndpointEmpty      = errors.New("endpoint cannot be empty")
	ErrNoAPIKey           = errors.New("no API key configured (run: lnq auth)")
)

// ConfigFileName is the project-level config file name.
const ConfigFileName = ".lnq.json"

// EnvAPIKey overrides the configured API key when set.
const EnvAPIKey = "LINEAR_API_KEY"

// DefaultEndpoint mirrors the Linear client default so print-config
// shows the effective value.
const DefaultEndpoint = "https://api.linear.app/graphql"

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	APIKey   string `json:"api_key,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
	Team     string `json:"team,omitempty"` // default team filter for queries

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`

	// EffectiveCwd is the absolute working directory.
	EffectiveCwd string `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // path to global config if loaded
	Project string // path to project config if loaded
	EnvKey  bool   // API key came from the environment
}

// Default returns the default configuration.
func Default() Config {
	return Config{Endpoint: DefaultEndpoint}
}

// GlobalPath returns the global config file path:
// $XDG_CONFIG_HOME/lnq/config.json, else ~/.config/lnq/config.json.
// Empty when no home directory can be determined.
func GlobalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "lnq", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "lnq", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; empty means os.Getwd()
	ConfigPath      string            // -c/--config flag value
	Env             map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// defaults, global user config, project config (.lnq.json) or explicit
// file via ConfigPath, then LINEAR_API_KEY from the environment.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	globalPath := GlobalPath(input.Env)
	if globalPath != "" {
		globalCfg, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = globalPath
			cfg = merge(cfg, globalCfg)
		}
	}

	projectCfg, projectPath, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	if projectPath != "" {
		cfg.Sources.Project = projectPath
		cfg = merge(cfg, projectCfg)
	}

	if key := input.Env[EnvAPIKey]; key != "" {
		cfg.APIKey = key
		cfg.Sources.EnvKey = true
	}

	if cfg.Endpoint == "" {
		return Config{}, ErrEndpointEmpty
	}

	cfg.EffectiveCwd = workDir

	return cfg, nil
}

// loadProject loads .lnq.json from the working directory, or an explicit
// config file which must exist.
func loadProject(workDir, configPath string) (Config, string, error) {
	if configPath != "" {
		path := configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		_, statErr := os.Stat(path)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}

		cfg, _, err := loadFile(path, true)
		if err != nil {
			return Config{}, "", err
		}

		return cfg, path, nil
	}

	path := filepath.Join(workDir, ConfigFileName)

	cfg, loaded, err := loadFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, path, nil
}

// loadFile loads one config file. When mustExist is false a missing file
// yields a zero config without error.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	}

	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: invalid JSONC: %w", ErrConfigInvalid, path, err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, unmarshalErr)
	}

	return cfg, true, nil
}

func merge(base, overlay Config) Config {
	if overlay.APIKey != "" {
		base.APIKey = overlay.APIKey
	}

	if overlay.Endpoint != "" {
		base.Endpoint = overlay.Endpoint
	}

	if overlay.Team != "" {
		base.Team = overlay.Team
	}

	return base
}

// Save writes cfg to path atomically, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	data = append(data, '\n')

	mkdirErr := os.MkdirAll(filepath.Dir(path), 0o700)
	if mkdirErr != nil {
		return fmt.Errorf("creating config dir: %w", mkdirErr)
	}

	writeErr := atomic.WriteFile(path, bytes.NewReader(data))
	if writeErr != nil {
		return fmt.Errorf("writing config: %w", writeErr)
	}

	return nil
}

// Format renders cfg as indented JSON with the API key redacted.
func Format(cfg Config) (string, error) {
	redacted := cfg
	if redacted.APIKey != "" {
		redacted.APIKey = "********"
	}

	data, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}
