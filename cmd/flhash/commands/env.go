package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/burgrp-go/flhash/pkg/inifile"
	"github.com/burgrp-go/flhash/pkg/registry"
	"github.com/burgrp-go/flhash/pkg/scan"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

const (
	defaultConfigFile = "flhash.toml"
	envConfig         = "FLHASH_CONFIG"
	envDirectory      = "FLHASH_DIR"
)

// Environment is the resolved configuration: defaults, then the TOML file,
// then environment variables, then flags.
type Environment struct {
	Directory   string   `toml:"directory"`
	Extensions  []string `toml:"extensions"`
	Exclude     []string `toml:"exclude"`
	FactionFile string   `toml:"faction_file"`
	FactionGlob string   `toml:"faction_glob"`
	Encoding    string   `toml:"encoding"`
	SkipInvalid bool     `toml:"skip_invalid"`
	DebounceMs  int      `toml:"debounce_ms"`
}

func GetEnvironment(cmd *cobra.Command) (*Environment, error) {

	env := &Environment{
		FactionFile: registry.FactionFile,
	}

	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if configFile == "" {
		configFile = os.Getenv(envConfig)
	}
	required := configFile != ""
	if configFile == "" {
		configFile = defaultConfigFile
	}

	if err := env.load(configFile, required); err != nil {
		return nil, err
	}

	if dir := os.Getenv(envDirectory); dir != "" {
		env.Directory = dir
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		if env.Directory, err = flags.GetString("dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("encoding") {
		if env.Encoding, err = flags.GetString("encoding"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("skip-invalid") {
		if env.SkipInvalid, err = flags.GetBool("skip-invalid"); err != nil {
			return nil, err
		}
	}

	return env, nil
}

func (env *Environment) load(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(env); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// NewRegistry creates an empty registry configured from the environment.
func (env *Environment) NewRegistry() (*registry.Registry, error) {
	opts := registry.Options{
		Scan: scan.Options{
			Extensions: env.Extensions,
			Exclude:    env.Exclude,
		},
		Parse:       inifile.Options{Encoding: env.Encoding},
		SkipInvalid: env.SkipInvalid,
	}

	switch {
	case env.FactionGlob != "":
		match, err := registry.GlobMatcher(env.FactionGlob)
		if err != nil {
			return nil, err
		}
		opts.IsFactionFile = match
	case env.FactionFile != "":
		opts.IsFactionFile = registry.BasenameMatcher(env.FactionFile)
	}

	return registry.New(opts)
}

// BuildRegistry creates a registry and builds it from the data directory.
func (env *Environment) BuildRegistry() (*registry.Registry, error) {
	if env.Directory == "" {
		return nil, fmt.Errorf("data directory is required: use --dir, the %s environment variable or 'directory' in %s", envDirectory, defaultConfigFile)
	}

	reg, err := env.NewRegistry()
	if err != nil {
		return nil, err
	}

	if err := reg.Build(env.Directory); err != nil {
		return nil, err
	}
	return reg, nil
}
