// Package config handles the loxvm.toml configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "loxvm.toml"

type Config struct {
	// Verbosity is a logrus level name.
	Verbosity string `toml:"verbosity"`
	// StrictStack makes popping an empty stack a runtime error.
	StrictStack bool   `toml:"strict-stack"`
	Prompt      string `toml:"prompt"`
}

func Default() *Config {
	return &Config{Verbosity: "INFO", Prompt: ">> "}
}

// Load parses the file at path over the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	var errs *multierror.Error
	for _, key := range meta.Undecoded() {
		errs = multierror.Append(errs, fmt.Errorf("unknown key %q", key.String()))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// FindAndLoad loads FileName from dir, falling back to the defaults when it doesn't exist.
func FindAndLoad(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}
