// Package config loads cfgcrunch configuration from TOML files.
//
// A config file looks like this; every key is optional:
//
//	workers = 4
//
//	[input]
//	dir = "grammars"
//	extension = ".txt"
//
//	[output]
//	width = 80
//	explain = true
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the name of the config file that is loaded from the working
// directory when no other file is given.
const DefaultFile = "cfgcrunch.toml"

const (
	DefaultDir       = "."
	DefaultExtension = ".txt"
	DefaultWidth     = 80
	DefaultWorkers   = 1

	// DefaultMaxExpansion is the most productions that removing epsilon
	// productions from one grammar may create.
	DefaultMaxExpansion = 1 << 20

	// MinWidth is the narrowest output width that tables and messages can
	// be wrapped to.
	MinWidth = 20
)

// Input holds settings for finding grammar files.
type Input struct {
	// Dir is the directory that grammar files are read from.
	Dir string `toml:"dir"`

	// Extension is the suffix a file name must have for it to be read as a
	// grammar file.
	Extension string `toml:"extension"`
}

// Output holds settings for how results are written.
type Output struct {
	// Width is the column that console messages and tables are wrapped at.
	Width int `toml:"width"`

	// Explain gives whether a table of the symbol sets found during
	// simplification is shown before each grammar.
	Explain bool `toml:"explain"`
}

// Config is a complete cfgcrunch configuration.
type Config struct {
	Input  Input  `toml:"input"`
	Output Output `toml:"output"`

	// Workers is the number of grammars that are simplified at once. Output
	// order does not depend on it.
	Workers int `toml:"workers"`

	// MaxExpansion is the most productions that removing epsilon productions
	// from a single grammar may create. A grammar over the limit fails
	// without affecting the others.
	MaxExpansion int `toml:"max_expansion"`
}

// Load reads the config in the TOML file at path. Keys that are not
// recognized cause an error, so typos are not silently ignored.
func Load(path string) (Config, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	cfg, err := Unmarshal(data)
	if err != nil {
		return Config{}, fmt.Errorf("%q: %w", path, err)
	}

	return cfg, nil
}

// LoadDefault reads the config in DefaultFile in the current directory. If
// the file does not exist, the zero Config is returned with no error.
func LoadDefault() (Config, error) {
	cfg, err := Load(DefaultFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return cfg, nil
}

// Unmarshal decodes a Config from TOML data. It does not fill in defaults or
// validate values.
func Unmarshal(data []byte) (Config, error) {
	var cfg Config

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i := range undecoded {
			keys[i] = undecoded[i].String()
		}
		return Config{}, fmt.Errorf("unknown key(s): %s", strings.Join(keys, ", "))
	}

	return cfg, nil
}

// FillDefaults returns a new Config identical to cfg but with unset values set
// to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.Input.Dir == "" {
		newCFG.Input.Dir = DefaultDir
	}
	if newCFG.Input.Extension == "" {
		newCFG.Input.Extension = DefaultExtension
	}
	if newCFG.Output.Width == 0 {
		newCFG.Output.Width = DefaultWidth
	}
	if newCFG.Workers == 0 {
		newCFG.Workers = DefaultWorkers
	}
	if newCFG.MaxExpansion == 0 {
		newCFG.MaxExpansion = DefaultMaxExpansion
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if cfg.Input.Dir == "" {
		return fmt.Errorf("input.dir: must not be empty")
	}
	if cfg.Input.Extension == "" {
		return fmt.Errorf("input.extension: must not be empty")
	}
	if cfg.Output.Width < MinWidth {
		return fmt.Errorf("output.width: must be at least %d but is %d", MinWidth, cfg.Output.Width)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers: must be at least 1 but is %d", cfg.Workers)
	}
	if cfg.MaxExpansion < 1 {
		return fmt.Errorf("max_expansion: must be at least 1 but is %d", cfg.MaxExpansion)
	}

	return nil
}
