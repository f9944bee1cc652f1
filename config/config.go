// Package config handles hax.toml settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/isa"
)

// FileName is the settings file looked up by FindAndLoad.
const FileName = "hax.toml"

// Config represents a hax.toml file.
type Config struct {
	Assemble Assemble `toml:"assemble"`
	Output   Output   `toml:"output"`
	Log      Log      `toml:"log"`

	// Dir is the directory containing the hax.toml file (set at load time).
	Dir string `toml:"-"`
}

// Assemble configures the assembler input.
type Assemble struct {
	// Format is the bytecode format, "3.6" through "3.10".
	Format string `toml:"format"`
	// Filename overrides the file name recorded in code objects.
	Filename string `toml:"filename"`
}

// Output configures what the CLI writes.
type Output struct {
	Path        string `toml:"path"`
	Disassemble bool   `toml:"disassemble"`
	Simulate    bool   `toml:"simulate"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default returns the settings used when no hax.toml exists.
func Default() *Config {
	return &Config{
		Assemble: Assemble{Format: isa.DefaultFormat.String()},
		Log:      Log{Level: "warn"},
	}
}

// Load parses the hax.toml at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "cannot read "+path)
	}

	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse error in "+path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			At(path, 0).
			Detail("unknown keys: %s", strings.Join(keys, ", ")).
			Build()
	}

	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "cannot resolve path "+path)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a hax.toml file, then loads
// it. It returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, startDir)
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks the format and log level spellings.
func (c *Config) Validate() error {
	if _, err := c.Assemble.BytecodeFormat(); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "assemble.format")
	}
	if _, err := c.Log.ZapLevel(); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}
	return nil
}

// BytecodeFormat parses Format.
func (a Assemble) BytecodeFormat() (isa.Format, error) {
	return isa.ParseFormat(a.Format)
}

// ZapLevel parses Level. An empty level means warn.
func (l Log) ZapLevel() (zapcore.Level, error) {
	if l.Level == "" {
		return zapcore.WarnLevel, nil
	}
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return 0, fmt.Errorf("unknown log level %q", l.Level)
	}
	return lvl, nil
}

// OutputPath returns Output.Path resolved against Dir.
func (c *Config) OutputPath() string {
	if c.Output.Path == "" || filepath.IsAbs(c.Output.Path) || c.Dir == "" {
		return c.Output.Path
	}
	return filepath.Join(c.Dir, c.Output.Path)
}
