// Package config provides codereward configuration with a defined load order:
// flags > environment variables > config file > defaults.
//
// The config file is .codereward.toml in the working directory unless a path
// is given explicitly. Environment variables:
//   - CODEREWARD_RUBRIC (builtin rubric name or path to a .yaml rubric)
//   - CODEREWARD_FORMAT (json or md)
//   - CODEREWARD_INPUT_ENV (variable holding the training payload)
//   - CODEREWARD_PREVIEW_LENGTH (characters kept in snippet previews)
//   - CODEREWARD_REDACT (mask credentials in previews: 1/true/yes/on or 0/false/no/off)
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dshills/codereward/internal/rubric"
	"github.com/dshills/codereward/internal/snippet"
)

// FileName is the config file looked up in the working directory.
const FileName = ".codereward.toml"

const (
	FormatJSON     = "json"
	FormatMarkdown = "md"
)

// DefaultInputEnv is the environment variable read for the training payload.
const DefaultInputEnv = "TRAINING_DATA"

// Config holds all codereward configuration.
type Config struct {
	// Rubric is a builtin rubric name or a path to a YAML rubric file.
	Rubric string `toml:"rubric"`
	// Format selects the result rendering: json or md.
	Format string `toml:"format"`
	// InputEnv names the environment variable holding the training payload.
	InputEnv      string `toml:"input_env"`
	PreviewLength int    `toml:"preview_length"`
	Redact        bool   `toml:"redact"`
}

// Overrides represents optional CLI flag overrides. Non-nil pointer means
// "override with this value".
type Overrides struct {
	Rubric        *string
	Format        *string
	InputEnv      *string
	PreviewLength *int
	Redact        *bool
}

// LoadOptions configures Load. All fields are optional.
type LoadOptions struct {
	// Path is an explicit config file; it must exist when set. When empty,
	// FileName in the working directory is used if present.
	Path string
	// Env is the environment key=value slice; if nil, os.Environ() is used.
	Env []string
	// Overrides are applied last (highest precedence).
	Overrides *Overrides
}

// DefaultConfig returns the default configuration (no I/O).
func DefaultConfig() Config {
	return Config{
		Rubric:        rubric.DefaultName,
		Format:        FormatJSON,
		InputEnv:      DefaultInputEnv,
		PreviewLength: snippet.DefaultPreviewLength,
	}
}

// Load loads configuration with precedence: defaults < file < env < overrides.
func Load(opts LoadOptions) (*Config, error) {
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	cfg := DefaultConfig()

	path := opts.Path
	required := path != ""
	if path == "" {
		path = FileName
	}
	if err := mergeFile(&cfg, path, required); err != nil {
		return nil, err
	}
	if err := applyEnv(&cfg, opts.Env); err != nil {
		return nil, err
	}
	applyOverrides(&cfg, opts.Overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("config: unknown format %q (want json or md)", c.Format)
	}
	if c.Rubric == "" {
		return fmt.Errorf("config: rubric must not be empty")
	}
	if c.InputEnv == "" {
		return fmt.Errorf("config: input_env must not be empty")
	}
	if c.PreviewLength < 1 {
		return fmt.Errorf("config: preview_length must be >= 1, got %d", c.PreviewLength)
	}
	return nil
}

// mergeFile reads path and merges into cfg. Only keys present in the file
// overwrite the current value. A missing file is skipped unless required.
func mergeFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var file struct {
		Rubric        *string `toml:"rubric"`
		Format        *string `toml:"format"`
		InputEnv      *string `toml:"input_env"`
		PreviewLength *int    `toml:"preview_length"`
		Redact        *bool   `toml:"redact"`
	}
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}
	if file.Rubric != nil && *file.Rubric != "" {
		cfg.Rubric = *file.Rubric
	}
	if file.Format != nil && *file.Format != "" {
		cfg.Format = strings.ToLower(*file.Format)
	}
	if file.InputEnv != nil && *file.InputEnv != "" {
		cfg.InputEnv = *file.InputEnv
	}
	if file.PreviewLength != nil {
		cfg.PreviewLength = *file.PreviewLength
	}
	if file.Redact != nil {
		cfg.Redact = *file.Redact
	}
	return nil
}

func applyEnv(cfg *Config, env []string) error {
	get := func(key string) (string, bool) {
		prefix := key + "="
		for _, e := range env {
			if strings.HasPrefix(e, prefix) {
				return strings.TrimSpace(e[len(prefix):]), true
			}
		}
		return "", false
	}
	if v, ok := get("CODEREWARD_RUBRIC"); ok && v != "" {
		cfg.Rubric = v
	}
	if v, ok := get("CODEREWARD_FORMAT"); ok && v != "" {
		cfg.Format = strings.ToLower(v)
	}
	if v, ok := get("CODEREWARD_INPUT_ENV"); ok && v != "" {
		cfg.InputEnv = v
	}
	if v, ok := get("CODEREWARD_PREVIEW_LENGTH"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: CODEREWARD_PREVIEW_LENGTH: %w", err)
		}
		cfg.PreviewLength = n
	}
	if v, ok := get("CODEREWARD_REDACT"); ok && v != "" {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("config: CODEREWARD_REDACT: %w", err)
		}
		cfg.Redact = b
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o == nil {
		return
	}
	if o.Rubric != nil {
		cfg.Rubric = *o.Rubric
	}
	if o.Format != nil {
		cfg.Format = strings.ToLower(*o.Format)
	}
	if o.InputEnv != nil {
		cfg.InputEnv = *o.InputEnv
	}
	if o.PreviewLength != nil {
		cfg.PreviewLength = *o.PreviewLength
	}
	if o.Redact != nil {
		cfg.Redact = *o.Redact
	}
}
