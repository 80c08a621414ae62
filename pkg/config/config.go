package config

import (
	"fmt"
	"regexp"

	"github.com/arthur-debert/stowng/pkg/errors"
)

// Output formats accepted by the output key
var OutputFormats = []string{"auto", "text", "term", "json", "yaml", "toml"}

// Config is the effective configuration of one run
type Config struct {
	Dir    string `koanf:"dir" json:"dir" yaml:"dir" toml:"dir"`
	Target string `koanf:"target" json:"target" yaml:"target" toml:"target"`

	Ignore   []string `koanf:"ignore" json:"ignore" yaml:"ignore" toml:"ignore"`
	Defer    []string `koanf:"defer" json:"defer" yaml:"defer" toml:"defer"`
	Override []string `koanf:"override" json:"override" yaml:"override" toml:"override"`

	Adopt     bool `koanf:"adopt" json:"adopt" yaml:"adopt" toml:"adopt"`
	NoFolding bool `koanf:"no_folding" json:"no_folding" yaml:"no_folding" toml:"no_folding"`
	Dotfiles  bool `koanf:"dotfiles" json:"dotfiles" yaml:"dotfiles" toml:"dotfiles"`
	Compat    bool `koanf:"compat" json:"compat" yaml:"compat" toml:"compat"`
	Simulate  bool `koanf:"simulate" json:"simulate" yaml:"simulate" toml:"simulate"`

	Verbose int    `koanf:"verbose" json:"verbose" yaml:"verbose" toml:"verbose"`
	Output  string `koanf:"output" json:"output" yaml:"output" toml:"output"`
	LogFile bool   `koanf:"log_file" json:"log_file" yaml:"log_file" toml:"log_file"`

	// Sources lists the config files that were loaded, in order
	Sources []string `koanf:"-" json:"-" yaml:"-" toml:"-"`
}

// Patterns are the compiled regexp options
type Patterns struct {
	Ignore   []*regexp.Regexp
	Defer    []*regexp.Regexp
	Override []*regexp.Regexp
}

// Validate checks values that cannot be expressed by types alone
func (c *Config) Validate() error {
	if c.Verbose < 0 {
		return errors.Newf(errors.ErrConfigValid, "verbose must not be negative, got %d", c.Verbose).
			WithDetail("key", "verbose")
	}

	for _, format := range OutputFormats {
		if c.Output == format {
			return nil
		}
	}
	return errors.Newf(errors.ErrConfigValid, "unknown output format %q", c.Output).
		WithDetail("key", "output").
		WithDetail("allowed", OutputFormats)
}

// Patterns compiles the ignore, defer and override options. Ignore
// patterns are anchored at the end of the path, defer and override
// patterns at its start.
func (c *Config) Patterns() (Patterns, error) {
	var p Patterns
	var err error

	if p.Ignore, err = compile("ignore", c.Ignore, `(?:%s)\z`); err != nil {
		return Patterns{}, err
	}
	if p.Defer, err = compile("defer", c.Defer, `\A(?:%s)`); err != nil {
		return Patterns{}, err
	}
	if p.Override, err = compile("override", c.Override, `\A(?:%s)`); err != nil {
		return Patterns{}, err
	}
	return p, nil
}

func compile(key string, exprs []string, anchor string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(fmt.Sprintf(anchor, expr))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPatternValid, "invalid --%s pattern %q", key, expr).
				WithDetail("key", key).
				WithDetail("pattern", expr)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
