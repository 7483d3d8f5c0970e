package daemon

import (
	"errors"
	"fmt"
	"github.com/creasty/defaults"
	"github.com/goccy/go-yaml"
	"github.com/icinga/icinga-changelog/internal/changelog"
	"github.com/icinga/icinga-changelog/internal/filter"
	icingadbConfig "github.com/icinga/icingadb/pkg/config"
	"github.com/icinga/icingadb/pkg/logging"
	"github.com/jessevdk/go-flags"
	"io"
	"os"
	"strings"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

type ConfigFile struct {
	Changelog string                 `yaml:"changelog" default:"changelog.yml"`
	Contexts  string                 `yaml:"contexts"`
	Labels    string                 `yaml:"labels"`
	Logging   icingadbConfig.Logging `yaml:"logging"`
}

// SetDefaults implements the defaults.Setter interface.
func (c *ConfigFile) SetDefaults() {
	if defaults.CanUpdate(c.Logging.Output) {
		c.Logging.Output = logging.CONSOLE
	}
}

// Validate validates the entire configuration after it has been loaded.
func (c *ConfigFile) Validate() error {
	if c.Changelog == "" {
		return errors.New("changelog path must not be empty")
	}
	if err := filter.Validate(c.Labels); err != nil {
		return fmt.Errorf("invalid label expression: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}

	return nil
}

// RunFilter returns the changelog.RunFilter for the configured contexts and labels.
func (c *ConfigFile) RunFilter() *changelog.RunFilter {
	return &changelog.RunFilter{
		Contexts: filter.ParseItems(c.Contexts),
		Labels:   filter.Expression(c.Labels),
	}
}

// Assert interface compliance.
var _ defaults.Setter = (*ConfigFile)(nil)

// Flags defines the CLI flags supported by changelog-gate.
// Non-empty flags take precedence over the respective config file options.
type Flags struct {
	// Version decides whether to just print the version and exit.
	Version bool `long:"version" description:"print version and exit"`
	// Config is the path to the config file
	Config    string `short:"c" long:"config" description:"path to config file"`
	Changelog string `long:"changelog" description:"path to the changelog file"`
	Contexts  string `long:"contexts" description:"comma-separated list of the contexts of this run"`
	Labels    string `long:"labels" description:"label expression selecting the changesets of this run"`
}

// ParseFlags parses the given CLI arguments, usually os.Args[1:].
//
// The returned bool is true if the help message was requested and has been printed already.
func ParseFlags(args []string) (*Flags, bool, error) {
	f := new(Flags)
	if _, err := flags.NewParser(f, flags.Default).ParseArgs(args); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			return f, true, nil
		}

		return nil, false, err
	}

	return f, false, nil
}

// LoadConfig loads the config file referenced by the given flags, if any, and applies the flag overrides.
func LoadConfig(f *Flags) (*ConfigFile, error) {
	var r io.Reader = strings.NewReader("")
	if f.Config != "" {
		file, err := os.Open(f.Config)
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		r = file
	}

	c, err := loadConfig(r)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}

	if f.Changelog != "" {
		c.Changelog = f.Changelog
	}
	if f.Contexts != "" {
		c.Contexts = f.Contexts
	}
	if f.Labels != "" {
		c.Labels = f.Labels
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return c, nil
}

// loadConfig decodes a YAML config on top of the defaults. Validation is left to the caller.
func loadConfig(r io.Reader) (*ConfigFile, error) {
	c := new(ConfigFile)
	if err := defaults.Set(c); err != nil {
		return nil, err
	}

	if err := yaml.NewDecoder(r, yaml.DisallowUnknownField()).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return c, nil
}
