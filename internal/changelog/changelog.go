package changelog

import (
	"errors"
	"fmt"
	"github.com/goccy/go-yaml"
	"github.com/icinga/icinga-changelog/internal/filter"
	"io"
	"os"
)

// Changeset is a single unit of change within a Changelog.
type Changeset struct {
	ID     string `yaml:"id"`
	Author string `yaml:"author"`

	// Context restricts the runs this changeset applies to, e.g. "dev and !prod".
	// It is matched against the contexts of the run, an empty expression matches every run.
	Context filter.Expression `yaml:"context"`

	// Labels is a comma-separated list of labels, matched by the label expression of a run.
	Labels string `yaml:"labels"`

	Comment string `yaml:"comment"`
}

// Key returns the identifier of this changeset, unique within a Changelog.
func (cs *Changeset) Key() string {
	return cs.ID + "::" + cs.Author
}

// LabelItems returns the parsed labels of this changeset.
func (cs *Changeset) LabelItems() filter.Items {
	return filter.ParseItems(cs.Labels)
}

// Validate checks the required fields and the syntax of the context expression.
func (cs *Changeset) Validate() error {
	if cs.ID == "" {
		return errors.New("changeset is missing an id")
	}
	if cs.Author == "" {
		return fmt.Errorf("changeset %q is missing an author", cs.ID)
	}
	if err := filter.Validate(cs.Context.String()); err != nil {
		return &GateError{Changeset: cs.Key(), Gate: GateContext, Err: err}
	}

	return nil
}

// Changelog is an ordered list of changesets.
type Changelog struct {
	Changesets []*Changeset `yaml:"changesets"`
}

// Validate validates every changeset and rejects duplicate keys.
func (c *Changelog) Validate() error {
	seen := make(map[string]struct{}, len(c.Changesets))
	for i, cs := range c.Changesets {
		if cs == nil {
			return fmt.Errorf("changeset #%d is empty", i)
		}

		if err := cs.Validate(); err != nil {
			return err
		}

		if _, ok := seen[cs.Key()]; ok {
			return fmt.Errorf("duplicate changeset %q", cs.Key())
		}
		seen[cs.Key()] = struct{}{}
	}

	return nil
}

// Load decodes and validates a YAML changelog.
func Load(r io.Reader) (*Changelog, error) {
	var c Changelog
	if err := yaml.NewDecoder(r, yaml.DisallowUnknownField()).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cannot decode changelog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid changelog: %w", err)
	}

	return &c, nil
}

// LoadFile is like Load but reads the changelog from the given file.
func LoadFile(path string) (*Changelog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}
