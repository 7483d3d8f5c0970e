package changelog

import (
	"fmt"
	"github.com/icinga/icinga-changelog/internal/filter"
	"github.com/icinga/icingadb/pkg/logging"
	"go.uber.org/zap"
)

// Names of the gates a changeset has to pass, used in GateError.
const (
	GateContext = "context"
	GateLabels  = "labels"
)

// GateError is returned when an expression of a gate can't be evaluated.
type GateError struct {
	Changeset string // Changeset is the Changeset.Key of the affected changeset.
	Gate      string
	Err       error
}

func (e *GateError) Error() string {
	return fmt.Sprintf("changeset %q: cannot evaluate %s expression: %s", e.Changeset, e.Gate, e.Err)
}

func (e *GateError) Unwrap() error {
	return e.Err
}

// RunFilter decides which changesets apply to a run.
type RunFilter struct {
	// Contexts of the run. A changeset applies if its context expression matches them.
	Contexts filter.Items

	// Labels is the label expression of the run. It is matched against the labels of each
	// changeset, an empty expression lets every changeset pass.
	Labels filter.Expression
}

// ShouldRun reports whether the given changeset applies to this run.
// If not, the returned reason describes which gate rejected it.
func (f *RunFilter) ShouldRun(cs *Changeset) (bool, string, error) {
	if !cs.Context.IsEmpty() {
		matched, err := cs.Context.Matches(f.Contexts)
		if err != nil {
			return false, "", &GateError{Changeset: cs.Key(), Gate: GateContext, Err: err}
		}

		if !matched {
			return false, fmt.Sprintf("context %q does not match run contexts [%s]", cs.Context, f.Contexts), nil
		}
	}

	if !f.Labels.IsEmpty() {
		labels := cs.LabelItems()
		matched, err := f.Labels.Matches(labels)
		if err != nil {
			return false, "", &GateError{Changeset: cs.Key(), Gate: GateLabels, Err: err}
		}

		if !matched {
			return false, fmt.Sprintf("labels [%s] do not match run label expression %q", labels, f.Labels), nil
		}
	}

	return true, "", nil
}

// Apply returns the changesets of the given changelog that apply to this run, in changelog order.
// Skipped changesets are logged at debug level. Evaluation stops at the first GateError.
func (f *RunFilter) Apply(c *Changelog, logger *logging.Logger) ([]*Changeset, error) {
	var changesets []*Changeset
	for _, cs := range c.Changesets {
		ok, reason, err := f.ShouldRun(cs)
		if err != nil {
			return nil, err
		}

		if !ok {
			logger.Debugw("Skipping changeset", zap.String("changeset", cs.Key()), zap.String("reason", reason))
			continue
		}

		changesets = append(changesets, cs)
	}

	logger.Infow("Filtered changelog",
		zap.Int("total", len(c.Changesets)),
		zap.Int("applicable", len(changesets)),
		zap.Stringer("contexts", f.Contexts),
		zap.Stringer("labels", f.Labels))

	return changesets, nil
}
