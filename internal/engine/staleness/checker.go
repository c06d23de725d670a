package staleness

import (
	"errors"

	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/zerr"
)

// CheckerOptions configures a Checker.
type CheckerOptions struct {
	// Overrides replaces the derived parent name and directory.
	Overrides domain.Overrides
	// Glob expands the resolved template as a pattern instead of using it as a literal path.
	Glob bool
	// Missing decides what a missing compiled artifact means.
	Missing domain.MissingPolicy
}

// Checker answers "has anything in this source file's folder changed since its
// compiled artifact was produced?" for a fixed template.
type Checker struct {
	evaluator *Evaluator
	template  domain.Template
	opts      CheckerOptions
}

// NewChecker creates a Checker for template.
func NewChecker(evaluator *Evaluator, template domain.Template, opts CheckerOptions) *Checker {
	return &Checker{
		evaluator: evaluator,
		template:  template,
		opts:      opts,
	}
}

// Evaluate reports whether source needs recompiling.
func (c *Checker) Evaluate(source domain.SourceFile) (bool, error) {
	verdict, err := c.Explain(source)
	if err != nil {
		return false, err
	}
	return verdict.Stale, nil
}

// Explain returns the verdict for source together with the reason and the
// artifact that decided it. The source is stale when any resolved artifact is
// older than a file in the source folder or than the folder itself.
func (c *Checker) Explain(source domain.SourceFile) (domain.Verdict, error) {
	compiled, parent, err := c.template.ResolveSource(source, c.opts.Overrides)
	if err != nil {
		return domain.Verdict{}, err
	}

	verdict := domain.Verdict{
		Source:   source.Path,
		Reason:   domain.ReasonFresh,
		Artifact: compiled,
	}

	artifacts := []string{compiled}
	if c.opts.Glob {
		artifacts, err = c.evaluator.Glob(compiled)
		if err != nil {
			return domain.Verdict{}, err
		}
		if len(artifacts) == 0 {
			return c.missing(verdict, compiled)
		}
	}

	for _, artifact := range artifacts {
		ref, err := c.evaluator.fs.Timestamp(artifact)
		if err != nil {
			if errors.Is(err, domain.ErrPathNotFound) {
				return c.missing(verdict, artifact)
			}
			return domain.Verdict{}, err
		}

		reason, err := c.evaluator.compare(parent.Dir, source.Ext, ref)
		if err != nil {
			return domain.Verdict{}, err
		}
		if reason != domain.ReasonFresh {
			verdict.Stale = true
			verdict.Reason = reason
			verdict.Artifact = artifact
			return verdict, nil
		}
	}

	return verdict, nil
}

// missing applies the missing-artifact policy.
func (c *Checker) missing(verdict domain.Verdict, artifact string) (domain.Verdict, error) {
	if c.opts.Missing == domain.MissingError {
		return domain.Verdict{}, errors.Join(domain.ErrArtifactMissing,
			zerr.With(zerr.With(zerr.New("no compiled artifact for source"), "artifact", artifact), "source", verdict.Source))
	}

	verdict.Stale = true
	verdict.Reason = domain.ReasonArtifactMissing
	verdict.Artifact = artifact
	return verdict, nil
}
