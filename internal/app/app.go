// Package app implements the application layer for stale.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
	"go.trai.ch/stale/internal/engine/staleness"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	engine       *staleness.Engine
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, engine *staleness.Engine, telemetry ports.Telemetry, logger ports.Logger) *App {
	return &App{
		configLoader: loader,
		engine:       engine,
		telemetry:    telemetry,
		logger:       logger,
	}
}

// CheckOptions configures a Check session.
type CheckOptions struct {
	// ConfigPath is the rule file, or a directory to search upwards from.
	ConfigPath string
	// Rules limits the session to the named rules. Empty means every rule.
	Rules []string
	// Concurrency bounds parallel evaluations. Zero or less means runtime.NumCPU().
	Concurrency int
}

// job is one source checked against one rule.
type job struct {
	rule    string
	source  string
	checker *staleness.Checker
}

// Check evaluates every source of the selected rules in one session and
// returns the verdicts in rule then source order.
func (a *App) Check(ctx context.Context, opts CheckOptions) ([]domain.Verdict, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	rules, err := selectRules(cfg, opts.Rules)
	if err != nil {
		return nil, err
	}

	evaluator, err := a.engine.NewEvaluator(ports.FileSystemOptions{
		Timestamp: cfg.Timestamp,
		Ignore:    cfg.Ignore,
	})
	if err != nil {
		return nil, err
	}

	var jobs []job
	for _, rule := range rules {
		sources, err := expandSources(evaluator, rule)
		if err != nil {
			return nil, err
		}
		a.logger.Debug(fmt.Sprintf("rule %s matched %d sources", rule.Name, len(sources)))

		checker := staleness.NewChecker(evaluator, rule.Template, staleness.CheckerOptions{
			Overrides: rule.Overrides(),
			Glob:      rule.Glob,
			Missing:   rule.Missing,
		})
		for _, source := range sources {
			jobs = append(jobs, job{rule: rule.Name, source: source, checker: checker})
		}
	}

	verdicts, err := a.run(ctx, jobs, opts.Concurrency)
	if err != nil {
		return nil, err
	}

	return verdicts, nil
}

// run evaluates jobs with bounded parallelism, keeping input order.
func (a *App) run(ctx context.Context, jobs []job, concurrency int) ([]domain.Verdict, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	verdicts := make([]domain.Verdict, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			verdict, err := a.evaluate(gctx, j)
			if err != nil {
				return err
			}
			verdicts[i] = verdict
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return verdicts, nil
}

func (a *App) evaluate(ctx context.Context, j job) (domain.Verdict, error) {
	_, vertex := a.telemetry.Record(ctx, j.rule+": "+j.source)

	verdict, err := j.checker.Explain(domain.NewSourceFile(j.source))
	if err != nil {
		vertex.Complete(err)
		return domain.Verdict{}, errors.Join(err,
			zerr.With(zerr.With(zerr.New("check failed"), "rule", j.rule), "source", j.source))
	}
	verdict.Rule = j.rule

	vertex.Log(string(verdict.Reason))
	if !verdict.Stale {
		vertex.Cached()
	}
	vertex.Complete(nil)

	return verdict, nil
}

// Resolve returns the compiled path template resolves to for source.
func (a *App) Resolve(template domain.Template, source string, overrides domain.Overrides) (string, error) {
	resolved, _, err := template.ResolveSource(domain.NewSourceFile(source), overrides)
	return resolved, err
}

// Summary returns the totals kept by telemetry, or false when no backend keeps them.
func (a *App) Summary() (domain.RunSummary, bool) {
	if s, ok := a.telemetry.(ports.Summarizer); ok {
		return s.Summary()
	}
	return domain.RunSummary{}, false
}

// Close flushes telemetry.
func (a *App) Close() error {
	return a.telemetry.Close()
}

func selectRules(cfg *domain.Config, names []string) ([]*domain.Rule, error) {
	if len(names) == 0 {
		names = cfg.RuleNames()
	}

	rules := make([]*domain.Rule, 0, len(names))
	for i, name := range names {
		if slices.Contains(names[:i], name) {
			continue
		}
		rule, ok := cfg.Rule(name)
		if !ok {
			return nil, errors.Join(domain.ErrRuleNotFound, zerr.With(zerr.New("unknown rule"), "rule", name))
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// expandSources globs every source pattern of rule, dropping duplicates.
func expandSources(evaluator *staleness.Evaluator, rule *domain.Rule) ([]string, error) {
	var sources []string
	seen := make(map[string]struct{})

	for _, pattern := range rule.Sources {
		matches, err := evaluator.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			sources = append(sources, m)
		}
	}

	if len(sources) == 0 {
		return nil, errors.Join(domain.ErrNoSourcesMatched,
			zerr.With(zerr.With(zerr.New("rule matched no source files"), "rule", rule.Name), "patterns", rule.Sources))
	}

	return sources, nil
}
