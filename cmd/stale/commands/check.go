package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/stale/internal/app"
	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/ui/output"
	"go.trai.ch/stale/internal/ui/style"
	"go.trai.ch/zerr"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [rules...]",
		Short: "Report which sources are stale, for all rules or the named ones",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			failOnStale, _ := cmd.Flags().GetBool("fail-on-stale")
			onlyStale, _ := cmd.Flags().GetBool("only-stale")
			jsonMode, _ := cmd.Flags().GetBool("json")
			progress, _ := cmd.Flags().GetBool("progress")

			verdicts, err := c.app.Check(cmd.Context(), app.CheckOptions{
				ConfigPath:  configPath,
				Rules:       args,
				Concurrency: concurrency,
			})
			if err != nil {
				return err
			}

			if onlyStale {
				verdicts = staleOnly(verdicts)
			}

			if jsonMode {
				err = writeJSON(cmd.OutOrStdout(), verdicts)
			} else {
				err = writeText(cmd.OutOrStdout(), verdicts)
			}
			if err != nil {
				return zerr.Wrap(err, "failed to write results")
			}

			if progress {
				if err := c.writeSummary(cmd.ErrOrStderr()); err != nil {
					return zerr.Wrap(err, "failed to write summary")
				}
			}

			if n := len(staleOnly(verdicts)); failOnStale && n > 0 {
				return errors.Join(domain.ErrStaleSources, zerr.With(zerr.New("sources need rebuilding"), "count", n))
			}
			return nil
		},
	}
	cmd.Flags().Int("concurrency", 0, "Maximum parallel checks (default: number of CPUs)")
	cmd.Flags().Bool("fail-on-stale", false, "Exit with status 1 when any source is stale")
	cmd.Flags().Bool("only-stale", false, "Only report stale sources")
	cmd.Flags().Bool("progress", false, "Print a summary of the recorded checks to stderr")
	return cmd
}

func staleOnly(verdicts []domain.Verdict) []domain.Verdict {
	var out []domain.Verdict
	for _, v := range verdicts {
		if v.Stale {
			out = append(out, v)
		}
	}
	return out
}

func writeText(w io.Writer, verdicts []domain.Verdict) error {
	out := output.New(w)
	for _, v := range verdicts {
		label := output.Paint(out, style.Fresh, style.Green)
		if v.Stale {
			label = output.Paint(out, style.Stale, style.Red)
		}
		if _, err := fmt.Fprintf(w, "%s %s %s (%s)\n", label, v.Rule, v.Source, v.Reason); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) writeSummary(w io.Writer) error {
	summary, ok := c.app.Summary()
	if !ok {
		return nil
	}

	out := output.New(w)
	_, err := fmt.Fprintf(w, "%s %d checked: %s, %s, %d failed in %s\n",
		output.Paint(out, style.Dot, style.Slate),
		summary.Total,
		output.Paint(out, fmt.Sprintf("%d stale", summary.Stale), style.Red),
		output.Paint(out, fmt.Sprintf("%d fresh", summary.Fresh), style.Green),
		summary.Failed,
		summary.Duration.Round(time.Millisecond),
	)
	return err
}

func writeJSON(w io.Writer, verdicts []domain.Verdict) error {
	if verdicts == nil {
		verdicts = []domain.Verdict{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(verdicts)
}
