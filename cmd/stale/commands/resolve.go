package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/stale/internal/core/domain"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <template> <source>",
		Short: "Print the compiled path a template resolves to for a source file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentName, _ := cmd.Flags().GetString("parent-name")
			parentDir, _ := cmd.Flags().GetString("parent-dir")

			rule := domain.Rule{ParentName: parentName, ParentDir: parentDir}
			resolved, err := c.app.Resolve(domain.Template(args[0]), args[1], rule.Overrides())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), resolved)
			return err
		},
	}
	cmd.Flags().String("parent-name", "", "Use this name instead of the source's parent folder name")
	cmd.Flags().String("parent-dir", "", "Use this directory instead of the source's parent; :dirname is substituted")
	return cmd
}
