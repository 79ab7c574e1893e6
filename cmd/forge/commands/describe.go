package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "describe <role>",
		Short:     "Show the descriptor, cache key and dependencies of a type",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{app.RoleMatrix, app.RoleVector, app.RoleOperator, app.RoleSolver, app.RoleIndexSet},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := describeOptions(cmd)
			if err != nil {
				return err
			}
			_, err = c.app.Describe(cmd.Context(), args[0], opts)
			return err
		},
	}
	shapeFlags(cmd)
	return cmd
}
