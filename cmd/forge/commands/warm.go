package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWarmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Build the matrix, vector, operator and solver types of a block shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := describeOptions(cmd)
			if err != nil {
				return err
			}
			_, err = c.app.WarmShape(cmd.Context(), opts)
			return err
		},
	}
	shapeFlags(cmd)
	return cmd
}
