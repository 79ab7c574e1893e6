package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
)

func (c *CLI) newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the tridiagonal model problem with the configured solver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shape, err := describeOptions(cmd)
			if err != nil {
				return err
			}
			size, _ := cmd.Flags().GetInt("size")
			configPath, _ := cmd.Flags().GetString("config")
			solverType, _ := cmd.Flags().GetString("type")

			report, err := c.app.Solve(cmd.Context(), app.SolveOptions{
				Size:       size,
				Block:      shape.Block,
				Scalar:     shape.Scalar,
				ConfigPath: configPath,
				Type:       solverType,
				Extra:      shape.Extra,
				NoFastPath: shape.NoFastPath,
			})
			if err != nil {
				return err
			}
			if !report.Result.Converged {
				return domain.ErrNotConverged
			}
			return nil
		},
	}
	shapeFlags(cmd)
	cmd.Flags().IntP("size", "n", app.DefaultSolveSize, "Number of block rows")
	cmd.Flags().StringP("config", "c", "", "YAML file with the solver configuration")
	cmd.Flags().StringP("type", "t", "", "Solver type, overrides the configuration")
	return cmd
}
