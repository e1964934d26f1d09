package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/environment"
	"github.com/swesmith-go/synthesis/internal/profile"
)

var buildEnvCmd = &cobra.Command{
	Use:   "build-env <profile.yaml>",
	Short: "Build (or reuse) the hermetic container image a profile's tests run in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}

		images := newImages()
		tag, err := images.Build(context.Background(), p)
		if err != nil {
			return fmt.Errorf("build-env: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", tag)
		return nil
	},
}
