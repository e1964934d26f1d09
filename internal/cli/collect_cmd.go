package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/collector"
	"github.com/swesmith-go/synthesis/internal/profile"
)

var collectCmd = &cobra.Command{
	Use:   "collect <profile.yaml>",
	Short: "Collect bug-gen's written candidates into one manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}

		manifest, err := collector.Collect(logsDir, p.Key())
		if err != nil {
			return fmt.Errorf("collect: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-12s %-30s %s\n", "KIND", "ENTITY", "HASH")
		for _, e := range manifest.Entries {
			fmt.Fprintf(w, "%-12s %-30s %s\n", e.BugKind, e.SourceEntity, e.Hash)
		}
		fmt.Fprintf(w, "%d candidate(s)\n", len(manifest.Entries))
		return nil
	},
}
