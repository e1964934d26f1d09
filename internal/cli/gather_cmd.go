package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/environment"
	"github.com/swesmith-go/synthesis/internal/gather"
	"github.com/swesmith-go/synthesis/internal/mirror"
	"github.com/swesmith-go/synthesis/internal/profile"
	"github.com/swesmith-go/synthesis/internal/worktree"
)

// instancesPath is where "gather" persists its kept instances for the
// later stages to read back, since each stage runs as its own process.
func instancesPath(repo string) string {
	return filepath.Join(logsDir, "gathered", repo+"_instances.json")
}

var gatherRepoDir string

var gatherCmd = &cobra.Command{
	Use:   "gather <profile.yaml>",
	Short: "Keep validated candidates that promoted and push one branch per kept instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}
		if gatherRepoDir == "" {
			return fmt.Errorf("gather: --repo-dir is required (the mirror clone %s was scanned from)", p.Key())
		}

		wt := worktree.NewManager(newWorktreeGit(), gatherRepoDir, filepath.Join(gatherRepoDir, "worktrees"))
		gatherer := gather.NewGatherer(newMirrorGit(), mirror.NewClient(newMirrorGit()), wt, environment.ExecRunner{}, filepath.Join(logsDir, "run_validation"), locksDir)

		instances, err := gatherer.GatherAll(p)
		if err != nil {
			return fmt.Errorf("gather: %w", err)
		}

		path := instancesPath(p.Repo)
		if err := artifact.WriteJSON(path, instances); err != nil {
			return fmt.Errorf("gather: writing %s: %w", path, err)
		}

		w := cmd.OutOrStdout()
		for _, inst := range instances {
			fmt.Fprintf(w, "%s  F2P=%d P2P=%d\n", inst.InstanceID, len(inst.FailToPass), len(inst.PassToPass))
		}
		fmt.Fprintf(w, "%d instance(s) kept, written to %s\n", len(instances), path)
		return nil
	},
}

func init() {
	gatherCmd.Flags().StringVar(&gatherRepoDir, "repo-dir", "", "the mirror clone the validated candidates were scanned from (required)")
}
