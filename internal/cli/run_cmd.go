package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/config"
	"github.com/swesmith-go/synthesis/internal/db"
	"github.com/swesmith-go/synthesis/internal/environment"
	"github.com/swesmith-go/synthesis/internal/mirror"
	"github.com/swesmith-go/synthesis/internal/orchestrator"
	"github.com/swesmith-go/synthesis/internal/profile"
	"github.com/swesmith-go/synthesis/internal/worktree"
)

var (
	runConfigPath   string
	runTrajectories string
	runID           string
	runSkipDBEvents bool
)

var runCmd = &cobra.Command{
	Use:   "run <profile.yaml>",
	Short: "Drive a profile through every stage in one tracked run",
	Long: `run chains profile load, entity extraction, environment build, bug
generation, collection, validation, gathering, issue generation, and
dataset assembly, recording each stage's outcome to ~/.smith/runs/<run-id>
via internal/artifact.RunStore. A stage failure stops the run; it does not
retry or escalate, since no reviewer is watching a synthesis run the way
one watches a pipeline attempt.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadRunConfig()
		if err != nil {
			return err
		}

		store, err := artifact.DefaultRunStore()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}

		var database *db.DB
		if !runSkipDBEvents {
			database, err = newDB()
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			defer database.Close()
		}

		wtGit := newWorktreeGit()
		mirrorGit := newMirrorGit()

		o := &orchestrator.Orchestrator{
			Store:     store,
			DB:        database,
			Images:    newImages(),
			Runner:    environment.ExecRunner{},
			WTGit:     wtGit,
			Worktrees: worktree.NewManager(wtGit, "", workDir),
			Mirror:    mirror.NewClient(mirrorGit),
			GoGit:     mirrorGit,
			LLM:       newLLM(cfg.Run),
			LogsDir:   logsDir,
			LocksDir:  locksDir,
			WorkDir:   workDir,
			Logf:      func(format string, a ...any) { fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", a...) },
		}

		id := runID
		if id == "" {
			id = uuid.NewString()
		}

		rs, err := o.Run(context.Background(), id, p, cfg.Run, runTrajectories)
		if rs != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %s at %s\n", id, rs.Status, rs.CurrentStage)
		}
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		return nil
	},
}

// loadRunConfig reads runConfigPath if given, otherwise searches the
// standard locations (smith.yaml, ~/.smith/config.yaml).
func loadRunConfig() (*config.RunConfig, error) {
	if runConfigPath != "" {
		return config.Load(runConfigPath)
	}
	return config.LoadDefault()
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "run config YAML (defaults to ./smith.yaml or ~/.smith/config.yaml)")
	runCmd.Flags().StringVar(&runTrajectories, "trajectories", "", "path to a recorded trajectories JSON file, enabling the distill stage")
	runCmd.Flags().StringVar(&runID, "run-id", "", "override the generated run id")
	runCmd.Flags().BoolVar(&runSkipDBEvents, "no-db-events", false, "skip logging stage events to ~/.smith/smith.db")
}
