package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/buggen"
	"github.com/swesmith-go/synthesis/internal/config"
	"github.com/swesmith-go/synthesis/internal/profile"
)

var (
	bugGenRepoDir  string
	bugGenMethod   string
	bugGenMaxBugs  int
	bugGenWorkers  int
	bugGenTemplate string
)

var bugGenCmd = &cobra.Command{
	Use:   "bug-gen <profile.yaml>",
	Short: "Inject candidate bugs into a repo checkout's entities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}
		if bugGenRepoDir == "" {
			return fmt.Errorf("bug-gen: --repo-dir is required (a local checkout of %s)", p.Key())
		}

		methods, err := buggen.MethodsFor(bugGenMethod)
		if err != nil {
			return err
		}

		driver := &buggen.Driver{
			Profile: p,
			RepoDir: bugGenRepoDir,
			LogsDir: logsDir,
			MaxBugs: bugGenMaxBugs,
			Methods: methods,
			Client:  newLLM(config.Run{}),
			Workdir: bugGenTemplate,
			Workers: bugGenWorkers,
			Logf:    func(format string, a ...any) { fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", a...) },
		}

		written, err := driver.Run(context.Background())
		if err != nil {
			return fmt.Errorf("bug-gen: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d candidate(s) for %s\n", written, p.Key())
		return nil
	},
}

func init() {
	bugGenCmd.Flags().StringVar(&bugGenRepoDir, "repo-dir", "", "local checkout to scan (required)")
	bugGenCmd.Flags().StringVar(&bugGenMethod, "method", "all", "procedural | llm-modify | llm-rewrite | all")
	bugGenCmd.Flags().IntVar(&bugGenMaxBugs, "max-bugs", 1000, "stop after this many candidates are written")
	bugGenCmd.Flags().IntVar(&bugGenWorkers, "workers", 4, "concurrent entities in flight")
	bugGenCmd.Flags().StringVar(&bugGenTemplate, "template-dir", "", "override directory for lm-modify/lm-rewrite prompt templates")
}
