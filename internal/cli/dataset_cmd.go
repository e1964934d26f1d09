package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/dataset"
	"github.com/swesmith-go/synthesis/internal/gather"
	"github.com/swesmith-go/synthesis/internal/issuegen"
	"github.com/swesmith-go/synthesis/internal/profile"
)

var (
	datasetExp       string
	datasetIssueMode string
)

var datasetCmd = &cobra.Command{
	Use:   "dataset <profile.yaml>",
	Short: "Join gathered instances with their issue text into the final per-repo corpus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}

		var instances []gather.Instance
		if err := artifact.ReadJSON(instancesPath(p.Repo), &instances); err != nil {
			return fmt.Errorf("dataset: reading gathered instances: %w", err)
		}

		exp := datasetExp
		if exp == "" {
			exp = datasetIssueMode
		}

		assembler := &dataset.Assembler{
			LogsDir:   logsDir,
			Repo:      p.Repo,
			Exp:       exp,
			IssueMode: issuegen.Mode(datasetIssueMode),
			Logf:      func(format string, a ...any) { fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", a...) },
		}

		records, err := assembler.Assemble(instances)
		if err != nil {
			return fmt.Errorf("dataset: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "assembled %d record(s) for %s\n", len(records), p.Repo)
		return nil
	},
}

func init() {
	datasetCmd.Flags().StringVar(&datasetExp, "exp", "", "experiment name issue-gen wrote under, defaults to --issue-mode")
	datasetCmd.Flags().StringVar(&datasetIssueMode, "issue-mode", "llm", "the issue-gen mode this run used (skip tolerates missing problem statements)")
}
