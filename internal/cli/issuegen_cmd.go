package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/config"
	"github.com/swesmith-go/synthesis/internal/gather"
	"github.com/swesmith-go/synthesis/internal/issuegen"
	"github.com/swesmith-go/synthesis/internal/profile"
)

var (
	issueGenMode     string
	issueGenExp      string
	issueGenTemplate string
)

var issueGenCmd = &cobra.Command{
	Use:   "issue-gen <profile.yaml>",
	Short: "Write a problem statement for every instance gather kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}

		var instances []gather.Instance
		if err := artifact.ReadJSON(instancesPath(p.Repo), &instances); err != nil {
			return fmt.Errorf("issue-gen: reading gathered instances: %w", err)
		}

		mode := issuegen.Mode(issueGenMode)
		exp := issueGenExp
		if exp == "" {
			exp = issueGenMode
		}

		gen := &issuegen.Generator{
			Mode:        mode,
			LLMClient:   newLLM(config.Run{}),
			TemplateDir: issueGenTemplate,
			BugGenDir:   logsDir,
			Logf:        func(format string, a ...any) { fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", a...) },
		}

		inputs := make([]issuegen.Input, len(instances))
		for i, inst := range instances {
			inputs[i] = issuegen.Input{Instance: inst, Language: p.Language()}
		}

		records, err := gen.GenerateAll(context.Background(), logsDir, p.Repo, exp, inputs)
		if err != nil {
			return fmt.Errorf("issue-gen: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d problem statement(s)\n", len(records))
		return nil
	},
}

func init() {
	issueGenCmd.Flags().StringVar(&issueGenMode, "mode", "llm", "llm | static | tests | pr | skip")
	issueGenCmd.Flags().StringVar(&issueGenExp, "exp", "", "experiment name for the output path, defaults to the mode")
	issueGenCmd.Flags().StringVar(&issueGenTemplate, "template-dir", "", "override directory for llm-mode prompt templates")
}
