package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/distill"
	"github.com/swesmith-go/synthesis/internal/environment"
	"github.com/swesmith-go/synthesis/internal/gather"
	"github.com/swesmith-go/synthesis/internal/profile"
	"github.com/swesmith-go/synthesis/internal/testlog"
)

var (
	distillDialect      string
	distillResolvedOnly bool
)

var distillCmd = &cobra.Command{
	Use:   "distill <profile.yaml> <trajectories.json>",
	Short: "Re-validate recorded agent trajectories and serialize the resolved ones into SFT records",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}

		var trajectories []distill.Trajectory
		if err := artifact.ReadJSON(args[1], &trajectories); err != nil {
			return fmt.Errorf("distill: reading %s: %w", args[1], err)
		}

		var instanceList []gather.Instance
		if err := artifact.ReadJSON(instancesPath(p.Repo), &instanceList); err != nil {
			return fmt.Errorf("distill: reading gathered instances: %w", err)
		}
		instances := make(map[string]gather.Instance, len(instanceList))
		for _, inst := range instanceList {
			instances[inst.InstanceID] = inst
		}

		dialect := distill.Dialect(distillDialect)
		distiller := &distill.Distiller{
			Resolver: &distill.Resolver{
				Runner:    environment.ExecRunner{},
				TestCmd:   func(gather.Instance) string { return p.EffectiveTestCmd() },
				ParseLog:  func(_ gather.Instance, raw string) (testlog.Report, error) { return p.ParseLog(raw) },
				Timeout:   p.PerTestTimeoutDuration(),
				MaxMemory: func(gather.Instance) string { return p.MaxMemory },
			},
			Dialect:      dialect,
			ResolvedOnly: distillResolvedOnly,
			Logf:         func(format string, a ...any) { fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", a...) },
		}

		records, summary, err := distiller.DistillAll(context.Background(), logsDir, p.Repo, instances, trajectories)
		if err != nil {
			return fmt.Errorf("distill: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "distilled %d record(s), avg message length %d\n", len(records), summary.Mean)
		return nil
	},
}

func init() {
	distillCmd.Flags().StringVar(&distillDialect, "dialect", "function_call", "function_call | xml_tag")
	distillCmd.Flags().BoolVar(&distillResolvedOnly, "resolved-only", true, "only emit trajectories whose patch re-resolves the instance")
}
