package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "smith",
	Short: "smith — a task-instance synthesis engine",
	Long: `smith turns a registry of source repositories into SWE-bench-style task
instances: it builds each repo's hermetic test environment, injects
candidate bugs, validates them against a gold/candidate test differential,
keeps the ones that promote, writes issue text, and assembles the final
dataset (optionally distilled into SFT trajectories).

Each pipeline stage is its own subcommand so a run can be driven by cron,
resumed after a partial failure, or composed by hand; "smith run" chains
every stage in one call, tracked in ~/.smith/runs/<run-id>.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(entitiesCmd)
	rootCmd.AddCommand(buildEnvCmd)
	rootCmd.AddCommand(bugGenCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(gatherCmd)
	rootCmd.AddCommand(issueGenCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(distillCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}
