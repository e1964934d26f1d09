package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/collector"
	"github.com/swesmith-go/synthesis/internal/environment"
	"github.com/swesmith-go/synthesis/internal/profile"
	"github.com/swesmith-go/synthesis/internal/validate"
)

var validateWorkers int

var validateCmd = &cobra.Command{
	Use:   "validate <profile.yaml>",
	Short: "Validate every collected candidate against a gold/candidate test differential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}

		manifest, err := collector.Collect(logsDir, p.Key())
		if err != nil {
			return fmt.Errorf("validate: collecting candidates: %w", err)
		}

		database, err := newDB()
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		defer database.Close()

		validator := validate.NewValidator(newImages(), environment.ExecRunner{}, database, filepath.Join(logsDir, "run_validation"), validateWorkers)
		results, err := validator.ValidateAll(context.Background(), p, manifest.Entries)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}

		w := cmd.OutOrStdout()
		var promoted int
		for i, r := range results {
			status := "dropped"
			if r.Report.Promoted() {
				status = "promoted"
				promoted++
			}
			fmt.Fprintf(w, "%s  %s\n", manifest.Entries[i].Hash, status)
		}
		fmt.Fprintf(w, "%d/%d candidate(s) promoted\n", promoted, len(results))
		return nil
	},
}

func init() {
	validateCmd.Flags().IntVar(&validateWorkers, "workers", 4, "concurrent candidates in flight")
}
