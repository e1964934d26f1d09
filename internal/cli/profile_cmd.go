package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect the repo profile registry",
}

var profileShowCmd = &cobra.Command{
	Use:   "show <profile.yaml>",
	Short: "Load and print one profile's derived names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Key:          %s\n", p.Key())
		fmt.Fprintf(w, "Language:     %s\n", p.Language())
		fmt.Fprintf(w, "Test command: %s\n", p.TestCmd)
		fmt.Fprintf(w, "Effective:    %s\n", p.EffectiveTestCmd())
		fmt.Fprintf(w, "Mirror:       %s\n", p.MirrorName())
		fmt.Fprintf(w, "Image:        %s\n", p.ImageName())
		fmt.Fprintf(w, "Source globs: %s\n", strings.Join(p.SourceGlobs(), ", "))
		if len(p.ExcludeGlobs()) > 0 {
			fmt.Fprintf(w, "Exclude globs: %s\n", strings.Join(p.ExcludeGlobs(), ", "))
		}
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list <dir>",
	Short: "List every profile registered under a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := profile.LoadAll(args[0])
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No profiles found.")
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-50s %-10s %s\n", "KEY", "LANGUAGE", "IMAGE")
		for _, p := range profiles {
			fmt.Fprintf(w, "%-50s %-10s %s\n", p.Key(), p.Language(), p.ImageName())
		}
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileListCmd)
}
