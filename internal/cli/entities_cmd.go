package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/lang"
)

var entitiesLang string

var entitiesCmd = &cobra.Command{
	Use:   "entities <file>",
	Short: "Extract the functions/methods/classes a language adapter finds in one file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := lang.For(entitiesLang)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		entities, err := adapter.EntitiesOf(context.Background(), content, args[0])
		if err != nil {
			return fmt.Errorf("extracting entities: %w", err)
		}
		if len(entities) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No entities found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tLINES\tSIGNATURE")
		for _, e := range entities {
			fmt.Fprintf(w, "%s\t%s\t%d-%d\t%s\n", e.Name, e.Kind, e.StartLine, e.EndLine, e.Signature)
		}
		return w.Flush()
	},
}

func init() {
	entitiesCmd.Flags().StringVar(&entitiesLang, "lang", "go", "language adapter to use (go, python, javascript, typescript)")
}
