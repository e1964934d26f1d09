package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only dashboard over ~/.smith/runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := artifact.DefaultRunStore()
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return web.NewServer(store, servePort).Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
}
