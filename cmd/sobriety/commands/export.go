package commands

import (
	"fmt"
	"os"
	"sobriety/internal/di"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every addiction to a JSON export file",
		RunE: func(cmd *cobra.Command, args []string) error {
			console, err := di.InitConsole(&flags)
			if err != nil {
				return err
			}
			defer console.Close()

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			records := console.Service.List()
			if err := console.Exporter.Export(records, w); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d addictions to %s\n", len(records), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "export file (default stdout)")
	return cmd
}
