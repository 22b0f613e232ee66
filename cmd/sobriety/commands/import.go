package commands

import (
	"fmt"
	"os"
	"sobriety/internal/di"

	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Add the addictions of an export file, skipping names that exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()

			console, err := di.InitConsole(&flags)
			if err != nil {
				return err
			}
			defer console.Close()

			records, err := console.Exporter.Import(f)
			if err != nil {
				return err
			}
			added, err := console.Service.Import(records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d addictions\n", added, len(records))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "export file to read")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
