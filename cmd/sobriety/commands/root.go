package commands

import (
	"sobriety/internal/structures"

	"github.com/spf13/cobra"
)

var flags structures.CliFlags

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sobriety",
		Short:        "Track abstinence from addictions",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "log to the console as well")

	root.AddCommand(serveCmd(), listCmd(), exportCmd(), importCmd())
	return root
}
