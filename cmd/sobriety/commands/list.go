package commands

import (
	"fmt"
	"io"
	"sobriety/internal"
	"sobriety/internal/di"
	"sobriety/internal/format"
	"sobriety/internal/models"
	"time"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every addiction with its current abstinence",
		RunE: func(cmd *cobra.Command, args []string) error {
			console, err := di.InitConsole(&flags)
			if err != nil {
				return err
			}
			defer console.Close()
			return printList(cmd.OutOrStdout(), console, time.Now())
		},
	}
}

func printList(w io.Writer, console *internal.Console, now time.Time) error {
	f := format.NewFormatter(console.Conf.Display.Locale)
	for _, a := range console.Service.List() {
		if _, err := fmt.Fprintf(w, "%s [%s] %s\n", a.Name(), a.Priority(), describe(f, a, now)); err != nil {
			return err
		}
	}
	return nil
}

func describe(f *format.Formatter, a *models.Addiction, now time.Time) string {
	switch {
	case a.IsFuture():
		return "starts in " + f.Range(now, a.LastRelapse())
	case a.IsStopped():
		return "stopped after " + f.Range(a.LastRelapse(), time.UnixMilli(a.TimeStopped()))
	default:
		return f.Range(a.LastRelapse(), now)
	}
}
