package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if isStructured(cmd) {
				return printJSON(cmd, map[string]string{
					"version":    version,
					"go_version": runtime.Version(),
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "beaconpush-cli version %s\n", version)
			return nil
		}),
	}
}
