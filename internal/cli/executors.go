package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/scaleup/internal/bench/executor"
)

var executorsCmd = &cobra.Command{
	Use:   "executors",
	Short: "List the available executor variants",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printExecutors(cmd.OutOrStdout())
	},
}

func printExecutors(w io.Writer) {
	for _, typ := range executor.GetSupportedExecutors() {
		desc := executor.GetExecutorDescription(typ)
		if desc == nil {
			continue
		}
		fmt.Fprintf(w, "%s (%s)\n", desc.Type, desc.Name)
		fmt.Fprintf(w, "  %s\n", desc.Description)
		for _, uc := range desc.UseCases {
			fmt.Fprintf(w, "  - %s\n", uc)
		}
		fmt.Fprintln(w)
	}
}
