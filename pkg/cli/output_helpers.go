package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	switch output {
	case "", "table", "json", "csv", "md", "markdown":
		return nil
	}
	return fmt.Errorf("unsupported output format %q: use 'table', 'json', 'csv' or 'markdown'", output)
}
