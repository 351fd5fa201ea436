package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"laketrace/internal/databricks"
	"laketrace/internal/lineage"
)

func newLineageCmd(opts *rootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "lineage <catalog.schema.table>",
		Short: "Show one hop of table lineage as a flat table",
		Long: `Query the workspace's lineage-tracking API for a table and flatten the
upstream/downstream entities into rows with pipeline and notebook links.`,
		Example: `  # Lineage of a table, rendered as a table
  laketrace lineage main.analytics.orders

  # Only upstream entities, as JSON
  laketrace lineage main.analytics.orders --filter 'lineage_direction == "upstream"' -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, schema, table, err := lineage.ParseTableName(args[0])
			if err != nil {
				return err
			}

			var rowFilter *lineage.RowFilter
			if filter != "" {
				rowFilter, err = lineage.CompileRowFilter(filter)
				if err != nil {
					return err
				}
			}

			if opts.host == "" {
				return fmt.Errorf("no workspace host configured: pass --host, set LAKETRACE_HOST, or configure a profile")
			}
			ws, err := databricks.NewWorkspace(opts.host, opts.workspaceID)
			if err != nil {
				return err
			}
			client := databricks.NewClient(ws, databricks.StaticToken(opts.token))
			svc := lineage.NewService(client, ws)

			res, err := svc.TableLineage(cmd.Context(), catalog, schema, table)
			if err != nil {
				return err
			}

			if rowFilter != nil {
				res.Rows, err = rowFilter.Apply(res.Rows)
				if err != nil {
					return err
				}
			}

			return renderResult(os.Stdout, res, getOutputFormat(cmd))
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", `Starlark predicate over output columns (e.g. 'lineage_direction == "upstream"')`)

	return cmd
}
