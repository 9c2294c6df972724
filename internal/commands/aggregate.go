package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/collectivites/m57/internal/hierarchy"
)

func newAggregateCommand(opts *rootOptions) *cobra.Command {
	var nomenclaturePath string
	var out string
	var tree bool

	cmd := &cobra.Command{
		Use:   "aggregate <file>",
		Short: "Build and validate the report of one ledger file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open()
			if err != nil {
				return err
			}
			defer w.close()

			labels, err := w.labels(nomenclaturePath)
			if err != nil {
				return err
			}
			res, err := w.aggregateFile("aggregate", args[0], labels, out)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), res)
			if tree && res.Document.Available {
				printTree(cmd.OutOrStdout(), res.Document.Tree())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nomenclaturePath, "nomenclature", "", "nomenclature CSV (default <repo>/nomenclature/chart.csv)")
	cmd.Flags().StringVar(&out, "out", "", "report path (default <output>/<siren>-<year>.json)")
	cmd.Flags().BoolVar(&tree, "tree", false, "print every aggregate of the report")

	return cmd
}

func printSummary(out io.Writer, res aggregation) {
	doc := res.Document
	fmt.Fprintf(out, "%s: %s\n", res.ReportID, res.Path)
	if !doc.Available {
		fmt.Fprintln(out, "  no principal budget records, aggregates unavailable")
		return
	}
	fmt.Fprintf(out, "  %-28s %15s\n", "operating revenue", doc.Amount(hierarchy.Operating, "total_revenue").StringFixed(2))
	fmt.Fprintf(out, "  %-28s %15s\n", "operating expense", doc.Amount(hierarchy.Operating, "total_expense").StringFixed(2))
	fmt.Fprintf(out, "  %-28s %15s\n", "gross CAF", doc.Amount(hierarchy.SelfFinancing, "caf_gross").StringFixed(2))
	fmt.Fprintf(out, "  %-28s %15s\n", "net CAF", doc.Amount(hierarchy.SelfFinancing, "caf_net").StringFixed(2))
	fmt.Fprintf(out, "  %-28s %15s\n", "debt stock", doc.Amount(hierarchy.Debt, "total_stock").StringFixed(2))
	for _, d := range res.Discrepancies {
		fmt.Fprintf(out, "  warning: %v\n", d)
	}
}

// printTree lists every node of t under its section heading, indented by
// depth.
func printTree(out io.Writer, t hierarchy.Tree) {
	lines := make(map[string][]string, len(hierarchy.Sections))
	t.Walk(func(section string, path []string, n hierarchy.Node) {
		label := strings.Repeat("  ", len(path)) + path[len(path)-1]
		lines[section] = append(lines[section], fmt.Sprintf("  %-44s %15s", label, n.Amount.StringFixed(2)))
	})
	for _, section := range hierarchy.Sections {
		fmt.Fprintf(out, "\n%s\n", section)
		for _, l := range lines[section] {
			fmt.Fprintln(out, l)
		}
	}
}
