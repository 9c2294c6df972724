package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/collectivites/m57/internal/report"
)

func newCompareCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "compare <report.json>...",
		Short: "Compare the reports of one municipality across years",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open()
			if err != nil {
				return err
			}
			defer w.close()

			docs := make([]report.Document, 0, len(args))
			for _, path := range args {
				doc, err := report.Read(path)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}

			series, err := report.Compare(docs)
			if err != nil {
				return err
			}
			w.log.Info("series compared", zap.String("siren", series.EntityID),
				zap.Ints("years", series.Years), zap.Int("signals", len(series.Signals)))

			if out == "" {
				return writeJSON(cmd.OutOrStdout(), series)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()
			if err := writeJSON(f, series); err != nil {
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write the comparison to a file instead of stdout")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
