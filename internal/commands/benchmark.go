package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/collectivites/m57/internal/benchmark"
	"github.com/collectivites/m57/internal/fetcher"
	"github.com/collectivites/m57/internal/id"
	"github.com/collectivites/m57/internal/model"
	"github.com/collectivites/m57/internal/runlog"
)

func newBenchmarkCommand(opts *rootOptions) *cobra.Command {
	var siren string
	var year int
	var maxPeers int
	var top int
	var out string

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Compare a municipality with the communes of its population band",
		Long: "Look the municipality up in the OFGL directory, average the principal budget\n" +
			"net flows of the communes sharing its population band and compare its own\n" +
			"accounts with those averages, in total and per inhabitant.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open()
			if err != nil {
				return err
			}
			defer w.close()

			if siren == "" {
				siren = w.cfg.Entity.SIREN
			}
			if !id.ValidSIREN(siren) {
				return fmt.Errorf("invalid SIREN %q: pass --siren or set entity.siren", siren)
			}
			if year == 0 {
				return fmt.Errorf("--year is required")
			}

			labels, err := w.labels("")
			if err != nil {
				return err
			}

			client := fetcher.New(w.fetcherConfig(), w.log)
			runner := benchmark.New(client, benchmark.Options{
				MaxPeers: maxPeers,
				Scope:    model.BudgetScope(w.cfg.Engine.PrincipalBudget),
				Labels:   labels,
			}, w.log)
			res, err := runner.Run(cmd.Context(), siren, year)
			if err != nil {
				return err
			}

			reportID := id.FormatReportID(siren, year)
			path := out
			if path == "" {
				path = filepath.Join(w.outputDir(), reportID+"-benchmark.json")
			}
			if err := benchmark.Write(path, res); err != nil {
				return err
			}
			w.log.Info("benchmark written", zap.String("path", path), zap.Int("accounts", len(res.Rows)))
			w.record(runlog.Entry{
				Command:  "benchmark",
				ReportID: reportID,
				Action:   runlog.ActionBenchmarked,
				Details:  fmt.Sprintf("band %s, %d of %d communes", res.Commune.Band, res.Sampled, res.BandSize),
			})

			printBenchmark(cmd.OutOrStdout(), path, res, top)
			return nil
		},
	}

	cmd.Flags().StringVar(&siren, "siren", "", "SIREN of the municipality (default entity.siren)")
	cmd.Flags().IntVar(&year, "year", 0, "fiscal year")
	cmd.Flags().IntVar(&maxPeers, "max-peers", 0, "communes sampled from the band, 0 for all")
	cmd.Flags().IntVar(&top, "top", 15, "accounts printed, largest gaps first")
	cmd.Flags().StringVar(&out, "out", "", "benchmark path (default <output>/<siren>-<year>-benchmark.json)")

	return cmd
}

func printBenchmark(out io.Writer, path string, c benchmark.Comparison, top int) {
	fmt.Fprintf(out, "%s %d, band %s: %d of %d communes sampled\n",
		c.Commune.Name, c.Year, c.Commune.Band, c.Sampled, c.BandSize)
	fmt.Fprintf(out, "  %s\n", path)
	rows := c.Rows
	if top >= 0 && len(rows) > top {
		rows = rows[:top]
	}
	for _, r := range rows {
		pct := "n/a"
		if r.GapPercent != nil {
			pct = r.GapPercent.StringFixed(1) + "%"
		}
		fmt.Fprintf(out, "  %-8s %15s %15s %15s %8s\n", r.Code,
			r.Amount.StringFixed(2), r.PeerMean.StringFixed(2), r.Gap.StringFixed(2), pct)
	}
}
