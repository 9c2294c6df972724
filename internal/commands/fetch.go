package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/collectivites/m57/internal/fetcher"
	"github.com/collectivites/m57/internal/id"
	"github.com/collectivites/m57/internal/importer"
	"github.com/collectivites/m57/internal/ledger"
	"github.com/collectivites/m57/internal/model"
	"github.com/collectivites/m57/internal/runlog"
)

func newFetchCommand(opts *rootOptions) *cobra.Command {
	var siren string
	var years []int
	var outDir string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Retrieve ledgers from the public balance datasets",
		Long: "Retrieve every ledger line of a municipality for the given fiscal years\n" +
			"and write one <siren>-<year>.csv per year into import/.",
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
			if len(years) == 0 {
				return fmt.Errorf("at least one --year is required")
			}

			dir := outDir
			if dir == "" {
				dir = filepath.Join(w.root, importer.Dir)
			}

			client := fetcher.New(w.fetcherConfig(), w.log)
			byYear, err := client.FetchYears(cmd.Context(), siren, years)
			if err != nil {
				return err
			}

			fetched := make([]int, 0, len(byYear))
			for y := range byYear {
				fetched = append(fetched, y)
			}
			sort.Ints(fetched)

			for _, year := range fetched {
				lines := byYear[year]
				path := filepath.Join(dir, id.FormatReportID(siren, year)+".csv")
				if err := writeLedger(path, lines); err != nil {
					return err
				}
				w.log.Info("ledger saved", zap.String("path", path), zap.Int("lines", len(lines)))
				w.record(runlog.Entry{
					Command:  "fetch",
					ReportID: id.FormatReportID(siren, year),
					Action:   runlog.ActionFetched,
					Details:  fmt.Sprintf("%d lines", len(lines)),
				})
				fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d lines for %s %d into %s\n", len(lines), siren, year, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&siren, "siren", "", "SIREN of the municipality (default entity.siren)")
	cmd.Flags().IntSliceVar(&years, "year", nil, "fiscal year, repeatable")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default <repo>/import)")

	return cmd
}

func writeLedger(path string, lines []model.LedgerLine) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger file: %w", err)
	}
	defer f.Close()

	if err := ledger.WriteLines(f, lines); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
