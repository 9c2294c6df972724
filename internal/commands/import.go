package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/collectivites/m57/internal/archive"
	"github.com/collectivites/m57/internal/importer"
	"github.com/collectivites/m57/internal/runlog"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Aggregate every ledger waiting in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open()
			if err != nil {
				return err
			}
			defer w.close()
			return runImport(cmd, w)
		},
	}
}

func runImport(cmd *cobra.Command, w *workspace) error {
	out := cmd.OutOrStdout()

	files, err := importer.Scan(w.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "Nothing to import.")
		return nil
	}

	labels, err := w.labels("")
	if err != nil {
		return err
	}

	var imported, failed int
	for _, f := range files {
		res, err := w.aggregateFile("import", f.Path, labels, "")
		if err != nil {
			failed++
			w.log.Error("import failed", zap.String("file", f.Name), zap.Error(err))
			w.record(runlog.Entry{Command: "import", Action: runlog.ActionImportFailed, Details: fmt.Sprintf("%s: %v", f.Name, err)})
			continue
		}
		if err := importer.MarkProcessed(w.root, f.Name); err != nil {
			return err
		}
		imported++
		w.record(runlog.Entry{Command: "import", ReportID: res.ReportID, Action: runlog.ActionImported, Details: f.Name})
		printSummary(out, res)
	}

	if imported > 0 && w.cfg.Git.AutoCommit && archive.IsRepo(w.root) {
		hash, err := archive.Commit(w.root, fmt.Sprintf("import: %d report(s)", imported), w.author())
		if err != nil {
			return err
		}
		if hash != "" {
			w.log.Info("reports committed", zap.String("commit", hash))
			w.record(runlog.Entry{Command: "import", Action: runlog.ActionCommitted, Details: hash})
		}
	}

	fmt.Fprintf(out, "Imported %d of %d file(s).\n", imported, len(files))
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to import", failed, len(files))
	}
	return nil
}
