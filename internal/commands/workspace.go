package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/collectivites/m57/internal/archive"
	"github.com/collectivites/m57/internal/config"
	"github.com/collectivites/m57/internal/fetcher"
	"github.com/collectivites/m57/internal/id"
	"github.com/collectivites/m57/internal/importer"
	"github.com/collectivites/m57/internal/logging"
	"github.com/collectivites/m57/internal/model"
	"github.com/collectivites/m57/internal/nomenclature"
	"github.com/collectivites/m57/internal/report"
	"github.com/collectivites/m57/internal/runlog"
	"github.com/collectivites/m57/internal/validate"
)

// workspace is an opened m57 directory: its root, configuration and logger.
type workspace struct {
	root      string
	cfg       *config.Config
	tolerance decimal.Decimal
	log       *zap.Logger
	now       func() time.Time
}

// open resolves the workspace named by the persistent flags. A missing
// m57.yaml falls back to defaults unless --config names it explicitly.
func (o *rootOptions) open() (*workspace, error) {
	root, err := filepath.Abs(o.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if err := config.LoadDotEnv(root); err != nil {
		return nil, err
	}

	path := o.configPath
	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, config.FileName)
	}
	cfg, err := config.Load(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, os.ErrNotExist):
		cfg = config.Default("", "")
	default:
		return nil, err
	}

	cfg.ApplyEnv()
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	tol, _ := cfg.Tolerance()

	log, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &workspace{root: root, cfg: cfg, tolerance: tol, log: log, now: time.Now}, nil
}

func (w *workspace) close() {
	_ = w.log.Sync()
}

func (w *workspace) outputDir() string {
	if filepath.IsAbs(w.cfg.Output.Dir) {
		return w.cfg.Output.Dir
	}
	return filepath.Join(w.root, w.cfg.Output.Dir)
}

func (w *workspace) author() archive.Author {
	return archive.Author{Name: w.cfg.Git.AuthorName, Email: w.cfg.Git.AuthorEmail}
}

func (w *workspace) fetcherConfig() fetcher.Config {
	cfg := fetcher.DefaultConfig()
	cfg.BaseURL = w.cfg.Source.BaseURL
	cfg.DirectoryURL = w.cfg.Source.DirectoryURL
	cfg.PageSize = w.cfg.Source.PageSize
	cfg.RequestsPerSecond = w.cfg.Source.RequestsPerSecond
	cfg.Burst = w.cfg.Source.Burst
	cfg.Timeout = w.cfg.Source.Timeout
	cfg.CacheTTL = w.cfg.Source.CacheTTL
	return cfg
}

// labels loads the nomenclature from path, or from the workspace, or falls
// back to the built-in chart.
func (w *workspace) labels(path string) (*nomenclature.Chart, error) {
	if path != "" {
		return nomenclature.LoadFile(path)
	}
	chart, err := nomenclature.Load(w.root)
	if errors.Is(err, os.ErrNotExist) {
		w.log.Debug("no workspace nomenclature, using built-in chart")
		return nomenclature.NewChart(nomenclature.DefaultChart()), nil
	}
	return chart, err
}

// record appends entries to the run log. Failures are logged, not returned.
func (w *workspace) record(entries ...runlog.Entry) {
	now := w.now().UTC()
	for i := range entries {
		if entries[i].Timestamp.IsZero() {
			entries[i].Timestamp = now
		}
	}
	if err := runlog.Append(w.root, entries...); err != nil {
		w.log.Warn("failed to write run log", zap.Error(err))
	}
}

// aggregation is the outcome of aggregating one ledger file.
type aggregation struct {
	ReportID      string
	Path          string
	Document      report.Document
	Discrepancies []validate.Discrepancy
}

// aggregateFile parses a ledger file, builds and validates its report and
// writes it to out, or to <output>/<siren>-<year>.json when out is empty.
func (w *workspace) aggregateFile(command, path string, labels report.Labeler, out string) (aggregation, error) {
	lines, err := importer.DefaultRegistry().ParseFile(path)
	if err != nil {
		return aggregation{}, err
	}

	doc := report.Build(lines, report.Options{
		Scope:  model.BudgetScope(w.cfg.Engine.PrincipalBudget),
		Labels: labels,
	})

	var res aggregation
	res.Document = doc
	meta := doc.Metadata
	if meta.EntityID != "" && meta.FiscalYear != 0 {
		res.ReportID = id.FormatReportID(meta.EntityID, meta.FiscalYear)
	}
	res.Path = out
	if res.Path == "" {
		if res.ReportID == "" {
			return aggregation{}, fmt.Errorf("%s: ledger carries no siren and year, pass --out", filepath.Base(path))
		}
		res.Path = filepath.Join(w.outputDir(), res.ReportID+".json")
	}

	if doc.Available {
		res.Discrepancies = validate.Check(doc.Tree(), w.tolerance)
	}
	if err := report.Write(res.Path, doc); err != nil {
		return aggregation{}, err
	}

	log := w.log.With(zap.String("report", res.ReportID), zap.String("source", path))
	entries := []runlog.Entry{}
	if doc.Available {
		log.Info("report written",
			zap.String("path", res.Path),
			zap.Int("accounts", doc.AccountCount),
			zap.Int("annex_records_excluded", meta.AnnexSkipped))
		entries = append(entries, runlog.Entry{Command: command, ReportID: res.ReportID, Action: runlog.ActionAggregated,
			Details: fmt.Sprintf("%d accounts from %s", doc.AccountCount, filepath.Base(path))})
	} else {
		log.Warn("no principal budget records, aggregates unavailable")
		entries = append(entries, runlog.Entry{Command: command, ReportID: res.ReportID, Action: runlog.ActionUnavailable,
			Details: filepath.Base(path)})
	}
	for _, d := range res.Discrepancies {
		log.Warn("identity does not hold", zap.String("identity", d.Identity), zap.String("gap", d.Gap().String()))
		entries = append(entries, runlog.Entry{Command: command, ReportID: res.ReportID, Action: runlog.ActionDiscrepancy,
			Details: d.Error()})
	}
	w.record(entries...)
	return res, nil
}
