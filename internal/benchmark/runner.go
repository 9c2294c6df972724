package benchmark

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/collectivites/m57/internal/ledger"
	"github.com/collectivites/m57/internal/model"
)

var (
	// ErrNoBand is returned when the directory gives the commune no
	// population band.
	ErrNoBand = errors.New("commune has no population band")
	// ErrNoPeerData is returned when no commune of the band has a ledger.
	ErrNoPeerData = errors.New("no ledger found for the population band")
)

// Source provides the directory and the ledgers. fetcher.Client implements it.
type Source interface {
	Commune(ctx context.Context, siren string, year int) (model.Commune, error)
	Band(ctx context.Context, band string, year int) ([]model.Commune, error)
	FetchYear(ctx context.Context, siren string, year int) ([]model.LedgerLine, error)
}

// Options tune a Runner.
type Options struct {
	// MaxPeers caps the communes sampled from the band; 0 samples all.
	MaxPeers int
	// Concurrency bounds parallel ledger retrieval. Defaults to 3.
	Concurrency int
	// Scope selects the budget kept from each ledger. Defaults to the
	// principal budget.
	Scope  model.BudgetScope
	Labels Labeler
}

// Runner benchmarks communes against their population band.
type Runner struct {
	src  Source
	opts Options
	log  *zap.Logger
}

// New creates a Runner. A nil logger discards output.
func New(src Source, opts Options, log *zap.Logger) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	if opts.Scope == "" {
		opts.Scope = model.PrincipalBudget
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{src: src, opts: opts, log: log.Named("benchmark")}
}

// Run looks siren up, samples its band, averages the peers' net flows per
// account and compares the commune's own ledger with them. Peers whose
// ledger cannot be retrieved are skipped.
func (r *Runner) Run(ctx context.Context, siren string, year int) (Comparison, error) {
	com, err := r.src.Commune(ctx, siren, year)
	if err != nil {
		return Comparison{}, err
	}
	if com.Band == "" {
		return Comparison{}, fmt.Errorf("%s %d: %w", siren, year, ErrNoBand)
	}

	band, err := r.src.Band(ctx, com.Band, year)
	if err != nil {
		return Comparison{}, err
	}
	sample := band
	if r.opts.MaxPeers > 0 && len(sample) > r.opts.MaxPeers {
		sample = sample[:r.opts.MaxPeers]
	}

	peers, err := r.peers(ctx, sample, year)
	if err != nil {
		return Comparison{}, err
	}
	if len(peers) == 0 {
		return Comparison{}, fmt.Errorf("band %s %d: %w", com.Band, year, ErrNoPeerData)
	}

	lines, err := r.src.FetchYear(ctx, siren, year)
	if err != nil {
		return Comparison{}, err
	}
	target := ledger.Normalize(lines, r.opts.Scope)

	stats := Stats(peers)
	r.log.Info("band averaged",
		zap.String("siren", siren), zap.String("band", com.Band),
		zap.Int("band_size", len(band)), zap.Int("sampled", len(peers)), zap.Int("accounts", len(stats)))

	return Comparison{
		Commune:  com,
		Year:     year,
		BandSize: len(band),
		Sampled:  len(peers),
		Stats:    stats,
		Rows:     Rows(target, com.Population, stats, r.opts.Labels),
	}, nil
}

func (r *Runner) peers(ctx context.Context, sample []model.Commune, year int) ([]Peer, error) {
	found := make([]*Peer, len(sample))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, com := range sample {
		g.Go(func() error {
			lines, err := r.src.FetchYear(ctx, com.SIREN, year)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.log.Warn("peer skipped", zap.String("siren", com.SIREN), zap.Error(err))
				return nil
			}
			ix := ledger.Normalize(lines, r.opts.Scope)
			if ix.Empty() {
				return nil
			}
			found[i] = &Peer{SIREN: com.SIREN, Population: com.Population, Ledger: ix}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var peers []Peer
	for _, p := range found {
		if p != nil {
			peers = append(peers, *p)
		}
	}
	return peers, nil
}
