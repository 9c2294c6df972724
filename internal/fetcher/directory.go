package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/collectivites/m57/internal/ledger"
	"github.com/collectivites/m57/internal/model"
)

// DefaultDirectoryURL is the records endpoint of the consolidated OFGL
// municipal dataset, which carries population and population band.
const DefaultDirectoryURL = "https://data.ofgl.fr/api/explore/v2.1/catalog/datasets/ofgl-base-communes-consolidee/records"

type communeRecord struct {
	Siren   ledger.Scalar `json:"siren"`
	Name    ledger.Scalar `json:"com_name"`
	INSEE   ledger.Scalar `json:"insee"`
	Ptot    ledger.Scalar `json:"ptot"`
	Band    ledger.Scalar `json:"tranche_population"`
	DepName ledger.Scalar `json:"dep_name"`
	RegName ledger.Scalar `json:"reg_name"`
}

func (r communeRecord) commune() model.Commune {
	return model.Commune{
		SIREN:      string(r.Siren),
		Name:       string(r.Name),
		INSEE:      string(r.INSEE),
		Population: r.Ptot.Int(),
		Band:       string(r.Band),
		Department: string(r.DepName),
		Region:     string(r.RegName),
	}
}

type communePage struct {
	TotalCount int             `json:"total_count"`
	Results    []communeRecord `json:"results"`
}

func (c *Client) directory(ctx context.Context, q url.Values) ([]communeRecord, error) {
	u, err := url.Parse(c.cfg.DirectoryURL)
	if err != nil {
		return nil, fmt.Errorf("parsing directory URL: %w", err)
	}
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return nil, err
	}
	var page communePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", u, err)
	}
	return page.Results, nil
}

// Commune looks siren up in the directory for year.
func (c *Client) Commune(ctx context.Context, siren string, year int) (model.Commune, error) {
	q := url.Values{}
	q.Set("limit", "1")
	q.Add("refine", "siren:"+siren)
	q.Add("refine", "exer:"+strconv.Itoa(year))

	recs, err := c.directory(ctx, q)
	if err != nil {
		return model.Commune{}, fmt.Errorf("looking up %s %d: %w", siren, year, err)
	}
	if len(recs) == 0 {
		return model.Commune{}, fmt.Errorf("commune %s %d: %w", siren, year, ErrNoRecords)
	}
	com := recs[0].commune()
	if com.SIREN == "" {
		com.SIREN = siren
	}
	return com, nil
}

// Band lists the communes of a population band for year, each SIREN once,
// in directory order.
func (c *Client) Band(ctx context.Context, band string, year int) ([]model.Commune, error) {
	var out []model.Commune
	seen := make(map[string]bool)
	for offset := 0; ; offset += c.cfg.PageSize {
		if offset+c.cfg.PageSize > maxOffset {
			c.log.Warn("result window exhausted, band truncated",
				zap.String("band", band), zap.Int("year", year), zap.Int("communes", len(out)))
			break
		}
		q := url.Values{}
		q.Set("select", "siren,com_name,ptot")
		q.Add("refine", "tranche_population:"+band)
		q.Add("refine", "exer:"+strconv.Itoa(year))
		q.Set("group_by", "siren,com_name,ptot")
		q.Set("limit", strconv.Itoa(c.cfg.PageSize))
		q.Set("offset", strconv.Itoa(offset))

		recs, err := c.directory(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("listing band %s %d: %w", band, year, err)
		}
		for _, r := range recs {
			com := r.commune()
			if com.SIREN == "" || seen[com.SIREN] {
				continue
			}
			seen[com.SIREN] = true
			com.Band = band
			out = append(out, com)
		}
		if len(recs) < c.cfg.PageSize {
			break
		}
	}

	c.log.Info("band listed", zap.String("band", band), zap.Int("year", year), zap.Int("communes", len(out)))
	return out, nil
}
