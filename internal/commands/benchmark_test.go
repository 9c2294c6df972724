package commands_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectivites/m57/internal/benchmark"
	"github.com/collectivites/m57/internal/config"
)

const peerSIREN = "200000001"

// stratumAPI serves both the OFGL directory and the 2023 balance dataset.
func stratumAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case r.URL.Path == "/communes/records" && q.Get("group_by") != "":
			assert.Contains(t, q["refine"], "tranche_population:5")
			if q.Get("offset") != "0" {
				_, _ = w.Write([]byte(`{"total_count": 2, "results": []}`))
				return
			}
			_, _ = w.Write([]byte(`{"total_count": 2, "results": [
				{"siren": "` + testSIREN + `", "com_name": "Ville de Test", "ptot": 1000},
				{"siren": "` + peerSIREN + `", "com_name": "Voisine", "ptot": "2000"}
			]}`))
		case r.URL.Path == "/communes/records":
			if !assert.Contains(t, q["refine"], "siren:"+testSIREN) {
				_, _ = w.Write([]byte(`{"total_count": 0, "results": []}`))
				return
			}
			_, _ = w.Write([]byte(`{"total_count": 1, "results": [
				{"siren": "` + testSIREN + `", "com_name": "Ville de Test", "ptot": 1000, "tranche_population": 5}
			]}`))
		case strings.HasPrefix(r.URL.Path, "/2023/"):
			siren := strings.TrimPrefix(q.Get("where"), "siren=")
			credit := "1000"
			if siren == peerSIREN {
				credit = "3000"
			}
			_, _ = w.Write([]byte(`{"total_count": 2, "results": [
				{"compte": "7311", "obnetcre": ` + credit + `, "cbudg": "1", "siren": "` + siren + `", "exer": 2023},
				{"compte": "7061", "obnetcre": 999, "cbudg": "2", "siren": "` + siren + `", "exer": 2023}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	t.Setenv(config.EnvBaseURL, srv.URL+"/{year}/records")
	t.Setenv(config.EnvDirectoryURL, srv.URL+"/communes/records")
	return srv
}

func TestBenchmark_WritesComparison(t *testing.T) {
	stratumAPI(t)
	dir := t.TempDir()

	out, err := runM57(t, "benchmark", "--repo", dir, "--siren", testSIREN, "--year", "2023")
	require.NoError(t, err)
	assert.Contains(t, out, "Ville de Test 2023, band 5: 2 of 2 communes sampled")
	assert.Contains(t, out, "7311")
	assert.Contains(t, out, "-50.0%")

	c, err := benchmark.Read(filepath.Join(dir, "reports", testSIREN+"-2023-benchmark.json"))
	require.NoError(t, err)
	assert.Equal(t, 1000, c.Commune.Population)
	require.Len(t, c.Rows, 1, "annex budget lines are left out")
	r := c.Rows[0]
	assert.Equal(t, "2000.00", r.PeerMean.StringFixed(2))
	assert.Equal(t, "-1000.00", r.Gap.StringFixed(2))
	assert.Equal(t, "1.00", r.PerInhabitant.StringFixed(2))
	assert.Equal(t, "1.25", r.PeerPerInhabitant.StringFixed(2))
	assert.NotEmpty(t, r.Label)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "run-log.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "benchmarked")
}

func TestBenchmark_Errors(t *testing.T) {
	stratumAPI(t)
	dir := t.TempDir()

	_, err := runM57(t, "benchmark", "--repo", dir, "--siren", "12", "--year", "2023")
	assert.ErrorContains(t, err, "invalid SIREN")

	_, err = runM57(t, "benchmark", "--repo", dir, "--siren", testSIREN)
	assert.ErrorContains(t, err, "--year")
}
