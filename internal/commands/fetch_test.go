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

	"github.com/collectivites/m57/internal/config"
	"github.com/collectivites/m57/internal/ledger"
)

func ledgerAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "2023") {
			_, _ = w.Write([]byte(`{"total_count": 0, "results": []}`))
			return
		}
		assert.Equal(t, "siren="+testSIREN, r.URL.Query().Get("where"))
		_, _ = w.Write([]byte(`{"total_count": 2, "results": [
			{"compte": "7311", "obnetcre": 1000, "cbudg": "1", "siren": "` + testSIREN + `", "lbudg": "VILLE", "exer": 2023},
			{"compte": "6411", "obnetdeb": "600", "cbudg": 1, "siren": ` + testSIREN + `, "lbudg": "VILLE", "exer": "2023"}
		]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_WritesLedger(t *testing.T) {
	srv := ledgerAPI(t)
	t.Setenv(config.EnvBaseURL, srv.URL+"/{year}/records")
	dir := t.TempDir()

	out, err := runM57(t, "fetch", "--repo", dir, "--siren", testSIREN, "--year", "2022", "--year", "2023")
	require.NoError(t, err)
	assert.Contains(t, out, "Fetched 2 lines")
	assert.NotContains(t, out, "2022 into")

	f, err := os.Open(filepath.Join(dir, "import", testSIREN+"-2023.csv"))
	require.NoError(t, err)
	defer f.Close()
	lines, err := ledger.ReadLines(f)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "7311", lines[0].AccountCode)
	assert.Equal(t, "600.00", lines[1].Debit.StringFixed(2))

	_, err = os.Stat(filepath.Join(dir, "import", testSIREN+"-2022.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestFetch_DefaultsToConfiguredSIREN(t *testing.T) {
	srv := ledgerAPI(t)
	t.Setenv(config.EnvBaseURL, srv.URL+"/{year}/records")
	t.Setenv(config.EnvSIREN, testSIREN)
	dir := t.TempDir()

	_, err := runM57(t, "fetch", "--repo", dir, "--year", "2023")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "import", testSIREN+"-2023.csv"))
	assert.NoError(t, err)
}

func TestFetch_Errors(t *testing.T) {
	srv := ledgerAPI(t)
	t.Setenv(config.EnvBaseURL, srv.URL+"/{year}/records")
	dir := t.TempDir()

	_, err := runM57(t, "fetch", "--repo", dir, "--siren", "123", "--year", "2023")
	assert.ErrorContains(t, err, "invalid SIREN")

	_, err = runM57(t, "fetch", "--repo", dir, "--siren", testSIREN)
	assert.ErrorContains(t, err, "--year")

	_, err = runM57(t, "fetch", "--repo", dir, "--siren", testSIREN, "--year", "2019")
	assert.ErrorContains(t, err, "no ledger records")
}
