package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collectivites/m57/internal/commands"
)

const testSIREN = "217500016"

// ledgerCSV builds a small ledger: one principal budget with revenue,
// expense, a loan and equipment spending, plus one annex line.
func ledgerCSV(year string) string {
	return "compte,obnetcre,obnetdeb,sd,sc,cbudg,siren,lbudg,exer,population\n" +
		"7311,1000.00,,,,1," + testSIREN + ",VILLE DE TEST," + year + ",12000\n" +
		"6411,,600.00,,,1," + testSIREN + ",VILLE DE TEST," + year + ",12000\n" +
		"1641,200.00,50.00,,5000.00,1," + testSIREN + ",VILLE DE TEST," + year + ",12000\n" +
		"2313,,300.00,300.00,,1," + testSIREN + ",VILLE DE TEST," + year + ",12000\n" +
		"7061,999.00,,,,2," + testSIREN + ",VILLE DE TEST - EAU," + year + ",12000\n"
}

func runM57(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
