package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/mckp/core/metrics"
	"github.com/kilianp07/mckp/pkg/export"
)

const exampleInstance = `2 2 10
2 5
3 6
3 8
4 9
`

func writeInstance(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "example.txt")
	require.NoError(t, os.WriteFile(path, []byte(exampleInstance), 0o644))
	return path
}

// resetFlags restores flag defaults; cobra keeps values between executions.
func resetFlags() {
	cfgPath, logLevel, metricsAddr = "", "", ""
	solveAlgo, solveLPCheck = "dfs", false
	compareJSON, compareServe = false, false
	exportChannel, exportLP, exportFormat, exportOut = export.AllChannels, false, "csv", ""
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	resetFlags()
	t.Cleanup(resetFlags)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSolveCommand(t *testing.T) {
	out, err := execute(t, "solve", "--log-level", "error", "-a", "dp_rate", "--lp-check", writeInstance(t))
	require.NoError(t, err)
	assert.Contains(t, out, "dp_rate: rate 12")
	assert.Contains(t, out, "lp_simplex: rate 15.333")

	_, err = execute(t, "solve", "--log-level", "error", "-a", "annealing", writeInstance(t))
	assert.ErrorContains(t, err, "unknown strategy")
}

func TestCompareCommand_JSON(t *testing.T) {
	out, err := execute(t, "compare", "--log-level", "error", "--json", writeInstance(t))
	require.NoError(t, err)

	var cmp coremetrics.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	assert.Equal(t, "example", cmp.Instance)
	assert.True(t, cmp.Agreed)
	assert.Len(t, cmp.Runs, 5)
}

func TestCompareCommand_Table(t *testing.T) {
	out, err := execute(t, "compare", "--log-level", "error", writeInstance(t))
	require.NoError(t, err)
	assert.Contains(t, out, "example: 2 channels, budget 10, terms 4 -> 4 -> 4 (hull)")
	assert.Contains(t, out, "bb_breadth_first")
	assert.NotContains(t, out, "WARNING")
}

func TestExportCommand(t *testing.T) {
	out, err := execute(t, "export", "--channel", "1", writeInstance(t))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"channel,power,rate,on_hull", "1,3,4,true", "1,6,9,true"}, lines)

	dst := filepath.Join(t.TempDir(), "scatter.json")
	_, err = execute(t, "export", "--lp", "--format", "json", "-o", dst, writeInstance(t))
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	var pts []map[string]any
	require.NoError(t, json.Unmarshal(data, &pts))
	assert.Len(t, pts, 4)

	_, err = execute(t, "export", "--format", "xml", writeInstance(t))
	assert.Error(t, err)
}
