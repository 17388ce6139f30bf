package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elharel648/CalmParentApp-sub000/internal/testutil"
)

// testConfig writes a config that keeps the cache inside the test's temp dir.
func testConfig(t *testing.T) (path, cacheDir string) {
	t.Helper()
	dir := t.TempDir()
	cacheDir = filepath.Join(dir, "cache")
	path = filepath.Join(dir, "growth.toml")
	testutil.WriteFile(t, path, fmt.Sprintf("[output]\ncolor = false\n\n[cache]\ndir = '%s'\n", cacheDir))
	return path, cacheDir
}

// runApp runs the CLI with a fresh test config and returns stdout and stderr.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfgPath, _ := testConfig(t)
	return runAppWithConfig(t, cfgPath, args...)
}

func runAppWithConfig(t *testing.T, cfgPath string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr

	full := append([]string{"growth", "-c", cfgPath, "--no-color"}, args...)
	err := app.Run(full)
	return stdout.String(), stderr.String(), err
}

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m), "output: %s", s)
	return m
}

func TestPercentileCommand(t *testing.T) {
	t.Run("explicit age", func(t *testing.T) {
		out, _, err := runApp(t, "-f", "json", "percentile", "--sex", "female", "--metric", "weight", "--value", "7.3", "--age", "6")
		require.NoError(t, err)
		m := decodeJSON(t, out)
		assert.Equal(t, 50.0, m["percentile"])
		assert.Equal(t, 6.0, m["age_used"])
		assert.Equal(t, "Normal", m["status"].(map[string]any)["label"])
	})

	t.Run("age from dates", func(t *testing.T) {
		out, _, err := runApp(t, "-f", "json", "percentile", "-s", "boy", "-m", "wfa", "--value", "7.9",
			"--birth-date", "2024-01-15", "--measured-on", "2024-07-15")
		require.NoError(t, err)
		m := decodeJSON(t, out)
		assert.Equal(t, 50.0, m["percentile"])
		assert.InDelta(t, 5.98, m["age_months"], 1e-2)
	})

	t.Run("text output", func(t *testing.T) {
		out, _, err := runApp(t, "percentile", "--sex", "male", "--metric", "length", "--value", "53.4", "--age", "0")
		require.NoError(t, err)
		assert.Contains(t, out, "Growth Percentile")
		assert.Contains(t, out, "97.0")
		assert.Contains(t, out, "High")
	})

	t.Run("hebrew labels", func(t *testing.T) {
		out, _, err := runApp(t, "--locale", "he", "-f", "json", "percentile", "--sex", "female", "--metric", "weight", "--value", "7.3", "--age", "6")
		require.NoError(t, err)
		assert.Equal(t, "תקין", decodeJSON(t, out)["status"].(map[string]any)["label"])
	})

	t.Run("negative age clamps to birth", func(t *testing.T) {
		args := []string{"-f", "json", "percentile", "--sex", "male", "--metric", "weight", "--value", "3.3"}
		out, _, err := runApp(t, append(args, "--age=-5")...)
		require.NoError(t, err)
		negative := decodeJSON(t, out)

		out, _, err = runApp(t, append(args, "--age", "0")...)
		require.NoError(t, err)
		birth := decodeJSON(t, out)

		assert.Equal(t, 50.0, negative["percentile"])
		assert.Equal(t, 0.0, negative["age_used"])
		assert.Equal(t, birth["percentile"], negative["percentile"])
		assert.Equal(t, birth["status"], negative["status"])
	})

	t.Run("invalid value", func(t *testing.T) {
		_, _, err := runApp(t, "percentile", "--sex", "female", "--metric", "weight", "--value", "-1", "--age", "6")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "positive")
	})

	t.Run("missing age", func(t *testing.T) {
		_, _, err := runApp(t, "percentile", "--sex", "female", "--metric", "weight", "--value", "7")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "age_months or birth_date")
	})

	t.Run("required flags", func(t *testing.T) {
		_, _, err := runApp(t, "percentile", "--sex", "female")
		assert.Error(t, err)
	})
}

func TestStatusCommand(t *testing.T) {
	tests := []struct {
		arg    string
		locale string
		want   string
	}{
		{"50", "en", "Normal"},
		{"2.9", "en", "Very Low"},
		{"3", "en", "Low"},
		{"85", "en", "Normal"},
		{"85.1", "en", "High"},
		{"97.5", "en", "Very High"},
		{"90", "he", "גבוה"},
	}
	for _, tt := range tests {
		t.Run(tt.arg+"/"+tt.locale, func(t *testing.T) {
			out, _, err := runApp(t, "--locale", tt.locale, "-f", "json", "status", tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decodeJSON(t, out)["label"])
		})
	}

	t.Run("not a number", func(t *testing.T) {
		_, _, err := runApp(t, "status", "abc")
		assert.Error(t, err)
	})

	t.Run("missing argument", func(t *testing.T) {
		_, _, err := runApp(t, "status")
		assert.Error(t, err)
	})
}

func TestBandsCommand(t *testing.T) {
	out, _, err := runApp(t, "-f", "json", "bands")
	require.NoError(t, err)

	var bands []bandView
	require.NoError(t, json.Unmarshal([]byte(out), &bands))
	require.Len(t, bands, 5)
	assert.Equal(t, "[15, 85]", bands[2].Range)
	assert.Equal(t, "Normal", bands[2].Label)
	assert.Equal(t, "(97, 100]", bands[4].Range)

	text, _, err := runApp(t, "bands")
	require.NoError(t, err)
	assert.Contains(t, text, "Status Bands")
	assert.Contains(t, text, "(85, 97]")
}

func TestReferenceCommand(t *testing.T) {
	t.Run("single age", func(t *testing.T) {
		out, _, err := runApp(t, "-f", "json", "reference", "--sex", "female", "--metric", "weight", "--age", "6")
		require.NoError(t, err)

		var data referenceData
		require.NoError(t, json.Unmarshal([]byte(out), &data))
		assert.Equal(t, "kg", data.Unit)
		require.Len(t, data.Rows, 1)
		assert.Equal(t, 6, data.Rows[0].AgeMonths)
		assert.Equal(t, 7.3, data.Rows[0].P50)
	})

	t.Run("all ages", func(t *testing.T) {
		out, _, err := runApp(t, "-f", "json", "reference", "--sex", "male", "--metric", "hc")
		require.NoError(t, err)

		var data referenceData
		require.NoError(t, json.Unmarshal([]byte(out), &data))
		assert.Len(t, data.Rows, 25)
	})

	t.Run("markdown", func(t *testing.T) {
		out, _, err := runApp(t, "-f", "markdown", "ref", "-s", "f", "-m", "weight", "-a", "6")
		require.NoError(t, err)
		assert.Contains(t, out, "| Age | P3 | P15 | P50 | P85 | P97 |")
		assert.Contains(t, out, "| 6 |")
	})

	t.Run("age out of range", func(t *testing.T) {
		_, _, err := runApp(t, "reference", "--sex", "female", "--metric", "weight", "--age", "30")
		assert.Error(t, err)
	})

	t.Run("unknown metric", func(t *testing.T) {
		_, _, err := runApp(t, "reference", "--sex", "female", "--metric", "bmi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--metric")
	})
}

func TestCurveCommand(t *testing.T) {
	out, _, err := runApp(t, "-f", "json", "curve", "--sex", "female", "--metric", "weight", "--percentile", "50")
	require.NoError(t, err)

	var points []curvePoint
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 25)
	assert.Equal(t, 0, points[0].AgeMonths)
	assert.InDelta(t, 7.3, points[6].Value, 1e-9)

	_, _, err = runApp(t, "curve", "--sex", "female", "--metric", "weight", "--percentile", "120")
	assert.Error(t, err)
}

func TestAssessCommand(t *testing.T) {
	files := testutil.WriteBatch(t, t.TempDir())

	t.Run("csv with rejected record", func(t *testing.T) {
		out, stderr, err := runApp(t, "-f", "markdown", "assess", files["csv"])
		require.NoError(t, err)
		assert.Contains(t, out, "# Growth Assessment")
		assert.Contains(t, out, "## Trends")
		assert.Contains(t, stderr, "WARNING: 1 of 10 measurements rejected")
	})

	t.Run("strict", func(t *testing.T) {
		_, _, err := runApp(t, "assess", "--strict", files["csv"])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "record 10")
	})

	t.Run("json summary", func(t *testing.T) {
		out, _, err := runApp(t, "-f", "json", "assess", files["yaml"])
		require.NoError(t, err)
		summary := decodeJSON(t, out)["summary"].(map[string]any)
		assert.Equal(t, 2.0, summary["total"])
		assert.Equal(t, 1.0, summary["high"])
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "batch.txt")
		testutil.WriteFile(t, path, "x")
		_, _, err := runApp(t, "assess", path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := runApp(t, "assess", filepath.Join(t.TempDir(), "none.csv"))
		assert.Error(t, err)
	})

	t.Run("output file", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "report.md")
		out, _, err := runApp(t, "-f", "markdown", "-o", dest, "assess", files["json"])
		require.NoError(t, err)
		assert.Empty(t, out)
		require.True(t, testutil.FileExists(dest))
		assert.Contains(t, testutil.ReadFile(t, dest), "# Growth Assessment")
	})
}

func TestAssessCache(t *testing.T) {
	files := testutil.WriteBatch(t, t.TempDir())
	cfgPath, cacheDir := testConfig(t)

	first, _, err := runAppWithConfig(t, cfgPath, "-f", "json", "assess", files["yaml"])
	require.NoError(t, err)
	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// A cache hit replays the stored report, run id included.
	second, _, err := runAppWithConfig(t, cfgPath, "-f", "json", "assess", files["yaml"])
	require.NoError(t, err)
	assert.Equal(t, first, second)

	fresh, _, err := runAppWithConfig(t, cfgPath, "-f", "json", "assess", "--no-cache", files["yaml"])
	require.NoError(t, err)
	assert.NotEqual(t, decodeJSON(t, first)["run_id"], decodeJSON(t, fresh)["run_id"])

	refreshed, _, err := runAppWithConfig(t, cfgPath, "-f", "json", "assess", "--refresh", files["yaml"])
	require.NoError(t, err)
	assert.NotEqual(t, decodeJSON(t, first)["run_id"], decodeJSON(t, refreshed)["run_id"])

	// Other settings produce a different key.
	_, _, err = runAppWithConfig(t, cfgPath, "-f", "markdown", "assess", files["yaml"])
	require.NoError(t, err)
	entries, err = os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, _, err = runAppWithConfig(t, cfgPath, "-f", "json", "assess", "--clear-cache", files["yaml"])
	require.NoError(t, err)
	entries, err = os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the fresh report remains")

	// Reports with rejected records are never cached.
	_, _, err = runAppWithConfig(t, cfgPath, "assess", files["csv"])
	require.NoError(t, err)
	entries, err = os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAssessCacheSkipsClockDependentAges(t *testing.T) {
	cfgPath, cacheDir := testConfig(t)
	path := filepath.Join(t.TempDir(), "undated.csv")
	// No measured_on: the age is taken from today's date.
	testutil.WriteFile(t, path, "id,sex,metric,value,birth_date\nb1,male,weight,7.9,2024-01-15\n")

	first, _, err := runAppWithConfig(t, cfgPath, "-f", "json", "assess", path)
	require.NoError(t, err)
	second, _, err := runAppWithConfig(t, cfgPath, "-f", "json", "assess", path)
	require.NoError(t, err)
	assert.NotEqual(t, decodeJSON(t, first)["run_id"], decodeJSON(t, second)["run_id"], "each run recomputes the report")

	entries, err := os.ReadDir(cacheDir)
	if err == nil {
		assert.Empty(t, entries)
	} else {
		assert.True(t, os.IsNotExist(err))
	}

	// The same record with a fixed measurement date is cached.
	testutil.WriteFile(t, path, "id,sex,metric,value,birth_date,measured_on\nb1,male,weight,7.9,2024-01-15,2024-07-15\n")
	_, _, err = runAppWithConfig(t, cfgPath, "-f", "json", "assess", path)
	require.NoError(t, err)
	entries, err = os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConfigCommands(t *testing.T) {
	cfgPath, _ := testConfig(t)

	t.Run("validate", func(t *testing.T) {
		out, _, err := runAppWithConfig(t, cfgPath, "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration valid: "+cfgPath)
	})

	t.Run("show", func(t *testing.T) {
		out, _, err := runAppWithConfig(t, cfgPath, "config", "show")
		require.NoError(t, err)
		assert.Contains(t, out, "# Configuration from: "+cfgPath)
		assert.Contains(t, out, "[assess]")
		assert.Contains(t, out, "crossing_threshold = 25")
	})

	bad := filepath.Join(t.TempDir(), "growth.toml")
	testutil.WriteFile(t, bad, "[output]\nlocale = \"fr\"\n")

	t.Run("validate invalid", func(t *testing.T) {
		out, _, err := runAppWithConfig(t, bad, "config", "validate")
		require.Error(t, err)
		assert.Contains(t, out, "Configuration validation failed")
		assert.Contains(t, out, "output.locale")
	})

	t.Run("other commands reject invalid config", func(t *testing.T) {
		_, _, err := runAppWithConfig(t, bad, "status", "50")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestMCPManifestCommand(t *testing.T) {
	out, _, err := runApp(t, "mcp", "manifest")
	require.NoError(t, err)
	m := decodeJSON(t, out)
	assert.Equal(t, "io.github.elharel648/growth", m["name"])
	assert.Equal(t, "0.0.0", m["version"])
}
