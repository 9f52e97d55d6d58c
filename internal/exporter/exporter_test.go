package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regionping/internal/prober"
)

func sampleRun() (*prober.RunResult, []prober.Summary) {
	result := &prober.RunResult{
		Endpoints: []prober.Endpoint{
			{Name: "eastus", Geography: "Americas"},
			{Name: "westeurope", Geography: "Europe"},
		},
		Series: map[string][]float64{
			"eastus":     {40, 60},
			"westeurope": {},
		},
		Rounds:    2,
		StartTime: time.Now().Add(-time.Minute),
		EndTime:   time.Now(),
	}
	return result, prober.Summarize(result)
}

func findExport(t *testing.T, dir, ext string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "regionping_*"+ext))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	return matches[0]
}

func TestWriteTable(t *testing.T) {
	_, summaries := sampleRun()

	var sb strings.Builder
	WriteTable(&sb, summaries)
	out := sb.String()

	assert.Contains(t, out, "REGION")
	assert.Contains(t, out, "Americas")
	assert.Contains(t, out, "eastus")
	assert.Contains(t, out, "50.00") // average of 40 and 60
	// No-data region renders n/a, not zeros.
	assert.Contains(t, out, "westeurope")
	assert.Contains(t, out, "n/a")
}

func TestExportCSV(t *testing.T) {
	result, summaries := sampleRun()
	dir := t.TempDir()

	exp := NewExporter(dir)
	require.NoError(t, exp.Export(result, summaries, []ExportFormat{FormatCSV}))

	file, err := os.Open(findExport(t, dir, ".csv"))
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 regions

	assert.Equal(t, "Region", rows[0][0])
	assert.Equal(t, "eastus", rows[1][0])
	assert.Equal(t, "40.00", rows[1][3])
	assert.Equal(t, "60.00", rows[1][4])
	assert.Equal(t, "50.00", rows[1][5])

	// No-data region exports empty stat cells.
	assert.Equal(t, "westeurope", rows[2][0])
	assert.Equal(t, "0", rows[2][2])
	assert.Equal(t, "", rows[2][3])
}

func TestExportJSONNullsForNoData(t *testing.T) {
	result, summaries := sampleRun()
	dir := t.TempDir()

	exp := NewExporter(dir)
	require.NoError(t, exp.Export(result, summaries, []ExportFormat{FormatJSON}))

	data, err := os.ReadFile(findExport(t, dir, ".json"))
	require.NoError(t, err)

	var out struct {
		RunInfo struct {
			Rounds int `json:"rounds"`
		} `json:"run_info"`
		Summaries []struct {
			Region  string   `json:"region"`
			Samples int      `json:"samples"`
			MinMs   *float64 `json:"minimum_ms"`
			AvgMs   *float64 `json:"average_ms"`
		} `json:"summaries"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, 2, out.RunInfo.Rounds)
	require.Len(t, out.Summaries, 2)

	require.Equal(t, "eastus", out.Summaries[0].Region)
	require.NotNil(t, out.Summaries[0].AvgMs)
	assert.InDelta(t, 50.0, *out.Summaries[0].AvgMs, 1e-9)

	require.Equal(t, "westeurope", out.Summaries[1].Region)
	assert.Nil(t, out.Summaries[1].MinMs)
	assert.Nil(t, out.Summaries[1].AvgMs)
}

func TestExportHTML(t *testing.T) {
	result, summaries := sampleRun()
	dir := t.TempDir()

	exp := NewExporter(dir)
	require.NoError(t, exp.Export(result, summaries, []ExportFormat{FormatHTML}))

	data, err := os.ReadFile(findExport(t, dir, ".html"))
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "eastus")
	assert.Contains(t, html, "50.00")
	assert.Contains(t, html, "n/a")
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"csv", "json", "html"} {
		format, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, ExportFormat(valid), format)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
