package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"regionping/internal/prober"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatHTML ExportFormat = "html"
)

// ParseFormat maps a user-supplied format name to an ExportFormat.
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatCSV, FormatJSON, FormatHTML:
		return ExportFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Exporter handles exporting run summaries to various formats
type Exporter struct {
	outputDir string
}

// NewExporter creates a new exporter instance
func NewExporter(outputDir string) *Exporter {
	return &Exporter{
		outputDir: outputDir,
	}
}

// WriteTable renders the human-readable summary table. Rows arrive already
// ordered (geography group, then region); regions without data render "n/a"
// so missing data is distinct from a true zero.
func WriteTable(w io.Writer, summaries []prober.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tSAMPLES\tMIN(ms)\tMAX(ms)\tAVG(ms)\tJITTER(ms)")

	geography := ""
	for _, s := range summaries {
		if s.Geography != geography {
			geography = s.Geography
			fmt.Fprintf(tw, "%s\t\t\t\t\t\n", geography)
		}

		if !s.Valid {
			fmt.Fprintf(tw, "  %s\t0\tn/a\tn/a\tn/a\tn/a\n", s.Region)
			continue
		}
		fmt.Fprintf(tw, "  %s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
			s.Region, s.Samples, s.MinMs, s.MaxMs, s.AvgMs, s.JitterMs)
	}

	tw.Flush()
}

// Export writes the run summary to the requested formats.
func (e *Exporter) Export(result *prober.RunResult, summaries []prober.Summary, formats []ExportFormat) error {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	baseName := fmt.Sprintf("regionping_%s", timestamp)

	for _, format := range formats {
		var err error
		switch format {
		case FormatCSV:
			err = e.exportCSV(summaries, baseName)
		case FormatJSON:
			err = e.exportJSON(result, summaries, baseName)
		case FormatHTML:
			err = e.exportHTML(result, summaries, baseName)
		default:
			return fmt.Errorf("unsupported export format: %s", format)
		}
		if err != nil {
			return fmt.Errorf("failed to export as %s: %w", format, err)
		}
	}

	return nil
}

// exportCSV exports summaries to CSV format
func (e *Exporter) exportCSV(summaries []prober.Summary, baseName string) error {
	filename := filepath.Join(e.outputDir, baseName+".csv")
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Region",
		"Geography",
		"Samples",
		"Minimum (ms)",
		"Maximum (ms)",
		"Average (ms)",
		"Jitter (ms)",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, s := range summaries {
		row := []string{
			s.Region,
			s.Geography,
			fmt.Sprintf("%d", s.Samples),
			"", "", "", "",
		}
		if s.Valid {
			row[3] = fmt.Sprintf("%.2f", s.MinMs)
			row[4] = fmt.Sprintf("%.2f", s.MaxMs)
			row[5] = fmt.Sprintf("%.2f", s.AvgMs)
			row[6] = fmt.Sprintf("%.2f", s.JitterMs)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	fmt.Printf("CSV report exported to: %s\n", filename)
	return nil
}

// summaryJSON is the machine-readable row shape; the stats pointers are null
// for regions that collected no data.
type summaryJSON struct {
	Region    string   `json:"region"`
	Geography string   `json:"geography"`
	Samples   int      `json:"samples"`
	MinMs     *float64 `json:"minimum_ms"`
	MaxMs     *float64 `json:"maximum_ms"`
	AvgMs     *float64 `json:"average_ms"`
	JitterMs  *float64 `json:"jitter_ms"`
}

// exportJSON exports the run and its summaries to JSON format
func (e *Exporter) exportJSON(result *prober.RunResult, summaries []prober.Summary, baseName string) error {
	filename := filepath.Join(e.outputDir, baseName+".json")

	rows := make([]summaryJSON, 0, len(summaries))
	for _, s := range summaries {
		row := summaryJSON{
			Region:    s.Region,
			Geography: s.Geography,
			Samples:   s.Samples,
		}
		if s.Valid {
			s := s
			row.MinMs = &s.MinMs
			row.MaxMs = &s.MaxMs
			row.AvgMs = &s.AvgMs
			row.JitterMs = &s.JitterMs
		}
		rows = append(rows, row)
	}

	output := map[string]interface{}{
		"run_info": map[string]interface{}{
			"start_time": result.StartTime.Format(time.RFC3339),
			"end_time":   result.EndTime.Format(time.RFC3339),
			"rounds":     result.Rounds,
			"regions":    len(result.Endpoints),
			"cancelled":  result.Cancelled,
		},
		"summaries": rows,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return err
	}

	fmt.Printf("JSON report exported to: %s\n", filename)
	return nil
}
