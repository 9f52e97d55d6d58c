package exporter

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"regionping/internal/prober"
)

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Region Latency Report</title>
<style>
body { font-family: -apple-system, Segoe UI, sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
.meta { color: #666; margin-bottom: 1.5em; }
table { border-collapse: collapse; min-width: 40em; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: right; }
th { background: #4472c4; color: #fff; }
td.name { text-align: left; }
tr.nodata td { color: #999; font-style: italic; }
</style>
</head>
<body>
<h1>Region Latency Report</h1>
<div class="meta">
Generated {{.GeneratedAt}} &middot; {{.Rounds}} rounds over {{.Regions}} regions{{if .Cancelled}} &middot; run cancelled early{{end}}
</div>
<table>
<tr><th>Region</th><th>Geography</th><th>Samples</th><th>Min (ms)</th><th>Max (ms)</th><th>Avg (ms)</th><th>Jitter (ms)</th></tr>
{{range .Rows}}{{if .Valid}}<tr>
<td class="name">{{.Region}}</td><td class="name">{{.Geography}}</td><td>{{.Samples}}</td><td>{{fmtMs .MinMs}}</td><td>{{fmtMs .MaxMs}}</td><td>{{fmtMs .AvgMs}}</td><td>{{fmtMs .JitterMs}}</td>
</tr>{{else}}<tr class="nodata">
<td class="name">{{.Region}}</td><td class="name">{{.Geography}}</td><td>0</td><td>n/a</td><td>n/a</td><td>n/a</td><td>n/a</td>
</tr>{{end}}
{{end}}</table>
</body>
</html>
`

// exportHTML renders the summary table as a static HTML page.
func (e *Exporter) exportHTML(result *prober.RunResult, summaries []prober.Summary, baseName string) error {
	filename := filepath.Join(e.outputDir, baseName+".html")
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	funcMap := template.FuncMap{
		"fmtMs": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"GeneratedAt": time.Now().Format("2006-01-02 15:04:05"),
		"Rounds":      result.Rounds,
		"Regions":     len(result.Endpoints),
		"Cancelled":   result.Cancelled,
		"Rows":        summaries,
	}
	if err := tmpl.Execute(file, data); err != nil {
		return err
	}

	fmt.Printf("HTML report exported to: %s\n", filename)
	return nil
}
