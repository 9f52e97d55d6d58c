package reporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"regionping/internal/prober"
)

// ExcelReporter generates Excel workbooks from run results
type ExcelReporter struct {
	file *excelize.File
}

// NewExcelReporter creates a new Excel reporter
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{
		file: excelize.NewFile(),
	}
}

// GenerateReport writes a workbook with a summary sheet and one raw-sample
// sheet per region that collected data.
func (r *ExcelReporter) GenerateReport(result *prober.RunResult, summaries []prober.Summary, outputPath string) error {
	r.file.DeleteSheet("Sheet1")

	if err := r.createSummarySheet(summaries); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	for _, ep := range result.Endpoints {
		series := result.Series[ep.Name]
		if len(series) == 0 {
			continue
		}
		if err := r.createSamplesSheet(ep.Name, series); err != nil {
			return fmt.Errorf("failed to create samples sheet: %w", err)
		}
	}

	if err := r.file.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// createSummarySheet creates the per-region overview sheet
func (r *ExcelReporter) createSummarySheet(summaries []prober.Summary) error {
	sheetName := "Summary"
	index, err := r.file.NewSheet(sheetName)
	if err != nil {
		return err
	}
	r.file.SetActiveSheet(index)

	r.file.SetColWidth(sheetName, "A", "B", 20)
	r.file.SetColWidth(sheetName, "C", "G", 14)

	headers := []string{"Region", "Geography", "Samples", "Min (ms)", "Max (ms)", "Avg (ms)", "Jitter (ms)"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		r.file.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := r.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	r.file.SetCellStyle(sheetName, "A1", fmt.Sprintf("%c1", 'A'+len(headers)-1), headerStyle)

	for i, s := range summaries {
		row := i + 2
		r.file.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.Region)
		r.file.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.Geography)
		r.file.SetCellValue(sheetName, fmt.Sprintf("C%d", row), s.Samples)
		if !s.Valid {
			for _, col := range []string{"D", "E", "F", "G"} {
				r.file.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), "n/a")
			}
			continue
		}
		r.file.SetCellValue(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("%.2f", s.MinMs))
		r.file.SetCellValue(sheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("%.2f", s.MaxMs))
		r.file.SetCellValue(sheetName, fmt.Sprintf("F%d", row), fmt.Sprintf("%.2f", s.AvgMs))
		r.file.SetCellValue(sheetName, fmt.Sprintf("G%d", row), fmt.Sprintf("%.2f", s.JitterMs))
	}

	return nil
}

// createSamplesSheet lists the raw latencies collected for one region
func (r *ExcelReporter) createSamplesSheet(region string, series []float64) error {
	sheetName := region
	if len(sheetName) > 31 { // Excel sheet name limit
		sheetName = sheetName[:31]
	}
	if _, err := r.file.NewSheet(sheetName); err != nil {
		return err
	}

	r.file.SetCellValue(sheetName, "A1", "Round")
	r.file.SetCellValue(sheetName, "B1", "Latency (ms)")

	for i, v := range series {
		row := i + 2
		r.file.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		r.file.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%.2f", v))
	}

	return nil
}
