package interfaces

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"chargepoint-analytics/internal/analytics/domain/aggregation"
)

const (
	sampleLayout = "2006-01-02 15:04:05"
	dayLayout    = "2006-01-02"
)

// BuildViewCSV encodes an aggregated view as CSV: Fecha reintroduced as
// an explicit first column, one row per index entry, absent cells empty.
func BuildViewCSV(view *aggregation.View) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := append([]string{"Fecha"}, view.Devices...)
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	layout := indexLayout(view)
	record := make([]string, len(header))
	for i, ts := range view.Index {
		record[0] = ts.Format(layout)
		for j := range view.Devices {
			cell := view.Cells[i][j]
			if cell.Valid {
				record[j+1] = formatKWh(cell.KWh)
			} else {
				record[j+1] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildViewXLSX renders a workbook with a summary sheet and the data table.
func BuildViewXLSX(view *aggregation.View, summary aggregation.Summary) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	dataSheet := "data"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(dataSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Consumption Report")
	_ = f.SetCellValue(summarySheet, "A3", "Mode")
	_ = f.SetCellValue(summarySheet, "B3", string(view.Mode))
	_ = f.SetCellValue(summarySheet, "A4", "Devices")
	_ = f.SetCellValue(summarySheet, "B4", summary.DeviceCount)
	_ = f.SetCellValue(summarySheet, "A5", "Total (kWh)")
	_ = f.SetCellValue(summarySheet, "B5", summary.TotalKWh)
	_ = f.SetCellValue(summarySheet, "A6", "Mean (kWh)")
	_ = f.SetCellValue(summarySheet, "B6", summary.MeanKWh)

	layout := indexLayout(view)
	_ = f.SetCellValue(dataSheet, "A1", "Fecha")
	for j, device := range view.Devices {
		cell, _ := excelize.CoordinatesToCellName(j+2, 1)
		_ = f.SetCellValue(dataSheet, cell, device)
	}
	for i, ts := range view.Index {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetCellValue(dataSheet, cell, ts.Format(layout))
		for j := range view.Devices {
			sample := view.Cells[i][j]
			if !sample.Valid {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+2, i+2)
			_ = f.SetCellValue(dataSheet, cell, sample.KWh)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildViewPDF renders a minimal PDF report for a view.
func BuildViewPDF(view *aggregation.View, summary aggregation.Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Consumption Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Mode: %s", view.Mode))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Devices: %d", summary.DeviceCount))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total (kWh): %.2f", summary.TotalKWh))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Mean (kWh): %.2f", summary.MeanKWh))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	layout := indexLayout(view)
	columnWidth := 150.0 / float64(len(view.Devices)+1)
	if columnWidth > 40 {
		columnWidth = 40
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(40, 6, "Fecha", "1", 0, "C", false, 0, "")
	for _, device := range view.Devices {
		pdf.CellFormat(columnWidth, 6, device, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for i, ts := range view.Index {
		pdf.CellFormat(40, 6, ts.Format(layout), "1", 0, "C", false, 0, "")
		for j := range view.Devices {
			value := ""
			if cell := view.Cells[i][j]; cell.Valid {
				value = fmt.Sprintf("%.3f", cell.KWh)
			}
			pdf.CellFormat(columnWidth, 6, value, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func indexLayout(view *aggregation.View) string {
	if view.Granularity == aggregation.GranularityDay {
		return dayLayout
	}
	return sampleLayout
}

func formatKWh(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
