package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"amc-backend/internal/models"
	"amc-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"
)

// BranchReportRow is one line of the AMC completion report.
type BranchReportRow struct {
	CustomerID   int                       `json:"customer_id"`
	CustomerName string                    `json:"customer_name"`
	BranchID     int                       `json:"branch_id"`
	BranchName   string                    `json:"branch_name"`
	Quarters     [models.QuarterCount]bool `json:"quarters"`
	Completed    int                       `json:"completed"`
	Breakdowns   int                       `json:"breakdowns"`
	LastService  string                    `json:"last_breakdown,omitempty"`
}

type AMCReport struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	Customers       int               `json:"customers"`
	Rows            []BranchReportRow `json:"rows"`
	QuartersDone    int               `json:"quarters_done"`
	QuartersTotal   int               `json:"quarters_total"`
	BreakdownsTotal int               `json:"breakdowns_total"`
}

// CompletionPercent is the share of scheduled quarters serviced across all branches.
func (r *AMCReport) CompletionPercent() float64 {
	if r.QuartersTotal == 0 {
		return 0
	}
	return float64(r.QuartersDone) * 100 / float64(r.QuartersTotal)
}

type ReportService struct {
	Customers  CustomerStore
	Breakdowns BreakdownStore
	clock      timeutil.Clock
}

func NewReportService(customers CustomerStore, breakdowns BreakdownStore, clock timeutil.Clock) *ReportService {
	if clock == nil {
		clock = timeutil.Now
	}
	return &ReportService{Customers: customers, Breakdowns: breakdowns, clock: clock}
}

// BuildAMCReport collects one row per branch, customers and branches in id order.
func (s *ReportService) BuildAMCReport(ctx context.Context) (*AMCReport, error) {
	customers, err := s.Customers.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &AMCReport{GeneratedAt: s.clock(), Customers: len(customers)}
	for _, c := range customers {
		for _, b := range c.Branches {
			entries, err := s.Breakdowns.ListByBranch(ctx, c.ID, b.ID)
			if err != nil {
				return nil, err
			}
			row := BranchReportRow{
				CustomerID:   c.ID,
				CustomerName: c.Name,
				BranchID:     b.ID,
				BranchName:   b.Name,
				Quarters:     b.Quarters,
				Completed:    b.CompletedQuarters(),
				Breakdowns:   len(entries),
			}
			if len(entries) > 0 {
				row.LastService = entries[0].ServiceDate
			}
			report.Rows = append(report.Rows, row)
			report.QuartersDone += row.Completed
			report.QuartersTotal += models.QuarterCount
			report.BreakdownsTotal += row.Breakdowns
		}
	}
	return report, nil
}

func quarterMark(done bool) string {
	if done {
		return "Done"
	}
	return "-"
}

// GenerateAMCReportPDF renders the report as an A4 landscape table.
func (s *ReportService) GenerateAMCReportPDF(report *AMCReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, "AMC Quarterly Service Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s IST", timeutil.FormatIST(report.GeneratedAt, "02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Customer", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, "Branch", "1", 0, "C", true, 0, "")
	for q := 1; q <= models.QuarterCount; q++ {
		pdf.CellFormat(20, 7, fmt.Sprintf("Q%d", q), "1", 0, "C", true, 0, "")
	}
	pdf.CellFormat(30, 7, "Completed", "1", 0, "C", true, 0, "")
	pdf.CellFormat(47, 7, "Breakdowns", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, row := range report.Rows {
		pdf.CellFormat(60, 6, row.CustomerName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, row.BranchName, "1", 0, "L", false, 0, "")
		for _, done := range row.Quarters {
			if done {
				pdf.SetFillColor(200, 255, 200)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
			pdf.CellFormat(20, 6, quarterMark(done), "1", 0, "C", true, 0, "")
		}
		pdf.CellFormat(30, 6, fmt.Sprintf("%d / %d", row.Completed, models.QuarterCount), "1", 0, "C", false, 0, "")
		breakdowns := fmt.Sprintf("%d", row.Breakdowns)
		if row.LastService != "" {
			breakdowns = fmt.Sprintf("%d (last %s)", row.Breakdowns, row.LastService)
		}
		pdf.CellFormat(47, 6, breakdowns, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Totals
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(92, 8, fmt.Sprintf("Customers: %d  Branches: %d", report.Customers, len(report.Rows)), "1", 0, "C", true, 0, "")
	pdf.CellFormat(92, 8, fmt.Sprintf("Quarters completed: %d / %d (%.0f%%)", report.QuartersDone, report.QuartersTotal, report.CompletionPercent()), "1", 0, "C", true, 0, "")
	pdf.CellFormat(93, 8, fmt.Sprintf("Breakdown services: %d", report.BreakdownsTotal), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const reportSheet = "AMC Report"

// GenerateAMCReportXLSX renders the report as a single-sheet workbook.
func (s *ReportService) GenerateAMCReportXLSX(report *AMCReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	headers := []string{"Customer ID", "Customer", "Branch ID", "Branch"}
	for q := 1; q <= models.QuarterCount; q++ {
		headers = append(headers, fmt.Sprintf("Q%d", q))
	}
	headers = append(headers, "Completed", "Breakdowns", "Last Breakdown")

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(reportSheet, cell, header)
		f.SetCellStyle(reportSheet, cell, cell, headerStyle)
	}

	for i, row := range report.Rows {
		values := []interface{}{row.CustomerID, row.CustomerName, row.BranchID, row.BranchName}
		for _, done := range row.Quarters {
			values = append(values, models.QuarterStatus(done))
		}
		values = append(values, fmt.Sprintf("%d / %d", row.Completed, models.QuarterCount), row.Breakdowns, row.LastService)

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(reportSheet, cell, v)
		}
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(reportSheet, col, col, 15)
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
