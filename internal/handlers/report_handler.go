package handlers

import (
	"fmt"
	"net/http"

	"amc-backend/internal/services"
	"amc-backend/internal/timeutil"
	"amc-backend/pkg/utils"

	log "github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// DownloadPDF returns the AMC completion report as PDF.
func (h *ReportHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.BuildAMCReport(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	data, err := h.Service.GenerateAMCReportPDF(report)
	if err != nil {
		log.Printf("[Report] PDF generation failed: %v", err)
		utils.Error(w, err)
		return
	}
	filename := fmt.Sprintf("amc_report_%s.pdf", timeutil.Today(report.GeneratedAt))
	writeAttachment(w, "application/pdf", filename, data)
}

// DownloadXLSX returns the AMC completion report as an Excel workbook.
func (h *ReportHandler) DownloadXLSX(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.BuildAMCReport(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	data, err := h.Service.GenerateAMCReportXLSX(report)
	if err != nil {
		log.Printf("[Report] XLSX generation failed: %v", err)
		utils.Error(w, err)
		return
	}
	filename := fmt.Sprintf("amc_report_%s.xlsx", timeutil.Today(report.GeneratedAt))
	writeAttachment(w, xlsxContentType, filename, data)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
