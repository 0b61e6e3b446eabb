package handlers

import (
	"net/http"

	"amc-backend/internal/services"
	"amc-backend/pkg/utils"
)

type QuarterHandler struct {
	Service *services.QuarterService
}

func NewQuarterHandler(s *services.QuarterService) *QuarterHandler {
	return &QuarterHandler{Service: s}
}

// CompleteQuarter marks {quarter} (0-based) of a branch completed.
func (h *QuarterHandler) CompleteQuarter(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "id", "branchId", "quarter")
	if err != nil {
		utils.BadRequest(w, "Invalid customer, branch or quarter")
		return
	}

	branch, err := h.Service.MarkQuarterCompleted(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, branch)
}

// UploadQuarterlySheet accepts multipart fields service_date and an optional file.
func (h *QuarterHandler) UploadQuarterlySheet(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "id", "branchId", "quarter")
	if err != nil {
		utils.BadRequest(w, "Invalid customer, branch or quarter")
		return
	}

	serviceDate, sheet, err := readSheet(w, r)
	if err != nil {
		sheetFormError(w, err)
		return
	}

	result, err := h.Service.UploadQuarterlyServiceSheet(r.Context(), ids[0], ids[1], ids[2], serviceDate, sheet)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}

func (h *QuarterHandler) ListBreakdowns(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "id", "branchId")
	if err != nil {
		utils.BadRequest(w, "Invalid customer or branch id")
		return
	}

	entries, err := h.Service.ListBreakdownServices(r.Context(), ids[0], ids[1])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}

func (h *QuarterHandler) RecordBreakdown(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "id", "branchId")
	if err != nil {
		utils.BadRequest(w, "Invalid customer or branch id")
		return
	}

	serviceDate, sheet, err := readSheet(w, r)
	if err != nil {
		sheetFormError(w, err)
		return
	}

	entry, err := h.Service.RecordBreakdownService(r.Context(), ids[0], ids[1], serviceDate, sheet)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, entry)
}
