package handlers

import (
	"net/http"

	"amc-backend/internal/models"
	"amc-backend/internal/services"
	"amc-backend/pkg/utils"
)

type BranchHandler struct {
	Service *services.BranchService
}

func NewBranchHandler(s *services.BranchService) *BranchHandler {
	return &BranchHandler{Service: s}
}

func (h *BranchHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, "Invalid customer id")
		return
	}

	branches, err := h.Service.ListBranches(r.Context(), customerID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, branches)
}

func (h *BranchHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, "Invalid customer id")
		return
	}

	var req models.BranchRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	branch, err := h.Service.AddBranch(r.Context(), customerID, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, branch)
}

func (h *BranchHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "id", "branchId")
	if err != nil {
		utils.BadRequest(w, "Invalid customer or branch id")
		return
	}

	branch, err := h.Service.GetBranch(r.Context(), ids[0], ids[1])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, branch)
}

func (h *BranchHandler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "id", "branchId")
	if err != nil {
		utils.BadRequest(w, "Invalid customer or branch id")
		return
	}

	var req models.BranchRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	branch, err := h.Service.RenameBranch(r.Context(), ids[0], ids[1], &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, branch)
}

func (h *BranchHandler) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "id", "branchId")
	if err != nil {
		utils.BadRequest(w, "Invalid customer or branch id")
		return
	}

	var req models.ConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.Service.DeleteBranch(r.Context(), ids[0], ids[1], req.Password); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
