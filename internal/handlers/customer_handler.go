package handlers

import (
	"net/http"

	"amc-backend/internal/models"
	"amc-backend/internal/services"
	"amc-backend/pkg/utils"
)

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(s *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: s}
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	customer, err := h.Service.AddCustomer(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, "Invalid customer id")
		return
	}

	customer, err := h.Service.GetCustomer(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.ListCustomers(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, "Invalid customer id")
		return
	}

	var req models.UpdateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	customer, err := h.Service.RenameCustomer(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, "Invalid customer id")
		return
	}

	var req models.ConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.Service.DeleteCustomer(r.Context(), id, req.Password); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
