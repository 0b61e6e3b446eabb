package handlers

import (
	"net/http"
	"strconv"

	"amc-backend/internal/middleware"
	"amc-backend/internal/navigation"
	"amc-backend/pkg/utils"
)

// NavigationHandler drives one navigation session per signed-in admin.
type NavigationHandler struct {
	Navigator *navigation.Navigator
	Sessions  *navigation.Sessions
}

func NewNavigationHandler(nav *navigation.Navigator, sessions *navigation.Sessions) *NavigationHandler {
	return &NavigationHandler{Navigator: nav, Sessions: sessions}
}

func sessionKey(r *http.Request) string {
	if admin, ok := middleware.GetAdminFromContext(r.Context()); ok {
		return admin.Email
	}
	return "anonymous"
}

// Current returns the admin's focus and its view. ?customer= (and optionally ?branch=)
// enters the hierarchy directly, the way a deep link does.
func (h *NavigationHandler) Current(w http.ResponseWriter, r *http.Request) {
	var action navigation.Action = navigation.Refresh{}
	if c := r.URL.Query().Get("customer"); c != "" {
		customerID, err := strconv.Atoi(c)
		if err != nil {
			utils.BadRequest(w, "Invalid customer id")
			return
		}
		enter := navigation.Enter{CustomerID: customerID}
		if b := r.URL.Query().Get("branch"); b != "" {
			if enter.BranchID, err = strconv.Atoi(b); err != nil {
				utils.BadRequest(w, "Invalid branch id")
				return
			}
		}
		action = enter
	}
	h.apply(w, r, action)
}

func (h *NavigationHandler) SelectCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, "Invalid customer id")
		return
	}
	h.apply(w, r, navigation.SelectCustomer{CustomerID: id})
}

func (h *NavigationHandler) SelectBranch(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "id", "branchId")
	if err != nil {
		utils.BadRequest(w, "Invalid customer or branch id")
		return
	}
	h.apply(w, r, navigation.SelectBranch{CustomerID: ids[0], BranchID: ids[1]})
}

func (h *NavigationHandler) SelectQuarter(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "id", "branchId", "quarter")
	if err != nil {
		utils.BadRequest(w, "Invalid customer, branch or quarter")
		return
	}
	h.apply(w, r, navigation.SelectQuarter{CustomerID: ids[0], BranchID: ids[1], Quarter: ids[2]})
}

func (h *NavigationHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, navigation.Back{})
}

func (h *NavigationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, navigation.Refresh{})
}

func (h *NavigationHandler) apply(w http.ResponseWriter, r *http.Request, action navigation.Action) {
	ctx := r.Context()
	admin := sessionKey(r)

	focus, err := h.Sessions.Apply(ctx, h.Navigator, admin, action)
	if err != nil {
		utils.Error(w, err)
		return
	}

	view, err := h.Navigator.View(ctx, focus)
	if err != nil {
		// Something was deleted between the transition and the read.
		if focus, err = h.Sessions.Apply(ctx, h.Navigator, admin, navigation.Refresh{}); err == nil {
			view, err = h.Navigator.View(ctx, focus)
		}
		if err != nil {
			utils.Error(w, err)
			return
		}
	}
	utils.JSON(w, http.StatusOK, view)
}
