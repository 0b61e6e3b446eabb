package handlers

import (
	"errors"
	"net/http"
	"strings"

	"amc-backend/internal/apperr"
	"amc-backend/internal/auth"
	"amc-backend/internal/models"
	"amc-backend/pkg/utils"

	log "github.com/sirupsen/logrus"
)

type AuthHandler struct {
	Admins     *auth.AdminDirectory
	JWTManager *auth.JWTManager
}

func NewAuthHandler(admins *auth.AdminDirectory, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{Admins: admins, JWTManager: jwtManager}
}

// Login handles admin authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	admin, err := h.Admins.Authenticate(req)
	if err != nil {
		log.Printf("[Auth] Failed login for %s from %s", req.Email, getIPAddress(r))
		var e *apperr.Error
		if errors.As(err, &e) && e.Kind == apperr.KindAuth {
			utils.JSON(w, http.StatusUnauthorized, utils.ErrorBody{Error: e.Message, Kind: e.Kind.String(), Field: e.Field})
			return
		}
		utils.Error(w, err)
		return
	}

	token, err := h.JWTManager.GenerateToken(admin)
	if err != nil {
		utils.Error(w, err)
		return
	}

	log.Printf("[Auth] %s signed in from %s", admin.Email, getIPAddress(r))
	utils.JSON(w, http.StatusOK, models.AuthResponse{Token: token, Admin: admin})
}

// getIPAddress extracts the real IP address from the request
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first (for proxies/load balancers)
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}
