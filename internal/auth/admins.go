package auth

import (
	"strings"
	"time"

	"amc-backend/internal/apperr"
	"amc-backend/internal/models"
)

// AdminDirectory holds the console operators configured for the deployment.
type AdminDirectory struct {
	byEmail map[string]models.AdminAccount
	now     func() time.Time
}

func NewAdminDirectory(admins []models.AdminAccount) *AdminDirectory {
	d := &AdminDirectory{
		byEmail: make(map[string]models.AdminAccount, len(admins)),
		now:     time.Now,
	}
	for _, a := range admins {
		d.byEmail[normalizeEmail(a.Email)] = a
	}
	return d
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Lookup returns the admin with the given email.
func (d *AdminDirectory) Lookup(email string) (*models.AdminAccount, bool) {
	a, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, false
	}
	return &a, true
}

func (d *AdminDirectory) Len() int {
	return len(d.byEmail)
}

// Authenticate checks the password and, for accounts enrolled in 2FA, the TOTP code.
// Unknown accounts and wrong passwords produce the same error.
func (d *AdminDirectory) Authenticate(req models.LoginRequest) (*models.AdminAccount, error) {
	admin, ok := d.Lookup(req.Email)
	if !ok {
		VerifyPassword("", req.Password)
		return nil, apperr.Auth("Invalid email or password")
	}
	if !VerifyPassword(admin.PasswordHash, req.Password) {
		return nil, apperr.Auth("Invalid email or password")
	}
	if admin.TOTPSecret != "" && !ValidateTOTP(admin.TOTPSecret, req.TOTPCode, d.now()) {
		return nil, &apperr.Error{Kind: apperr.KindAuth, Field: "totp_code", Message: "Invalid authenticator code"}
	}
	return admin, nil
}
