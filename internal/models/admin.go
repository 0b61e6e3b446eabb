package models

// AdminAccount is a console operator configured for the deployment.
type AdminAccount struct {
	Name         string `json:"name" mapstructure:"name"`
	Email        string `json:"email" mapstructure:"email"`
	PasswordHash string `json:"-" mapstructure:"password_hash"`
	TOTPSecret   string `json:"-" mapstructure:"totp_secret"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string        `json:"token"`
	Admin *AdminAccount `json:"admin"`
}
