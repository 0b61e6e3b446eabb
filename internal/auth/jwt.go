package auth

import (
	"errors"
	"time"

	"amc-backend/internal/config"
	"amc-backend/internal/models"
	"amc-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role the console issues.
const RoleAdmin = "admin"

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	cfg *config.Config
	now timeutil.Clock
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{cfg: cfg, now: timeutil.Now}
}

// GenerateToken creates a new JWT token for an admin account
func (j *JWTManager) GenerateToken(admin *models.AdminAccount) (string, error) {
	now := j.now()
	expirationTime := now.Add(time.Duration(j.cfg.JWT.ExpirationHours) * time.Hour)

	claims := &Claims{
		Email: admin.Email,
		Name:  admin.Name,
		Role:  RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Email,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidateToken verifies a JWT token and returns the claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.cfg.JWT.Secret), nil
	}, jwt.WithIssuer(j.cfg.JWT.Issuer))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
