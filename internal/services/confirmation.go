package services

import (
	"context"
	"crypto/subtle"
	"fmt"

	"amc-backend/internal/apperr"
	"amc-backend/internal/auth"
	"amc-backend/internal/models"
)

// ConfirmationPolicy decides whether a destructive or identity-changing action on a
// customer may proceed given the password the operator typed.
type ConfirmationPolicy interface {
	Confirm(ctx context.Context, customer *models.Customer, supplied string) error
}

var errIncorrectPassword = apperr.Auth("Incorrect password")

// PasswordPolicy checks the supplied password against the customer's own bcrypt hash.
type PasswordPolicy struct{}

func (PasswordPolicy) Confirm(ctx context.Context, customer *models.Customer, supplied string) error {
	if customer.PasswordHash == "" || !auth.VerifyPassword(customer.PasswordHash, supplied) {
		return errIncorrectPassword
	}
	return nil
}

// SharedSecretPolicy accepts one deployment-wide secret for every customer.
type SharedSecretPolicy struct {
	Secret string
}

func (p SharedSecretPolicy) Confirm(ctx context.Context, customer *models.Customer, supplied string) error {
	if p.Secret == "" || subtle.ConstantTimeCompare([]byte(p.Secret), []byte(supplied)) != 1 {
		return errIncorrectPassword
	}
	return nil
}

// NoConfirmation accepts everything.
type NoConfirmation struct{}

func (NoConfirmation) Confirm(context.Context, *models.Customer, string) error { return nil }

// NewConfirmationPolicy maps the amc.confirmation setting to a policy.
func NewConfirmationPolicy(mode, secret string) (ConfirmationPolicy, error) {
	switch mode {
	case "", "password":
		return PasswordPolicy{}, nil
	case "shared_secret":
		if secret == "" {
			return nil, fmt.Errorf("confirmation mode shared_secret needs a secret")
		}
		return SharedSecretPolicy{Secret: secret}, nil
	case "none":
		return NoConfirmation{}, nil
	default:
		return nil, fmt.Errorf("unknown confirmation mode %q", mode)
	}
}
