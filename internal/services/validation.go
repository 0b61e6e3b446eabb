package services

import (
	"errors"
	"strings"

	"amc-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", notBlank)
	return v
}

// notBlank rejects strings that are empty after trimming whitespace.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// sheetSubmission is what every service-sheet upload must carry. The sheet file
// itself is optional.
type sheetSubmission struct {
	ServiceDate string `validate:"required,datetime=2006-01-02"`
}

type fieldMessage struct {
	field   string
	message string
}

// validationMessages maps StructNamespace.Tag to the message shown to the operator.
var validationMessages = map[string]fieldMessage{
	"CreateCustomerRequest.Name.notblank":  {"name", "Customer name is required"},
	"BranchRequest.Name.notblank":          {"name", "Branch name required"},
	"sheetSubmission.ServiceDate.required": {"service_date", "Service date is required"},
	"sheetSubmission.ServiceDate.datetime": {"service_date", "Service date must be a valid YYYY-MM-DD date"},
}

// validateStruct runs the struct's validate tags and reports the first failure as a
// validation error.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	fe := ve[0]
	if m, ok := validationMessages[fe.StructNamespace()+"."+fe.Tag()]; ok {
		return apperr.Validation(m.field, m.message)
	}
	return apperr.Validation(strings.ToLower(fe.Field()), "Invalid value for %s", fe.Field())
}
