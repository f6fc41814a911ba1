// Package validation adapts go-playground/validator to echo's Validator hook.
package validation

import (
	"github.com/brightfeed/brightfeed/internal/apperr"
	"github.com/go-playground/validator/v10"
)

type EchoValidator struct {
	validate *validator.Validate
}

func NewEchoValidator() *EchoValidator {
	return &EchoValidator{validate: validator.New()}
}

func (v *EchoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	return nil
}
