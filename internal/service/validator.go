package service

import "github.com/go-playground/validator/v10"

// newValidator enables `required` on struct-typed fields such as date.Date.
func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
