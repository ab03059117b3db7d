// Package validation adapts go-playground/validator to echo's Validator
// interface so handlers can check bound form structs by tag.
package validation

import "github.com/go-playground/validator/v10"

// Echo wraps a validator instance for use as echo.Validator.
type Echo struct {
	v *validator.Validate
}

// NewEcho returns a ready validator adapter.
func NewEcho() *Echo {
	return &Echo{v: validator.New()}
}

// Validate implements echo.Validator.
func (e *Echo) Validate(i interface{}) error {
	return e.v.Struct(i)
}
