package jwtauth

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// DefaultUserValidator checks a reconciled user before it is saved. A
// username is required and a non empty email must be well formed.
func DefaultUserValidator(ctx context.Context, user *User) error {
	err := validation.ValidateStruct(user,
		validation.Field(&user.Username, validation.Required),
		validation.Field(&user.Email, is.Email),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "user record failed validation").
			WithMetadata(map[string]any{"username": user.Username})
	}
	return nil
}
