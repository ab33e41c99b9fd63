package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// New returns a validator with the project's custom rules registered.
//
//	username: letters, digits and underscores only
func New() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})

	return v
}
