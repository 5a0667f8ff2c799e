package validation

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password the sign-in forms accept.
const MinPasswordLength = 8

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("strong_password", StrongPassword)
}

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// StrongPassword requires at least 8 characters with an upper-case letter,
// a lower-case letter and a digit.
func StrongPassword(fl validator.FieldLevel) bool {
	return PasswordProblem(fl.Field().String()) == ""
}

// PasswordProblem describes the first rule the password breaks, or "" if none.
func PasswordProblem(password string) string {
	if len(password) < MinPasswordLength {
		return "Password must be at least 8 characters long."
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return "Password must contain at least one uppercase letter."
	case !hasLower:
		return "Password must contain at least one lowercase letter."
	case !hasDigit:
		return "Password must contain at least one number."
	}
	return ""
}
