package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"job-tracker-backend/pkg/apperror"
	"job-tracker-backend/pkg/validation"
)

// bindError turns a JSON binding failure into a validation error a client can act on.
func bindError(err error) *apperror.AppError {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return apperror.BadRequest("Request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.BadRequest("Malformed JSON body")
	case errors.As(err, &typeErr):
		return apperror.BadRequest(fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind()))
	}
	return apperror.Validation(strings.Join(validation.FormatValidationErrors(err), "; "))
}
