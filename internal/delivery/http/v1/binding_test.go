package v1

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/pkg/apperror"
	"job-tracker-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindError(t *testing.T) {
	var input domain.ApplicationInput
	typeErr := json.NewDecoder(strings.NewReader(`{"user_id": 7}`)).Decode(&input)
	require.Error(t, typeErr)

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"empty body", io.EOF, "Request body is required"},
		{"truncated body", io.ErrUnexpectedEOF, "Malformed JSON body"},
		{"wrong type", typeErr, "user_id must be a string"},
		{"validation", validation.New().Struct(domain.ApplicationInput{}), "user_id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindError(tt.err)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
			assert.Equal(t, 400, err.Code)
			assert.Equal(t, tt.message, err.Message)
		})
	}
}
