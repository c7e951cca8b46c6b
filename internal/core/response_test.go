// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOKEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["data"])
	assert.NotContains(t, body, "error")
}

func TestPaginatedComputesPages(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int
		pages float64
	}{
		{"exact division", 1, 10, 30, 3},
		{"remainder rounds up", 2, 10, 25, 3},
		{"single page", 1, 20, 5, 1},
		{"empty result", 1, 20, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Paginated(rec, []string{}, tt.page, tt.limit, tt.total)

			body := decodeBody(t, rec)
			pagination, ok := body["pagination"].(map[string]any)
			require.True(t, ok)

			assert.Equal(t, tt.pages, pagination["pages"])
			assert.Equal(t, float64(tt.total), pagination["total"])
			assert.Equal(t, float64(tt.page), pagination["page"])
		})
	}
}

func TestJSONErrorMapsAppErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", ValidationError("bad input"), 400, "VALIDATION_ERROR"},
		{"unauthorized", UnauthorizedError(""), 401, "UNAUTHENTICATED"},
		{"forbidden", ForbiddenError(""), 403, "FORBIDDEN"},
		{"not found", NotFoundError("report"), 404, "NOT_FOUND"},
		{"duplicate", DuplicateError("email"), 409, "DUPLICATE_EMAIL"},
		{"token expired", TokenExpiredError(), 401, "TOKEN_EXPIRED"},
		{"token revoked", TokenRevokedError(), 401, "TOKEN_REVOKED"},
		{"too large", PayloadTooLargeError("big"), 400, "PAYLOAD_TOO_LARGE"},
		{
			"unsupported media",
			UnsupportedMediaError("nope"),
			400,
			"UNSUPPORTED_MEDIA_TYPE",
		},
		{"invalid id", InvalidIDError(), 400, "INVALID_IDENTIFIER"},
		{"upstream", UpstreamError("down"), 500, "UPSTREAM_FAILURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSONError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.code, body["error"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestJSONErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body["error"])
	assert.NotContains(t, body["message"], assert.AnError.Error())
}

func TestFormatValidationError(t *testing.T) {
	type payload struct {
		Email    string  `validate:"required,email"`
		Latitude float64 `validate:"latitude"`
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(payload{Email: "not-an-email", Latitude: 123})
	require.Error(t, err)

	message := FormatValidationError(err)
	assert.Contains(t, message, "Email must be a valid email")
	assert.Contains(t, message, "Latitude must be between -90 and 90")
}

// Repositories hand back wrapped sentinels, not AppErrors; the writer must
// still translate them instead of collapsing everything to 500.
func TestJSONErrorMapsWrappedSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			"wrapped not found",
			fmt.Errorf("get report: %w", ErrNotFound),
			http.StatusNotFound,
			"NOT_FOUND",
		},
		{
			"wrapped invalid id",
			fmt.Errorf("get user: %w", ErrInvalidID),
			http.StatusBadRequest,
			"INVALID_IDENTIFIER",
		},
		{
			"wrapped duplicate",
			fmt.Errorf("create user: %w", ErrDuplicateKey),
			http.StatusConflict,
			"DUPLICATE_RESOURCE",
		},
		{
			"wrapped expired token",
			fmt.Errorf("verify: %w", ErrTokenExpired),
			http.StatusUnauthorized,
			"TOKEN_EXPIRED",
		},
		{
			"wrapped upstream",
			fmt.Errorf("upload: %w", ErrUpstream),
			http.StatusInternalServerError,
			"UPSTREAM_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSONError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.code, body["error"])
		})
	}
}
