// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Every endpoint speaks the same envelope: successes carry
// {success:true, message?, data, pagination?}; failures carry
// {success:false, message, error?} where error is the machine code.
type envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func OKMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Paginated writes a list payload together with page metadata.
// Pages is ceil(total/limit).
func Paginated(w http.ResponseWriter, data any, page, limit, total int) {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}

	count := total
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    data,
		Count:   &count,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, envelope{
			Success: false,
			Message: appErr.Message,
			Error:   appErr.Code,
		})
		return
	}

	// Repositories return wrapped sentinels rather than AppErrors; translate
	// them here so a missing row surfaces as 404 instead of 500.
	if mapped := fromSentinel(err); mapped != nil {
		JSONError(w, mapped)
		return
	}

	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "internal server error",
		Error:   "INTERNAL_ERROR",
	})
}

func fromSentinel(err error) *AppError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError("resource")
	case errors.Is(err, ErrInvalidID):
		return InvalidIDError()
	case errors.Is(err, ErrDuplicateKey):
		return DuplicateError("resource")
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenRevoked):
		return TokenRevokedError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrPayloadTooLarge):
		return PayloadTooLargeError("payload too large")
	case errors.Is(err, ErrUnsupportedMedia):
		return UnsupportedMediaError("unsupported media type")
	case errors.Is(err, ErrUpstream):
		return UpstreamError("upstream service failed")
	default:
		return nil
	}
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, ValidationError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "internal server error",
		Error:   "INTERNAL_ERROR",
	})
}

// FormatValidationError flattens validator.ValidationErrors into a single
// human-readable message for the envelope.
func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request"
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			parts = append(parts, fieldErr.Field()+" is required")
		case "email":
			parts = append(parts, fieldErr.Field()+" must be a valid email")
		case "min":
			parts = append(
				parts,
				fieldErr.Field()+" must be at least "+fieldErr.Param(),
			)
		case "max":
			parts = append(
				parts,
				fieldErr.Field()+" must be at most "+fieldErr.Param(),
			)
		case "oneof":
			parts = append(
				parts,
				fieldErr.Field()+" must be one of: "+fieldErr.Param(),
			)
		case "latitude":
			parts = append(
				parts,
				fieldErr.Field()+" must be between -90 and 90",
			)
		case "longitude":
			parts = append(
				parts,
				fieldErr.Field()+" must be between -180 and 180",
			)
		default:
			parts = append(parts, fieldErr.Field()+" is invalid")
		}
	}

	return strings.Join(parts, "; ")
}
