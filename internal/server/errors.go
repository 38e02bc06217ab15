package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	menuitemdomain "github.com/tabwise/epos/internal/menuitem/domain"
	paymentdomain "github.com/tabwise/epos/internal/payment/domain"
	tabdomain "github.com/tabwise/epos/internal/tab/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	var declined *paymentdomain.DeclinedError
	if errors.As(err, &declined) {
		return http.StatusPaymentRequired, errorPayload{
			Type:    "payment_declined",
			Message: declined.Reason,
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, tabdomain.ErrTabNotOpen):
		return http.StatusConflict, errorPayload{
			Type:    "invalid_state",
			Message: "tab is not open",
		}
	case errors.Is(err, menuitemdomain.ErrNameExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "menu item name already exists",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isMenuItemValidationError(err),
		isTabValidationError(err),
		isPaymentValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, menuitemdomain.ErrNotFound),
		errors.Is(err, tabdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isMenuItemValidationError(err error) bool {
	switch {
	case errors.Is(err, menuitemdomain.ErrInvalidName),
		errors.Is(err, menuitemdomain.ErrInvalidPrice),
		errors.Is(err, menuitemdomain.ErrInvalidVATRate),
		errors.Is(err, menuitemdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isTabValidationError(err error) bool {
	switch {
	case errors.Is(err, tabdomain.ErrInvalidTableNumber),
		errors.Is(err, tabdomain.ErrInvalidCovers),
		errors.Is(err, tabdomain.ErrInvalidQty),
		errors.Is(err, tabdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isPaymentValidationError(err error) bool {
	switch {
	case errors.Is(err, paymentdomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrEmptyTab),
		errors.Is(err, paymentdomain.ErrSecretNotFound),
		errors.Is(err, paymentdomain.ErrAlreadyFailed):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "empty_tab":
		return "tab has no items"
	case "secret_not_found_or_expired":
		return "secret not found or expired"
	case "payment_already_failed":
		return "payment already failed, create a new intent"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog labels request errors for access-log fields
// without leaking internals into the response path.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal", payload.Type
	case status == http.StatusPaymentRequired:
		return "declined", payload.Type
	default:
		return "client", payload.Type
	}
}
