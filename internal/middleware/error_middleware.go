package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
	"github.com/antonkh/eventory/internal/pkg/logger"
)

// HandleAPIError maps application errors to wire responses. Every handler
// funnels its failures through here so the error body stays uniform.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound,
			dto.NewApiError("NOT_FOUND", dto.ReasonNotFound, err.Error()))
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrCategoryAlreadyExists),
		errors.Is(err, apperrors.ErrCategoryHasEvents):
		c.JSON(http.StatusConflict,
			dto.NewApiError("CONFLICT", dto.ReasonConflict, err.Error()))
	case errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest,
			dto.NewApiError("BAD_REQUEST", dto.ReasonBadRequest, err.Error()))
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError,
			dto.NewApiError("INTERNAL_SERVER_ERROR", dto.ReasonInternal, "Internal server error"))
	}
}

// HandleBindingError maps gin binding failures to the bad-request body.
// Validator errors are rendered per field so the caller sees which constraint
// failed rather than a struct dump.
func HandleBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		messages := make([]string, 0, len(validationErrs))
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf("Field: %s. Error: %s. Value: %v",
				e.Field(), formatValidationError(e), e.Value()))
		}
		c.JSON(http.StatusBadRequest,
			dto.NewApiError("BAD_REQUEST", dto.ReasonBadRequest, strings.Join(messages, "; ")))
		return
	}

	c.JSON(http.StatusBadRequest,
		dto.NewApiError("BAD_REQUEST", dto.ReasonBadRequest, err.Error()))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must not be blank"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "email":
		return "must be a well-formed email address"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "failed on " + e.Tag()
	}
}
