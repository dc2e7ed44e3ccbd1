package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/promoerp/backend/internal/domain/vendorcatalog"
	"github.com/promoerp/backend/internal/infrastructure/logger"
	"github.com/promoerp/backend/internal/interfaces/http/dto"
	"github.com/promoerp/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// List sends a result list with its meta
func List[T any](c *gin.Context, items []T, meta dto.Meta) {
	c.JSON(http.StatusOK, dto.NewListResponse(items, meta))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// HandleError maps catalog errors to HTTP responses. Vendor failures answer
// 502 so callers can tell them apart from an empty result.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	switch {
	case errors.Is(err, vendorcatalog.ErrEmptyQuery):
		h.ValidationError(c, []dto.ValidationDetail{{Field: "q", Message: "This field is required"}})
	case errors.Is(err, vendorcatalog.ErrVendorNotConfigured):
		h.ErrorWithCode(c, dto.ErrCodeNotFound, "Vendor is not configured")
	case errors.Is(err, vendorcatalog.ErrUnsupportedOperation):
		h.ErrorWithCode(c, dto.ErrCodeVendorUnsupported, "Vendor does not support this lookup")
	case errors.Is(err, vendorcatalog.ErrInvalidCredentials):
		logger.GetGinLogger(c).Error("Vendor connection misconfigured", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeVendorMisconfigured, "Vendor connection is not configured correctly")
	case errors.Is(err, vendorcatalog.ErrTransport):
		logger.GetGinLogger(c).Warn("Vendor request failed", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeVendorUnavailable, "Vendor is unavailable")
	case errors.Is(err, vendorcatalog.ErrMalformedResponse):
		logger.GetGinLogger(c).Warn("Vendor response could not be decoded", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeVendorMalformedResponse, "Vendor returned a malformed response")
	default:
		logger.GetGinLogger(c).Error("Unhandled catalog error", zap.Error(err))
		h.InternalError(c, "An unexpected error occurred")
	}
}
