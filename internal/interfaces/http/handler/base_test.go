package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/promoerp/backend/internal/domain/vendorcatalog"
	"github.com/promoerp/backend/internal/infrastructure/logger"
	"github.com/promoerp/backend/internal/interfaces/http/dto"
	"github.com/promoerp/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from context",
			setup:      func(c *gin.Context) { c.Set(logger.GinRequestIDKey, "ctx-request-id") },
			expectedID: "ctx-request-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id") },
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestList(t *testing.T) {
	t.Run("nil items encode as empty array", func(t *testing.T) {
		c, w := newTestContext()

		List[string](c, nil, dto.Meta{Vendor: "SANMAR"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":[],"meta":{"total":0,"vendor":"SANMAR"}}`, w.Body.String())
	})

	t.Run("total follows item count", func(t *testing.T) {
		c, w := newTestContext()

		List(c, []string{"a", "b"}, dto.Meta{Total: 99})

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 2, resp.Meta.Total)
	})
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name           string
		call           func(h *BaseHandler, c *gin.Context)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "BadRequest",
			call:           func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "bad") },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeBadRequest,
		},
		{
			name:           "NotFound",
			call:           func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "missing") },
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrCodeNotFound,
		},
		{
			name:           "InternalError",
			call:           func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "boom") },
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
		},
		{
			name:           "ErrorWithCode",
			call:           func(h *BaseHandler, c *gin.Context) { h.ErrorWithCode(c, dto.ErrCodeVendorUnavailable, "down") },
			expectedStatus: http.StatusBadGateway,
			expectedCode:   dto.ErrCodeVendorUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext()
			c.Set(logger.GinRequestIDKey, "req-123")

			tt.call(h, c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Equal(t, "req-123", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerValidationError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.ValidationError(c, []dto.ValidationDetail{{Field: "q", Message: "This field is required"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
}

func TestBaseHandlerHandleError(t *testing.T) {
	transportErr := vendorcatalog.NewTransportError(vendorcatalog.VendorCodeSanMar, vendorcatalog.OperationStyleLookup, 503, nil)
	malformedErr := vendorcatalog.NewMalformedResponseError(vendorcatalog.VendorCodeSSActivewear, vendorcatalog.OperationBrandLookup, errors.New("invalid character"))

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedLevel  zapcore.Level
		expectedLog    string
		logged         bool
	}{
		{
			name:           "empty query",
			err:            vendorcatalog.ErrEmptyQuery,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeValidation,
		},
		{
			name:           "vendor not configured",
			err:            fmt.Errorf("lookup: %w", vendorcatalog.ErrVendorNotConfigured),
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrCodeNotFound,
		},
		{
			name:           "unsupported operation",
			err:            vendorcatalog.ErrUnsupportedOperation,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   dto.ErrCodeVendorUnsupported,
		},
		{
			name:           "transport failure",
			err:            transportErr,
			expectedStatus: http.StatusBadGateway,
			expectedCode:   dto.ErrCodeVendorUnavailable,
			expectedLevel:  zapcore.WarnLevel,
			logged:         true,
		},
		{
			name:           "malformed response",
			err:            malformedErr,
			expectedStatus: http.StatusBadGateway,
			expectedCode:   dto.ErrCodeVendorMalformedResponse,
			expectedLevel:  zapcore.WarnLevel,
			logged:         true,
		},
		{
			name:           "invalid credentials",
			err:            fmt.Errorf("%w: username is required", vendorcatalog.ErrInvalidCredentials),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrCodeVendorMisconfigured,
			expectedLevel:  zapcore.ErrorLevel,
			expectedLog:    "Vendor connection misconfigured",
			logged:         true,
		},
		{
			name:           "unknown error",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
			expectedLevel:  zapcore.ErrorLevel,
			expectedLog:    "Unhandled catalog error",
			logged:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := &BaseHandler{}
			c, w := newTestContext()
			c.Set(logger.GinLoggerKey, zap.New(core))

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Len(t, c.Errors, 1)

			if !tt.logged {
				assert.Zero(t, logs.Len())
				return
			}
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.expectedLevel, logs.All()[0].Level)
			if tt.expectedLog != "" {
				assert.Equal(t, tt.expectedLog, logs.All()[0].Message)
			}
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext()

		h.HandleError(c, nil)

		assert.Empty(t, w.Body.String())
	})
}
