package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/ordergraph/internal/presentation/http/response"
	"github.com/Additional-Code/ordergraph/pkg/errorbank"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), rec
}

func TestBuilder_Success(t *testing.T) {
	c, rec := newContext()
	err := response.New(c).
		WithStatus(http.StatusCreated).
		WithData(map[string]string{"id": "order-1"}).
		WithMeta("dangling", 0).
		Build()
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"order-1"},"meta":{"dangling":0}}`, rec.Body.String())
}

func TestBuilder_NoContent(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, response.New(c).WithStatus(http.StatusNoContent).Build())

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestBuilder_AppError(t *testing.T) {
	c, rec := newContext()
	appErr := errorbank.Unprocessable("order payload is invalid",
		errorbank.WithDetail("store_id", "required"))
	require.NoError(t, response.New(c).WithError(appErr).Build())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"kind": "unprocessable_entity",
			"message": "order payload is invalid",
			"details": {"store_id": "required"}
		}
	}`, rec.Body.String())
}

func TestBuilder_UnknownErrorIsInternal(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, response.New(c).WithError(errors.New("disk full")).Build())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestBuilder_EchoesRequestID(t *testing.T) {
	c, rec := newContext()
	c.Response().Header().Set(echo.HeaderXRequestID, "req-42")
	require.NoError(t, response.New(c).WithError(errorbank.NotFound("order not found")).Build())

	var body response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "not_found", body.Error.Kind)
	assert.Equal(t, "req-42", body.Meta["request_id"])
}
