package order

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
	service "github.com/Additional-Code/ordergraph/internal/service/order"
	"github.com/Additional-Code/ordergraph/pkg/collection"
	"github.com/Additional-Code/ordergraph/pkg/errorbank"
)

type fakeService struct {
	orders   map[string]*model.CustomerOrder
	incoming *model.CustomerOrder
}

func (f *fakeService) Get(_ context.Context, id string) (*model.CustomerOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, errorbank.NotFound("order not found")
	}
	return o, nil
}

func (f *fakeService) Create(_ context.Context, o *model.CustomerOrder) (*model.CustomerOrder, error) {
	if o.StoreID == "" {
		return nil, errorbank.Unprocessable("order payload is invalid", errorbank.WithDetail("store_id", "required"))
	}
	if _, taken := f.orders[o.ID]; taken {
		return nil, errorbank.Conflict("order conflicts with stored data")
	}
	o.ID = "order-new"
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeService) Patch(_ context.Context, id string, o *model.CustomerOrder) (service.PatchResult, error) {
	if _, ok := f.orders[id]; !ok {
		return service.PatchResult{}, errorbank.NotFound("order not found")
	}
	f.incoming = o
	return service.PatchResult{
		Order:    o,
		Stats:    reconcile.Stats{reconcile.Items: collection.Stats{Added: 1}},
		Dangling: 1,
	}, nil
}

func (f *fakeService) Delete(_ context.Context, id string) error {
	if _, ok := f.orders[id]; !ok {
		return errorbank.NotFound("order not found")
	}
	delete(f.orders, id)
	return nil
}

func newServer(t *testing.T) (*echo.Echo, *fakeService) {
	t.Helper()
	svc := &fakeService{orders: map[string]*model.CustomerOrder{
		"order-1": {OperationBase: model.OperationBase{ID: "order-1", Number: "CO-1"}},
	}}
	e := echo.New()
	Register(e, &Handler{svc: svc})
	return e, svc
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Get(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/orders/order-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"number":"CO-1"`)

	rec = do(e, http.MethodGet, "/orders/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"not_found"`)
}

func TestHandler_Create(t *testing.T) {
	e, svc := newServer(t)

	rec := do(e, http.MethodPost, "/orders", `{"customer_id":"c","store_id":"s","items":[]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"order-new"`)
	assert.True(t, svc.orders["order-new"].Items.Present())

	rec = do(e, http.MethodPost, "/orders", `{"customer_id":"c"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(e, http.MethodPost, "/orders", `{"id":"order-1","customer_id":"c","store_id":"s"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"conflict"`)

	rec = do(e, http.MethodPost, "/orders", `{"items":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"invalid payload"`)
}

func TestHandler_PatchKeepsAbsentCollectionsAbsent(t *testing.T) {
	e, svc := newServer(t)

	rec := do(e, http.MethodPatch, "/orders/order-1", `{"customer_id":"c","store_id":"s","shipments":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.incoming)
	assert.False(t, svc.incoming.Items.Present())
	assert.True(t, svc.incoming.Shipments.Present())
	assert.Contains(t, rec.Body.String(), `"changes":[{"collection":"items","added":1,"updated":0,"removed":0}]`)
	assert.Contains(t, rec.Body.String(), `"dangling":1`)

	rec = do(e, http.MethodPatch, "/orders/missing", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Delete(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodDelete, "/orders/order-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodDelete, "/orders/order-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
