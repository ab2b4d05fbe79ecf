package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
	"github.com/dip04-eng/Sweet-store-backend/internal/repository"
	"github.com/dip04-eng/Sweet-store-backend/internal/service"
)

type testServer struct {
	echo      *echo.Echo
	sweetRepo *repository.MemorySweetRepository
	orderRepo *repository.MemoryOrderRepository
}

func newTestServer() *testServer {
	sweetRepo := repository.NewMemorySweetRepository()
	orderRepo := repository.NewMemoryOrderRepository()
	handler := NewHandler(
		service.NewSweetService(sweetRepo, nil),
		service.NewOrderService(orderRepo, nil, nil),
		nil,
	)

	e := echo.New()
	e.GET("/sweets", handler.GetSweets)
	e.POST("/place_order", handler.PlaceOrder)
	e.POST("/contact", handler.Contact)
	e.POST("/admin/add_sweet", handler.AddSweet)
	e.DELETE("/admin/remove_sweet", handler.RemoveSweet)
	e.GET("/admin/orders", handler.GetOrders)
	e.GET("/admin/daily_summary", handler.DailySummary)
	e.PUT("/admin/update_order_status", handler.UpdateOrderStatus)
	e.PUT("/admin/edit_order/:id", handler.EditOrder)
	e.POST("/admin/download_statement", handler.DownloadStatement)

	return &testServer{echo: e, sweetRepo: sweetRepo, orderRepo: orderRepo}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// Date validation runs against the real clock, so payloads compute their
// dates at test time.
func futureDates() (string, string) {
	now := time.Now()
	return now.Format("2006-01-02"), now.AddDate(0, 0, 2).Format("2006-01-02")
}

func TestGetSweets(t *testing.T) {
	srv := newTestServer()
	srv.sweetRepo.Seed(entity.Sweet{ID: "s1", Name: "Ladoo", Rate: 250, Category: "Festival", Unit: entity.UnitKg})
	srv.sweetRepo.Seed(entity.Sweet{ID: "s2", Name: "Barfi", Rate: 400, Category: "Milk", Unit: entity.UnitKg})

	rec := srv.do(http.MethodGet, "/sweets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sweets []entity.Sweet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sweets))
	require.Len(t, sweets, 2)

	rec = srv.do(http.MethodGet, "/sweets?category=milk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sweets))
	require.Len(t, sweets, 1)
	assert.Equal(t, "Barfi", sweets[0].Name)
}

func TestGetSweetsEmpty(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(http.MethodGet, "/sweets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestPlaceOrderEndpoint(t *testing.T) {
	srv := newTestServer()
	orderDate, deliveryDate := futureDates()

	body := fmt.Sprintf(`{
		"customerName": "Asha Patel",
		"mobile": "9876543210",
		"address": "12 MG Road",
		"orderDate": %q,
		"deliveryDate": %q,
		"total": "1200.50",
		"items": [{"sweetId": "s1", "sweetName": "Ladoo", "quantity": 2, "unit": "kg", "price": 400}]
	}`, orderDate, deliveryDate)

	rec := srv.do(http.MethodPost, "/place_order", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	out := decodeJSON(t, rec)
	assert.Equal(t, "Order placed successfully!", out["message"])
	assert.Equal(t, "Asha Patel", out["customerName"])
	assert.Equal(t, 1200.50, out["total"])

	orders, err := srv.orderRepo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.StatusPending, orders[0].Status)
}

func TestPlaceOrderEndpointValidation(t *testing.T) {
	srv := newTestServer()
	orderDate, deliveryDate := futureDates()

	rec := srv.do(http.MethodPost, "/place_order", fmt.Sprintf(
		`{"customerName": "Asha", "orderDate": %q, "deliveryDate": %q, "items": []}`, orderDate, deliveryDate))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Order must contain at least one item", decodeJSON(t, rec)["error"])

	rec = srv.do(http.MethodPost, "/place_order", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddSweetEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(http.MethodPost, "/admin/add_sweet",
		`{"name": "Kaju Katli", "rate": 850, "category": "Premium", "unit": "piece"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	out := decodeJSON(t, rec)
	assert.Equal(t, "Sweet added successfully", out["message"])
	assert.Equal(t, "Kaju Katli", out["sweet"])
}

func TestAddSweetEndpointErrors(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(http.MethodPost, "/admin/add_sweet", `{"name": "Ladoo", "rate": 250}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: category", decodeJSON(t, rec)["error"])

	rec = srv.do(http.MethodPost, "/admin/add_sweet",
		`{"category": "Premium", "existingSweetId": "missing"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Existing sweet not found", decodeJSON(t, rec)["error"])
}

func TestRemoveSweetEndpoint(t *testing.T) {
	srv := newTestServer()
	srv.sweetRepo.Seed(entity.Sweet{ID: "s1", Name: "Ladoo", Category: "Festival"})

	rec := srv.do(http.MethodDelete, "/admin/remove_sweet?name=Ladoo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sweet 'Ladoo' removed successfully", decodeJSON(t, rec)["message"])

	rec = srv.do(http.MethodDelete, "/admin/remove_sweet", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Sweet name is required", decodeJSON(t, rec)["error"])
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	srv := newTestServer()
	srv.orderRepo.Seed(entity.Order{ID: "o1", Status: entity.StatusPending})

	rec := srv.do(http.MethodPut, "/admin/update_order_status",
		`{"orderId": "o1", "status": "delivered"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order marked as Delivered", decodeJSON(t, rec)["message"])

	// Query parameters work as a fallback for the body.
	rec = srv.do(http.MethodPut, "/admin/update_order_status?orderId=o1&status=cancelled", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order Cancelled", decodeJSON(t, rec)["message"])
}

func TestUpdateOrderStatusEndpointErrors(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(http.MethodPut, "/admin/update_order_status", `{"orderId": "o1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields: orderId and status", decodeJSON(t, rec)["error"])

	rec = srv.do(http.MethodPut, "/admin/update_order_status",
		`{"orderId": "missing", "status": "delivered"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", decodeJSON(t, rec)["error"])
}

func TestEditOrderEndpoint(t *testing.T) {
	srv := newTestServer()
	srv.orderRepo.Seed(entity.Order{ID: "o1", CustomerName: "Asha", OrderDate: "2025-01-01"})

	rec := srv.do(http.MethodPut, "/admin/edit_order/o1", `{"contact": "9876543210"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeJSON(t, rec)
	assert.Equal(t, "Order updated successfully", out["message"])
	order := out["order"].(map[string]any)
	assert.Equal(t, "9876543210", order["mobile"])
}

func TestEditOrderEndpointUnknownOrder(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(http.MethodPut, "/admin/edit_order/missing", `{"contact": "1"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", decodeJSON(t, rec)["error"])
}

func TestDailySummaryEndpoint(t *testing.T) {
	srv := newTestServer()
	today := time.Now().Format("2006-01-02")
	srv.orderRepo.Seed(entity.Order{
		ID: "o1", OrderDate: today, Total: 500,
		Items: []entity.OrderItem{{SweetName: "Ladoo", Quantity: 2, Price: 250}},
	})

	rec := srv.do(http.MethodGet, "/admin/daily_summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeJSON(t, rec)
	assert.Equal(t, 1.0, out["total_orders"])
	assert.Equal(t, 500.0, out["total_revenue"])
	assert.Equal(t, 2.0, out["total_items_sold"])

	popular := out["popular_sweets"].([]any)
	require.Len(t, popular, 1)
	assert.Equal(t, "Ladoo", popular[0].(map[string]any)["name"])
}

func TestDownloadStatementEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(http.MethodPost, "/admin/download_statement", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No orders available for statement", decodeJSON(t, rec)["error"])

	srv.orderRepo.Seed(entity.Order{ID: "o1", CustomerName: "Asha", Total: 500})
	rec = srv.do(http.MethodPost, "/admin/download_statement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "%PDF", rec.Body.String()[:4])
}

func TestContactEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(http.MethodPost, "/contact",
		`{"name": "Asha", "email": "asha@example.com", "message": "Do you deliver on Sundays?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Message sent successfully", decodeJSON(t, rec)["message"])

	rec = srv.do(http.MethodPost, "/contact", `{"name": "Asha"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields: name, email and message", decodeJSON(t, rec)["error"])
}

func TestGetOrdersEndpoint(t *testing.T) {
	srv := newTestServer()
	srv.orderRepo.Seed(entity.Order{ID: "o1", DeliveryDate: "2025-03-20"})
	srv.orderRepo.Seed(entity.Order{ID: "o2", DeliveryDate: "2025-03-11"})

	rec := srv.do(http.MethodGet, "/admin/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0]["_id"])
	assert.Equal(t, "o1", orders[1]["_id"])
}
