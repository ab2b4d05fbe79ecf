package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
	"github.com/dip04-eng/Sweet-store-backend/internal/notify"
	"github.com/dip04-eng/Sweet-store-backend/internal/service"
)

// Handler exposes the HTTP surface: the public catalog and order endpoints
// plus the admin routes.
type Handler struct {
	sweetService *service.SweetService
	orderService *service.OrderService
	notifier     *notify.Manager
}

// NewHandler creates a new instance of Handler. notifier may be nil when
// mail is not configured.
func NewHandler(sweetService *service.SweetService, orderService *service.OrderService, notifier *notify.Manager) *Handler {
	return &Handler{sweetService: sweetService, orderService: orderService, notifier: notifier}
}

type addSweetRequest struct {
	Name            *string `json:"name"`
	Rate            any     `json:"rate"`
	Description     *string `json:"description"`
	Image           string  `json:"image"`
	ImageURL        string  `json:"image_url"`
	ImageURLCamel   string  `json:"imageUrl"`
	Category        string  `json:"category"`
	Unit            *string `json:"unit"`
	ExistingSweetID string  `json:"existingSweetId"`
}

type orderItemRequest struct {
	SweetID   string `json:"sweetId"`
	SweetName string `json:"sweetName"`
	Quantity  any    `json:"quantity"`
	Unit      string `json:"unit"`
	Price     any    `json:"price"`
}

type placeOrderRequest struct {
	CustomerName string             `json:"customerName"`
	Mobile       string             `json:"mobile"`
	Address      string             `json:"address"`
	OrderDate    string             `json:"orderDate"`
	DeliveryDate string             `json:"deliveryDate"`
	Total        any                `json:"total"`
	Preference   string             `json:"preference"`
	Items        []orderItemRequest `json:"items"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// GetSweets lists the catalog --> GET /sweets?category=
func (h *Handler) GetSweets(c echo.Context) error {
	sweets, err := h.sweetService.GetSweets(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, sweets)
}

// PlaceOrder creates a new order --> POST /place_order
func (h *Handler) PlaceOrder(c echo.Context) error {
	req := placeOrderRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	in := service.PlaceOrderInput{
		CustomerName: req.CustomerName,
		Mobile:       req.Mobile,
		Address:      req.Address,
		OrderDate:    req.OrderDate,
		DeliveryDate: req.DeliveryDate,
		Total:        req.Total,
		Preference:   req.Preference,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.OrderItemInput(item))
	}

	created, err := h.orderService.PlaceOrder(c.Request().Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message":      "Order placed successfully!",
		"orderDate":    created.OrderDate,
		"deliveryDate": created.DeliveryDate,
		"total":        created.Total,
		"customerName": created.CustomerName,
	})
}

// AddSweet adds or clones a catalog record --> POST /admin/add_sweet
func (h *Handler) AddSweet(c echo.Context) error {
	req := addSweetRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	// The image may arrive under any of the legacy payload keys.
	image := req.Image
	if image == "" {
		image = req.ImageURL
	}
	if image == "" {
		image = req.ImageURLCamel
	}

	created, err := h.sweetService.AddSweet(c.Request().Context(), service.AddSweetInput{
		Name:            req.Name,
		Rate:            req.Rate,
		Description:     req.Description,
		Image:           image,
		Category:        req.Category,
		Unit:            req.Unit,
		ExistingSweetID: req.ExistingSweetID,
	})
	if errors.Is(err, entity.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Existing sweet not found"})
	}
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Sweet added successfully",
		"sweet":   created.Name,
	})
}

// RemoveSweet deletes a catalog record by name --> DELETE /admin/remove_sweet?name=
func (h *Handler) RemoveSweet(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Sweet name is required"})
	}
	if err := h.sweetService.RemoveSweet(c.Request().Context(), name); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": fmt.Sprintf("Sweet '%s' removed successfully", name)})
}

// GetOrders lists every order --> GET /admin/orders
func (h *Handler) GetOrders(c echo.Context) error {
	orders, err := h.orderService.GetOrders(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// DailySummary returns today's sales rollup --> GET /admin/daily_summary
func (h *Handler) DailySummary(c echo.Context) error {
	summary, err := h.orderService.GetDailySummary(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// UpdateOrderStatus marks an order Delivered or Cancelled -->
// PUT /admin/update_order_status. The order id and status are accepted from
// the JSON body or from query parameters.
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	body := struct {
		OrderID string `json:"orderId"`
		MongoID string `json:"_id"`
		ID      string `json:"id"`
		Status  string `json:"status"`
	}{}
	_ = c.Bind(&body)

	orderID := firstNonEmpty(body.OrderID, body.MongoID, body.ID,
		c.QueryParam("orderId"), c.QueryParam("_id"), c.QueryParam("id"))
	status := firstNonEmpty(body.Status, c.QueryParam("status"))

	if orderID == "" || status == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields: orderId and status"})
	}

	updated, err := h.orderService.UpdateOrderStatus(c.Request().Context(), orderID, status)
	if err != nil {
		return errorJSON(c, err)
	}

	message := "Order Cancelled"
	if updated.Status == entity.StatusDelivered {
		message = "Order marked as Delivered"
	}
	return c.JSON(http.StatusOK, map[string]any{"message": message, "order": updated})
}

// EditOrder applies a partial update --> PUT /admin/edit_order/:id
func (h *Handler) EditOrder(c echo.Context) error {
	updates := map[string]any{}
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	updated, err := h.orderService.EditOrder(c.Request().Context(), c.Param("id"), updates)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Order updated successfully", "order": updated})
}

// DownloadStatement exports all orders as one PDF --> POST /admin/download_statement
func (h *Handler) DownloadStatement(c echo.Context) error {
	orders, err := h.orderService.GetOrders(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	if len(orders) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No orders available for statement"})
	}

	statement, err := notify.RenderStatement(orders)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate statement"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="statement.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", statement)
}

// Contact forwards a contact form submission to the manager --> POST /contact
func (h *Handler) Contact(c echo.Context) error {
	req := contactRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields: name, email and message"})
	}

	if h.notifier != nil {
		go h.notifier.ContactMessage(req.Name, req.Email, req.Phone, req.Message)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Message sent successfully"})
}

// errorJSON maps the error taxonomy onto HTTP statuses.
func errorJSON(c echo.Context, err error) error {
	switch {
	case entity.IsValidation(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, entity.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	case errors.Is(err, entity.ErrStorageUnavailable):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Database not connected"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
