package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
)

// OrderRepository is the storage surface the order service depends on.
// FindAll returns orders ascending by delivery date with undated orders
// last; FindByOrderDate returns a day's orders most recently created first.
// UpdateFields applies an atomic single-row partial update and returns the
// post-image.
type OrderRepository interface {
	Insert(ctx context.Context, order entity.Order) (entity.Order, error)
	FindAll(ctx context.Context) ([]entity.Order, error)
	FindByOrderDate(ctx context.Context, date string) ([]entity.Order, error)
	FindByID(ctx context.Context, id string) (entity.Order, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (entity.Order, error)
}

// Notifier receives the persisted order after commit. Implementations must
// never fail the order flow; errors stay inside the notifier.
type Notifier interface {
	OrderPlaced(order entity.Order)
}

// PlaceOrderInput carries an order placement payload. Numeric fields stay
// loosely typed because clients send them as numbers or strings.
type PlaceOrderInput struct {
	CustomerName string
	Mobile       string
	Address      string
	OrderDate    string
	DeliveryDate string
	Total        any
	Preference   string
	Items        []OrderItemInput
}

type OrderItemInput struct {
	SweetID   string
	SweetName string
	Quantity  any
	Unit      string
	Price     any
}

// orderFieldMap is the allow-list for partial edits: external payload key to
// internal field name. Unknown keys are dropped silently.
var orderFieldMap = map[string]string{
	"customerName": "customerName",
	"contact":      "mobile",
	"amount":       "total",
	"status":       "status",
	"address":      "address",
	"mobile":       "mobile",
	"total":        "total",
	"orderDate":    "orderDate",
	"deliveryDate": "deliveryDate",
	"preference":   "preference",
	"items":        "items",
}

// OrderService implements order placement, listing, status updates, partial
// edits and the daily sales rollup.
type OrderService struct {
	repo     OrderRepository
	notifier Notifier
	writer   *kafka.Writer
	now      func() time.Time
}

// NewOrderService creates a new instance of OrderService. notifier and
// writer may be nil, which disables the respective post-commit dispatch.
func NewOrderService(repo OrderRepository, notifier Notifier, writer *kafka.Writer) *OrderService {
	return &OrderService{repo: repo, notifier: notifier, writer: writer, now: time.Now}
}

// PlaceOrder validates, normalizes and persists a new order. Any validation
// failure rejects the whole order; nothing is written. Notifications and the
// order event are dispatched after the insert commits and cannot fail the
// placement.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (entity.Order, error) {
	if len(in.Items) == 0 {
		return entity.Order{}, entity.Invalidf("Order must contain at least one item")
	}
	if strings.TrimSpace(in.OrderDate) == "" {
		return entity.Order{}, entity.Invalidf("Order date is required")
	}
	if strings.TrimSpace(in.DeliveryDate) == "" {
		return entity.Order{}, entity.Invalidf("Delivery date is required")
	}
	if err := ValidateDates(in.OrderDate, in.DeliveryDate, s.now()); err != nil {
		return entity.Order{}, err
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, raw := range in.Items {
		item, err := normalizeOrderItem(raw, true)
		if err != nil {
			return entity.Order{}, err
		}
		items = append(items, item)
	}

	order := entity.Order{
		CustomerName: in.CustomerName,
		Mobile:       in.Mobile,
		Address:      in.Address,
		OrderDate:    in.OrderDate,
		DeliveryDate: in.DeliveryDate,
		Total:        entity.CoerceNumber(in.Total),
		Status:       entity.StatusPending,
		Preference:   in.Preference,
		Items:        items,
		CreatedAt:    s.now(),
	}

	created, err := s.repo.Insert(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msg("Error placing order")
		return entity.Order{}, err
	}
	logger.Info().Msgf("Order %s placed for %q, delivery %s", created.ID, created.CustomerName, created.DeliveryDate)

	s.dispatchPlaced(created)
	return created, nil
}

// GetOrders returns every order sorted ascending by delivery date; orders
// without one come last. Never errors on an empty collection.
func (s *OrderService) GetOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing orders")
		return nil, err
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return orders, nil
}

// UpdateOrderStatus sets an order to Delivered or Cancelled (any casing) and
// returns the updated order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, rawStatus string) (entity.Order, error) {
	status, err := entity.NormalizeStatus(rawStatus)
	if err != nil {
		return entity.Order{}, err
	}
	updated, err := s.repo.UpdateFields(ctx, orderID, map[string]any{
		"status":    status,
		"updatedAt": s.now(),
	})
	if err != nil {
		return entity.Order{}, err
	}
	logger.Info().Msgf("Order %s marked %s", updated.ID, status)
	return updated, nil
}

// EditOrder applies a partial update through the field allow-list. A
// deliveryDate change is re-validated against the order's existing orderDate
// (falling back to the creation date, then today). An update set that maps
// to nothing returns the current order untouched.
func (s *OrderService) EditOrder(ctx context.Context, orderID string, updates map[string]any) (entity.Order, error) {
	if deliveryDate, ok := updates["deliveryDate"].(string); ok && deliveryDate != "" {
		current, err := s.repo.FindByID(ctx, orderID)
		if err != nil {
			return entity.Order{}, err
		}
		orderDate := current.OrderDate
		if orderDate == "" {
			if !current.CreatedAt.IsZero() {
				orderDate = current.CreatedAt.Format(dateLayout)
			} else {
				orderDate = s.now().Format(dateLayout)
			}
		}
		if err := ValidateDates(orderDate, deliveryDate, s.now()); err != nil {
			return entity.Order{}, err
		}
	}

	fields := make(map[string]any)
	for key, value := range updates {
		dest, ok := orderFieldMap[key]
		if !ok {
			continue
		}
		switch dest {
		case "total":
			value = entity.CoerceNumber(value)
		case "items":
			items, err := normalizeItemUpdates(value)
			if err != nil {
				return entity.Order{}, err
			}
			if items == nil {
				continue
			}
			value = items
		default:
			text, ok := value.(string)
			if !ok {
				continue
			}
			value = text
		}
		fields[dest] = value
	}

	if len(fields) == 0 {
		// Nothing to update; hand back the current document.
		return s.repo.FindByID(ctx, orderID)
	}
	fields["updatedAt"] = s.now()

	updated, err := s.repo.UpdateFields(ctx, orderID, fields)
	if err != nil {
		return entity.Order{}, err
	}
	logger.Info().Msgf("Order %s edited (%d fields)", updated.ID, len(fields)-1)
	return updated, nil
}

// normalizeOrderItem coerces one item. strict is the placement path where
// sweetId and quantity are mandatory; the edit path defaults a missing or
// unreadable quantity to 1 instead. A quantity below 1 always rejects.
func normalizeOrderItem(in OrderItemInput, strict bool) (entity.OrderItem, error) {
	name := in.SweetName
	if name == "" {
		name = "Unknown"
	}
	item := entity.OrderItem{SweetID: in.SweetID, SweetName: in.SweetName}

	if strict && strings.TrimSpace(in.SweetID) == "" {
		return entity.OrderItem{}, entity.Invalidf("Missing sweetId for item: %s", name)
	}

	switch {
	case in.Quantity == nil:
		if strict {
			return entity.OrderItem{}, entity.Invalidf("Quantity is required for item: %s", name)
		}
		item.Quantity = 1
	default:
		quantity, ok := entity.ToNumber(in.Quantity)
		if !ok {
			if strict {
				return entity.OrderItem{}, entity.Invalidf("Invalid quantity for item: %s", name)
			}
			item.Quantity = 1
		} else if quantity < 1 {
			return entity.OrderItem{}, entity.Invalidf("Quantity must be at least 1 for item: %s", name)
		} else {
			item.Quantity = quantity
		}
	}

	item.Price = entity.CoerceNumber(in.Price)
	item.Unit = entity.NormalizeUnit(in.Unit)
	return item, nil
}

// normalizeItemUpdates handles the items value of an edit payload. Non-list
// values and non-object entries are dropped, matching the tolerant edit
// semantics of the rest of the field map.
func normalizeItemUpdates(value any) ([]entity.OrderItem, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, nil
	}
	items := make([]entity.OrderItem, 0, len(list))
	for _, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		in := OrderItemInput{
			SweetID:   stringField(obj, "sweetId"),
			SweetName: stringField(obj, "sweetName"),
			Unit:      stringField(obj, "unit"),
			Price:     obj["price"],
			Quantity:  obj["quantity"],
		}
		item, err := normalizeOrderItem(in, false)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func (s *OrderService) dispatchPlaced(order entity.Order) {
	if s.notifier != nil {
		go s.notifier.OrderPlaced(order)
	}
	if s.writer != nil {
		go func() {
			if err := s.publishOrderEvent(context.Background(), order, "placed"); err != nil {
				logger.Error().Err(err).Msgf("Error publishing event for order %s", order.ID)
			}
		}()
	}
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order entity.Order, event string) error {
	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%s", event, order.ID)),
		Value: orderJSON,
	}
	return s.writer.WriteMessages(ctx, msg)
}
