package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
)

// deliveryDateSentinel sorts orders without a delivery date last. It exists
// only at sort time and is never persisted.
const deliveryDateSentinel = "9999-12-31"

// orderColumns maps internal field names to their MySQL columns. Only fields
// listed here can ever be touched by a partial update.
var orderColumns = map[string]string{
	"customerName": "customer_name",
	"mobile":       "mobile",
	"address":      "address",
	"total":        "total",
	"status":       "status",
	"orderDate":    "order_date",
	"deliveryDate": "delivery_date",
	"preference":   "preference",
	"items":        "items",
	"updatedAt":    "updated_at",
}

// OrderRepository persists orders in MySQL. Each order is a single row with
// its item list stored inline as JSON; there is no separate item table.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderSelect = `SELECT id, customer_name, mobile, address, order_date, delivery_date, total, status, preference, items, created_at, updated_at FROM orders`

func (r *OrderRepository) Insert(ctx context.Context, order entity.Order) (entity.Order, error) {
	if r.db == nil {
		return entity.Order{}, entity.ErrStorageUnavailable
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return entity.Order{}, err
	}
	query := `INSERT INTO orders (id, customer_name, mobile, address, order_date, delivery_date, total, status, preference, items, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		order.ID, order.CustomerName, order.Mobile, order.Address,
		nullable(order.OrderDate), nullable(order.DeliveryDate),
		order.Total, order.Status, order.Preference, itemsJSON, order.CreatedAt)
	if err != nil {
		return entity.Order{}, err
	}
	return order, nil
}

// FindAll returns every order sorted ascending by delivery date with orders
// lacking one at the end.
func (r *OrderRepository) FindAll(ctx context.Context) ([]entity.Order, error) {
	if r.db == nil {
		logger.Warn().Msg("Database not connected; returning empty orders list")
		return nil, nil
	}
	query := orderSelect + fmt.Sprintf(` ORDER BY COALESCE(delivery_date, '%s') ASC`, deliveryDateSentinel)
	return r.queryOrders(ctx, query)
}

// FindByOrderDate returns the orders placed on the given calendar date,
// most recently created first.
func (r *OrderRepository) FindByOrderDate(ctx context.Context, date string) ([]entity.Order, error) {
	if r.db == nil {
		logger.Warn().Msg("Database not connected; returning empty orders list")
		return nil, nil
	}
	return r.queryOrders(ctx, orderSelect+` WHERE order_date = ? ORDER BY created_at DESC`, date)
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (entity.Order, error) {
	if r.db == nil {
		return entity.Order{}, entity.ErrStorageUnavailable
	}
	if _, err := uuid.Parse(id); err != nil {
		return entity.Order{}, entity.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, orderSelect+` WHERE id = ?`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Order{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.Order{}, err
	}
	return order, nil
}

// UpdateFields applies a partial update in a single statement and returns the
// post-image. Field names follow the internal naming in orderColumns; unknown
// fields are rejected outright since callers must allow-list them first.
func (r *OrderRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (entity.Order, error) {
	if r.db == nil {
		return entity.Order{}, entity.ErrStorageUnavailable
	}
	if _, err := uuid.Parse(id); err != nil {
		return entity.Order{}, entity.ErrNotFound
	}

	assignments := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for field, value := range fields {
		column, ok := orderColumns[field]
		if !ok {
			return entity.Order{}, fmt.Errorf("unmapped order field %q", field)
		}
		if items, ok := value.([]entity.OrderItem); ok {
			encoded, err := json.Marshal(items)
			if err != nil {
				return entity.Order{}, err
			}
			value = encoded
		}
		assignments = append(assignments, column+" = ?")
		args = append(args, value)
	}
	if len(assignments) == 0 {
		return r.FindByID(ctx, id)
	}
	args = append(args, id)

	query := "UPDATE orders SET "
	for i, assignment := range assignments {
		if i > 0 {
			query += ", "
		}
		query += assignment
	}
	query += " WHERE id = ?"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return entity.Order{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(row rowScanner) (entity.Order, error) {
	var o entity.Order
	var address, orderDate, deliveryDate, preference sql.NullString
	var itemsJSON []byte
	var createdAt, updatedAt sql.NullTime
	err := row.Scan(&o.ID, &o.CustomerName, &o.Mobile, &address, &orderDate, &deliveryDate,
		&o.Total, &o.Status, &preference, &itemsJSON, &createdAt, &updatedAt)
	if err != nil {
		return entity.Order{}, err
	}
	o.Address = address.String
	o.OrderDate = orderDate.String
	o.DeliveryDate = deliveryDate.String
	o.Preference = preference.String
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			logger.Warn().Err(err).Msgf("Unreadable items payload on order %s", o.ID)
		}
	}
	o.Items = entity.NormalizeItems(o.Items)
	return o, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
