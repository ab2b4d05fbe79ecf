package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
)

// MemorySweetRepository is a mutex-guarded in-memory catalog used by tests
// and local development. It mirrors the MySQL repository's read-boundary
// normalization so callers see identical behavior.
type MemorySweetRepository struct {
	mu sync.Mutex
	// LegacyImages maps sweet id to a legacy image_url value, emulating
	// records imported from the old system.
	LegacyImages map[string]string
	sweets       []entity.Sweet
}

func NewMemorySweetRepository() *MemorySweetRepository {
	return &MemorySweetRepository{LegacyImages: make(map[string]string)}
}

// Seed stores a record verbatim, bypassing write-path normalization. Tests
// use it to plant legacy rows with missing fields.
func (r *MemorySweetRepository) Seed(sweet entity.Sweet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweets = append(r.sweets, sweet)
}

func (r *MemorySweetRepository) Insert(ctx context.Context, sweet entity.Sweet) (entity.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sweet.ID == "" {
		sweet.ID = uuid.NewString()
	}
	r.sweets = append(r.sweets, sweet)
	return sweet, nil
}

func (r *MemorySweetRepository) FindAll(ctx context.Context, category string) ([]entity.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	filter := strings.ToLower(category)
	var out []entity.Sweet
	for _, sweet := range r.sweets {
		if filter != "" && !strings.Contains(strings.ToLower(sweet.Category), filter) {
			continue
		}
		out = append(out, entity.NormalizeSweet(sweet, r.LegacyImages[sweet.ID]))
	}
	return out, nil
}

func (r *MemorySweetRepository) FindByID(ctx context.Context, id string) (entity.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sweet := range r.sweets {
		if sweet.ID == id {
			return entity.NormalizeSweet(sweet, r.LegacyImages[sweet.ID]), nil
		}
	}
	return entity.Sweet{}, entity.ErrNotFound
}

func (r *MemorySweetRepository) DeleteByName(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.sweets[:0]
	for _, sweet := range r.sweets {
		if sweet.Name != name {
			kept = append(kept, sweet)
		}
	}
	r.sweets = kept
	return nil
}

// MemoryOrderRepository is the in-memory counterpart of OrderRepository.
type MemoryOrderRepository struct {
	mu     sync.Mutex
	orders []entity.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

// Seed stores an order verbatim, bypassing write-path normalization.
func (r *MemoryOrderRepository) Seed(order entity.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
}

func (r *MemoryOrderRepository) Insert(ctx context.Context, order entity.Order) (entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	r.orders = append(r.orders, order)
	return order, nil
}

func (r *MemoryOrderRepository) FindAll(ctx context.Context) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Order, len(r.orders))
	for i, order := range r.orders {
		out[i] = normalizeOrderRead(order)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sortableDeliveryDate(out[i]) < sortableDeliveryDate(out[j])
	})
	return out, nil
}

func (r *MemoryOrderRepository) FindByOrderDate(ctx context.Context, date string) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, order := range r.orders {
		if order.OrderDate == date {
			out = append(out, normalizeOrderRead(order))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryOrderRepository) FindByID(ctx context.Context, id string) (entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.ID == id {
			return normalizeOrderRead(order), nil
		}
	}
	return entity.Order{}, entity.ErrNotFound
}

func (r *MemoryOrderRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID != id {
			continue
		}
		order := &r.orders[i]
		for field, value := range fields {
			switch field {
			case "customerName":
				order.CustomerName, _ = value.(string)
			case "mobile":
				order.Mobile, _ = value.(string)
			case "address":
				order.Address, _ = value.(string)
			case "total":
				order.Total, _ = value.(float64)
			case "status":
				order.Status, _ = value.(string)
			case "orderDate":
				order.OrderDate, _ = value.(string)
			case "deliveryDate":
				order.DeliveryDate, _ = value.(string)
			case "preference":
				order.Preference, _ = value.(string)
			case "items":
				if items, ok := value.([]entity.OrderItem); ok {
					order.Items = items
				}
			case "updatedAt":
				if ts, ok := value.(time.Time); ok {
					order.UpdatedAt = ts
				}
			}
		}
		return normalizeOrderRead(*order), nil
	}
	return entity.Order{}, entity.ErrNotFound
}

func normalizeOrderRead(order entity.Order) entity.Order {
	order.Items = entity.NormalizeItems(order.Items)
	return order
}

func sortableDeliveryDate(order entity.Order) string {
	if order.DeliveryDate == "" {
		return deliveryDateSentinel
	}
	return order.DeliveryDate
}
