package entity

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	StatusPending   = "Pending"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

const timestampLayout = "2006-01-02 15:04:05"

type OrderItem struct {
	SweetID   string `json:"sweetId"`
	SweetName string `json:"sweetName,omitempty"`
	// Name is a legacy alias for SweetName kept for old persisted items.
	Name     string  `json:"name,omitempty"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
}

// DisplayName resolves the item name used for aggregation and error messages.
func (i OrderItem) DisplayName() string {
	if i.SweetName != "" {
		return i.SweetName
	}
	if i.Name != "" {
		return i.Name
	}
	return "Unknown"
}

type Order struct {
	ID           string
	CustomerName string
	Mobile       string
	Address      string
	OrderDate    string
	DeliveryDate string
	Total        float64
	Status       string
	Preference   string
	Items        []OrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MarshalJSON keeps the wire format the frontend already speaks: string _id,
// camelCase fields and "YYYY-MM-DD HH:MM:SS" timestamps.
func (o Order) MarshalJSON() ([]byte, error) {
	items := o.Items
	if items == nil {
		items = []OrderItem{}
	}
	out := map[string]any{
		"_id":          o.ID,
		"customerName": o.CustomerName,
		"mobile":       o.Mobile,
		"address":      o.Address,
		"orderDate":    o.OrderDate,
		"deliveryDate": o.DeliveryDate,
		"total":        o.Total,
		"status":       o.Status,
		"items":        items,
	}
	if o.Preference != "" {
		out["preference"] = o.Preference
	}
	if !o.CreatedAt.IsZero() {
		out["createdAt"] = o.CreatedAt.Format(timestampLayout)
	}
	if !o.UpdatedAt.IsZero() {
		out["updatedAt"] = o.UpdatedAt.Format(timestampLayout)
	}
	return json.Marshal(out)
}

// NormalizeStatus maps case-insensitive status input to its canonical form.
// Only Delivered and Cancelled can be set explicitly.
func NormalizeStatus(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "delivered":
		return StatusDelivered, nil
	case "cancelled":
		return StatusCancelled, nil
	default:
		return "", Invalidf("Invalid status. Allowed values: Delivered or Cancelled")
	}
}

// NormalizeItems backfills quantity and unit on items read from storage.
// Orders persisted before those fields existed carry neither.
func NormalizeItems(items []OrderItem) []OrderItem {
	if items == nil {
		return nil
	}
	out := make([]OrderItem, len(items))
	for i, item := range items {
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if item.Unit == "" {
			item.Unit = UnitKg
		}
		out[i] = item
	}
	return out
}
