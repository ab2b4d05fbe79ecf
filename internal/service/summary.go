package service

import (
	"context"
	"sort"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
)

// SweetSales is one entry of the popularity ranking. Sweets are grouped by
// their name string, so distinct catalog ids sharing a name merge.
type SweetSales struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// DailySummary aggregates the orders placed today.
type DailySummary struct {
	TotalOrders    int            `json:"total_orders"`
	TotalRevenue   float64        `json:"total_revenue"`
	TotalItemsSold float64        `json:"total_items_sold"`
	PopularSweets  []SweetSales   `json:"popular_sweets"`
	Orders         []entity.Order `json:"orders"`
}

// GetDailySummary computes the sales rollup for orders whose orderDate is
// today's server-local calendar date: order count, revenue, items sold and
// the top five sweets by quantity. Ties keep first-seen order.
func (s *OrderService) GetDailySummary(ctx context.Context) (DailySummary, error) {
	today := s.now().Format(dateLayout)
	orders, err := s.repo.FindByOrderDate(ctx, today)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading today's orders")
		return DailySummary{}, err
	}

	summary := DailySummary{
		TotalOrders:   len(orders),
		PopularSweets: []SweetSales{},
		Orders:        orders,
	}
	if orders == nil {
		summary.Orders = []entity.Order{}
	}

	stats := make(map[string]*SweetSales)
	var seen []string
	for _, order := range orders {
		summary.TotalRevenue += order.Total
		for _, item := range order.Items {
			name := item.DisplayName()
			summary.TotalItemsSold += item.Quantity

			entry, ok := stats[name]
			if !ok {
				entry = &SweetSales{Name: name}
				stats[name] = entry
				seen = append(seen, name)
			}
			entry.Quantity += item.Quantity
			entry.Revenue += item.Quantity * item.Price
		}
	}

	ranked := make([]SweetSales, 0, len(seen))
	for _, name := range seen {
		ranked = append(ranked, *stats[name])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	summary.PopularSweets = ranked
	return summary, nil
}
