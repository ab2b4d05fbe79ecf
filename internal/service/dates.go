package service

import (
	"time"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
)

const dateLayout = "2006-01-02"

// ValidateDates checks an order/delivery date pair against the business
// rules: strict YYYY-MM-DD format, neither date in the past, delivery on or
// after the order date. today is injected so the check stays deterministic
// under test; callers bind it to the server-local wall clock.
func ValidateDates(orderDateStr, deliveryDateStr string, today time.Time) error {
	orderDate, err := time.Parse(dateLayout, orderDateStr)
	if err != nil {
		return entity.Invalidf("Invalid date format. Expected YYYY-MM-DD.")
	}
	deliveryDate, err := time.Parse(dateLayout, deliveryDateStr)
	if err != nil {
		return entity.Invalidf("Invalid date format. Expected YYYY-MM-DD.")
	}

	// Truncate the clock to a calendar date so "today" compares equal.
	todayDate, err := time.Parse(dateLayout, today.Format(dateLayout))
	if err != nil {
		return err
	}

	if orderDate.Before(todayDate) {
		return entity.Invalidf("Order date cannot be in the past.")
	}
	if deliveryDate.Before(todayDate) {
		return entity.Invalidf("Delivery date cannot be in the past.")
	}
	if deliveryDate.Before(orderDate) {
		return entity.Invalidf("Delivery date must be on or after the order date.")
	}
	return nil
}
