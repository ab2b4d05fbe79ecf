package notify

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
)

// RenderInvoice renders a single-order invoice as PDF bytes.
func RenderInvoice(order entity.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	writeTitle(pdf, "Order Invoice")

	pdf.SetFont("Helvetica", "", 10)
	info := [][2]string{
		{"Order ID:", order.ID},
		{"Customer Name:", valueOr(order.CustomerName, "N/A")},
		{"Mobile:", valueOr(order.Mobile, "N/A")},
		{"Address:", valueOr(order.Address, "N/A")},
		{"Order Date:", valueOr(order.OrderDate, "N/A")},
		{"Delivery Date:", valueOr(order.DeliveryDate, "N/A")},
	}
	for _, row := range info {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	writeItemsTable(pdf, order.Items, order.Total)
	writeFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderStatement renders all orders into one statement PDF, one section per
// order in the given order.
func RenderStatement(orders []entity.Order) ([]byte, error) {
	if len(orders) == 0 {
		return nil, errors.New("no orders to render")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	writeTitle(pdf, "Order Statement")

	pdf.SetFont("Helvetica", "B", 10)
	headers := []struct {
		label string
		width float64
	}{
		{"Order ID", 52}, {"Customer", 38}, {"Order Date", 26}, {"Delivery", 26}, {"Status", 22}, {"Total", 26},
	}
	for _, h := range headers {
		pdf.CellFormat(h.width, 8, h.label, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	var grandTotal float64
	for _, order := range orders {
		grandTotal += order.Total
		cells := []string{
			order.ID,
			valueOr(order.CustomerName, "N/A"),
			valueOr(order.OrderDate, "N/A"),
			valueOr(order.DeliveryDate, "N/A"),
			valueOr(order.Status, entity.StatusPending),
			fmt.Sprintf("Rs. %.2f", order.Total),
		}
		for i, cell := range cells {
			align := "L"
			if i == len(cells)-1 {
				align = "R"
			}
			pdf.CellFormat(headers[i].width, 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(164, 8, "Grand Total:", "1", 0, "R", false, 0, "")
	pdf.CellFormat(26, 8, fmt.Sprintf("Rs. %.2f", grandTotal), "1", 1, "R", false, 0, "")

	writeFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTitle(pdf *gofpdf.Fpdf, subtitle string) {
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(210, 105, 30)
	pdf.CellFormat(0, 12, "Sweet Store", "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func writeItemsTable(pdf *gofpdf.Fpdf, items []entity.OrderItem, total float64) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Order Items", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	widths := []float64{12, 66, 26, 22, 30, 34}
	headers := []string{"#", "Item Name", "Quantity", "Unit", "Price", "Total"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(255, 215, 0)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for idx, item := range items {
		lineTotal := item.Quantity * item.Price
		cells := []string{
			fmt.Sprintf("%d", idx+1),
			item.DisplayName(),
			fmt.Sprintf("%g", item.Quantity),
			item.Unit,
			fmt.Sprintf("Rs. %.2f", item.Price),
			fmt.Sprintf("Rs. %.2f", lineTotal),
		}
		for i, cell := range cells {
			align := "R"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 8, "Grand Total:", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4]+widths[5], 8, fmt.Sprintf("Rs. %.2f", total), "1", 1, "R", false, 0, "")
}

func writeFooter(pdf *gofpdf.Fpdf) {
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 5, "Thank you for your order!", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Generated on: "+time.Now().Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
