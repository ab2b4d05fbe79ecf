package notify

import (
	"fmt"
	"html/template"
	"os"

	"github.com/rs/zerolog"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Manager sends post-commit notifications to the store manager. Every
// failure is logged and swallowed; nothing here may surface to the order
// flow or trigger a retry.
type Manager struct {
	mailer       *Mailer
	managerEmail string
}

func NewManager(mailer *Mailer, managerEmail string) *Manager {
	return &Manager{mailer: mailer, managerEmail: managerEmail}
}

// OrderPlaced renders the invoice PDF and mails it to the manager.
func (m *Manager) OrderPlaced(order entity.Order) {
	if m.managerEmail == "" {
		logger.Warn().Msg("Manager email not configured; skipping order notification")
		return
	}

	invoice, err := RenderInvoice(order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error generating invoice for order %s", order.ID)
		invoice = nil
	}

	customer := order.CustomerName
	if customer == "" {
		customer = "Customer"
	}
	subject := fmt.Sprintf("New Order #%s - %s", order.ID, customer)
	body := orderMailBody(order, customer)
	attachmentName := fmt.Sprintf("invoice_%s.pdf", order.ID)

	if err := m.mailer.Send(m.managerEmail, subject, body, invoice, attachmentName); err != nil {
		logger.Error().Err(err).Msgf("Error sending invoice email for order %s", order.ID)
		return
	}
	logger.Info().Msgf("Invoice email sent for order %s", order.ID)
}

// ContactMessage forwards a contact form submission to the manager.
func (m *Manager) ContactMessage(name, email, phone, message string) {
	if m.managerEmail == "" {
		logger.Warn().Msg("Manager email not configured; skipping contact notification")
		return
	}

	subject := fmt.Sprintf("New Contact Form Submission from %s", name)
	body := contactMailBody(name, email, phone, message)
	if err := m.mailer.Send(m.managerEmail, subject, body, nil, ""); err != nil {
		logger.Error().Err(err).Msgf("Error sending contact email from %q", email)
		return
	}
	logger.Info().Msgf("Contact email sent from %q", email)
}

func orderMailBody(order entity.Order, customer string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h1 style="background-color: #FFD700; padding: 16px; text-align: center; margin: 0;">Sweet Store</h1>
  <h2 style="color: #D2691E;">New Order Received!</h2>
  <table style="border-collapse: collapse; margin: 16px 0;">
    <tr><td style="padding: 8px; font-weight: bold;">Order ID:</td><td style="padding: 8px;">%s</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Customer:</td><td style="padding: 8px;">%s</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Mobile:</td><td style="padding: 8px;">%s</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Total Amount:</td><td style="padding: 8px; font-weight: bold; color: #D2691E;">Rs. %.2f</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Delivery Date:</td><td style="padding: 8px;">%s</td></tr>
  </table>
  <p>The detailed invoice PDF is attached. You can update the order status from the admin panel.</p>
  <p style="color: #666; font-size: 12px;">This is an automated notification from Sweet Store Management System</p>
</body>
</html>`,
		template.HTMLEscapeString(order.ID),
		template.HTMLEscapeString(customer),
		template.HTMLEscapeString(order.Mobile),
		order.Total,
		template.HTMLEscapeString(order.DeliveryDate))
}

func contactMailBody(name, email, phone, message string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h1 style="background-color: #C41E3A; color: white; padding: 16px; text-align: center; margin: 0;">Sweet Store</h1>
  <h2 style="color: #C41E3A;">New Contact Form Message</h2>
  <table style="border-collapse: collapse; margin: 16px 0;">
    <tr><td style="padding: 8px; font-weight: bold;">Name:</td><td style="padding: 8px;">%s</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Email:</td><td style="padding: 8px;">%s</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Phone:</td><td style="padding: 8px;">%s</td></tr>
  </table>
  <div style="background-color: #FFF8DC; padding: 16px; border-left: 4px solid #C41E3A; white-space: pre-wrap;">%s</div>
  <p>Please respond to this inquiry at your earliest convenience.</p>
  <p style="color: #666; font-size: 12px;">This is an automated notification from Sweet Store Contact Form</p>
</body>
</html>`,
		template.HTMLEscapeString(name),
		template.HTMLEscapeString(email),
		template.HTMLEscapeString(phone),
		template.HTMLEscapeString(message))
}
