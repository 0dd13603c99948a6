// Package notify sends the transactional emails: order confirmation and
// status updates to the customer, low-stock alerts to the admin inbox.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/order"
)

// Message is one rendered email ready for a Sender.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a rendered message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationHTML))
	statusTmpl       = template.Must(template.New("status").Parse(statusHTML))
	lowStockTmpl     = template.Must(template.New("lowstock").Parse(lowStockHTML))
)

// Service renders and sends the three email kinds. AdminEmail receives
// the low-stock alerts.
type Service struct {
	Sender     Sender
	AdminEmail string
}

// OrderConfirmation emails the order acknowledgment with payment
// instructions to the order's customer.
func (s *Service) OrderConfirmation(ctx context.Context, o *order.Order) error {
	body, err := render(confirmationTmpl, o)
	if err != nil {
		return err
	}
	return s.Sender.Send(ctx, Message{
		To:      o.Customer.Email,
		Subject: fmt.Sprintf("Order Confirmation - %s", o.OrderNumber),
		HTML:    body,
	})
}

// StatusUpdate emails the customer about a fulfillment state change.
func (s *Service) StatusUpdate(ctx context.Context, o *order.Order, status order.Status) error {
	data := statusData{
		Order:   o,
		Status:  status,
		Message: statusMessage(status),
	}
	body, err := render(statusTmpl, data)
	if err != nil {
		return err
	}
	return s.Sender.Send(ctx, Message{
		To:      o.Customer.Email,
		Subject: fmt.Sprintf("Order Update - %s", o.OrderNumber),
		HTML:    body,
	})
}

// LowStock emails the admin the list of products running low.
func (s *Service) LowStock(ctx context.Context, products []catalog.Product) error {
	body, err := render(lowStockTmpl, products)
	if err != nil {
		return err
	}
	return s.Sender.Send(ctx, Message{
		To:      s.AdminEmail,
		Subject: "Low Stock Alert - SRR Farms",
		HTML:    body,
	})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("notify: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

type statusData struct {
	Order   *order.Order
	Status  order.Status
	Message string
}

func statusMessage(s order.Status) string {
	switch s {
	case order.StatusConfirmed:
		return "Your order has been confirmed and is being prepared."
	case order.StatusShipped:
		return "Your order has been shipped and is on its way!"
	case order.StatusDelivered:
		return "Your order has been delivered. Thank you for choosing SRR Farms!"
	}
	return fmt.Sprintf("Your order status has been updated to: %s", s)
}

const confirmationHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #ffaa00;">Order Confirmation</h2>
  <p>Dear {{.Customer.Name}},</p>
  <p>Thank you for your order! We've received your order and will process it shortly.</p>
  <div style="background: #f9f9f9; padding: 20px; margin: 20px 0;">
    <h3>Order Details</h3>
    <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
    <p><strong>Total Amount:</strong> &#8377;{{printf "%.2f" .Total}}</p>
    <p><strong>Status:</strong> {{.Status}}</p>
  </div>
  <div style="background: #fff3cd; padding: 15px; margin: 20px 0;">
    <h4>Payment Information</h4>
    <p>Please complete your payment using the following details:</p>
    <p><strong>UPI ID:</strong> 9490507045-4@ybl</p>
    <p><strong>Phone:</strong> +91 9490507045</p>
  </div>
  <p>For any queries, contact us at +91 9490507045 or reply to this email.</p>
  <p>Thank you for choosing SRR Farms!</p>
</div>`

const statusHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #ffaa00;">Order Status Update</h2>
  <p>Dear {{.Order.Customer.Name}},</p>
  <p>{{.Message}}</p>
  <div style="background: #f9f9f9; padding: 20px; margin: 20px 0;">
    <p><strong>Order Number:</strong> {{.Order.OrderNumber}}</p>
    <p><strong>Current Status:</strong> {{.Status}}</p>
    {{if .Order.TrackingNumber}}<p><strong>Tracking Number:</strong> {{.Order.TrackingNumber}}</p>{{end}}
  </div>
  <p>For any queries, contact us at +91 9490507045.</p>
  <p>Thank you for choosing SRR Farms!</p>
</div>`

const lowStockHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #ff6b6b;">Low Stock Alert</h2>
  <p>The following products are running low on stock:</p>
  <ul>
    {{range .}}<li>{{.Name}}{{if .Size}} ({{.Size}}){{end}} - Stock: {{.Stock}}</li>
    {{end}}
  </ul>
  <p>Please restock these items soon to avoid stockouts.</p>
</div>`
