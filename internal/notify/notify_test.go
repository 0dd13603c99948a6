package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/order"
)

type captureSender struct {
	sent []Message
}

func (c *captureSender) Send(_ context.Context, msg Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func sampleOrder() *order.Order {
	return &order.Order{
		ID:          "ord-1",
		OrderNumber: "SRR000042",
		Customer: order.Contact{
			Name:  "Asha Rao",
			Email: "asha@example.com",
		},
		Total:  1560.50,
		Status: order.StatusPending,
	}
}

func TestOrderConfirmation(t *testing.T) {
	sender := &captureSender{}
	svc := &Service{Sender: sender}

	require.NoError(t, svc.OrderConfirmation(context.Background(), sampleOrder()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "asha@example.com", msg.To)
	assert.Equal(t, "Order Confirmation - SRR000042", msg.Subject)
	assert.Contains(t, msg.HTML, "Dear Asha Rao")
	assert.Contains(t, msg.HTML, "SRR000042")
	assert.Contains(t, msg.HTML, "1560.50")
	assert.Contains(t, msg.HTML, "Payment Information")
}

func TestStatusUpdateMessages(t *testing.T) {
	for status, want := range map[order.Status]string{
		order.StatusConfirmed:  "has been confirmed",
		order.StatusShipped:    "has been shipped",
		order.StatusDelivered:  "has been delivered",
		order.StatusProcessing: "updated to: processing",
	} {
		sender := &captureSender{}
		svc := &Service{Sender: sender}

		require.NoError(t, svc.StatusUpdate(context.Background(), sampleOrder(), status))
		require.Len(t, sender.sent, 1)
		assert.Contains(t, sender.sent[0].HTML, want)
		assert.Equal(t, "Order Update - SRR000042", sender.sent[0].Subject)
	}
}

func TestStatusUpdateIncludesTrackingWhenSet(t *testing.T) {
	sender := &captureSender{}
	svc := &Service{Sender: sender}

	o := sampleOrder()
	require.NoError(t, svc.StatusUpdate(context.Background(), o, order.StatusShipped))
	assert.NotContains(t, sender.sent[0].HTML, "Tracking Number")

	o.TrackingNumber = "TRK987"
	require.NoError(t, svc.StatusUpdate(context.Background(), o, order.StatusShipped))
	assert.Contains(t, sender.sent[1].HTML, "TRK987")
}

func TestLowStockGoesToAdmin(t *testing.T) {
	sender := &captureSender{}
	svc := &Service{Sender: sender, AdminEmail: "admin@srrfarms.example"}

	products := []catalog.Product{
		{Name: "Ghee", Size: "250ml", Stock: 2},
		{Name: "Milk", Stock: 0},
	}
	require.NoError(t, svc.LowStock(context.Background(), products))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "admin@srrfarms.example", msg.To)
	assert.Equal(t, "Low Stock Alert - SRR Farms", msg.Subject)
	assert.Contains(t, msg.HTML, "Ghee (250ml) - Stock: 2")
	assert.Contains(t, msg.HTML, "Milk - Stock: 0")
}
