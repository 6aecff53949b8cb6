package utils

import (
	"testing"

	"github.com/Kariqs/fishing-store-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrderEmail(t *testing.T) {
	t.Setenv("FROM_EMAIL", "shop@example.com")

	message, err := renderOrderEmail("Order abc received", OrderEmailData{
		Name: "ann",
		Order: models.OrderResponse{
			Reference:   "abc",
			TotalAmount: "25.00",
			Address:     "1 Harbour <Road>",
			Items: []models.OrderItemResponse{
				{ProductName: "Circle Hooks", Quantity: 2, Price: "10.00"},
			},
		},
	})
	require.NoError(t, err)

	body := string(message)
	assert.Contains(t, body, "From: shop@example.com\r\n")
	assert.Contains(t, body, "Subject: Order abc received\r\n")
	assert.Contains(t, body, "<td>Circle Hooks</td><td>2</td><td>10.00</td>")
	assert.Contains(t, body, "1 Harbour &lt;Road&gt;")
}

func TestMailEnabled(t *testing.T) {
	t.Setenv("SMTP_ADDRESS", "")
	t.Setenv("FROM_EMAIL", "shop@example.com")
	assert.False(t, MailEnabled())

	t.Setenv("SMTP_ADDRESS", "smtp.example.com:587")
	assert.True(t, MailEnabled())
}
