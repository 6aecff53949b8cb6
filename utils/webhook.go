package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Kariqs/fishing-store-api/models"
	"github.com/go-resty/resty/v2"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	Event string               `json:"event"`
	Order models.OrderResponse `json:"order"`
}

// OrderNotifier posts order events to an external fulfilment endpoint.
type OrderNotifier struct {
	client *resty.Client
	url    string
	secret string
}

func NewOrderNotifier(url, secret string) *OrderNotifier {
	return &OrderNotifier{
		client: resty.New().SetTimeout(10 * time.Second),
		url:    url,
		secret: secret,
	}
}

// NewOrderNotifierFromEnv returns nil when ORDER_WEBHOOK_URL is unset.
func NewOrderNotifierFromEnv() *OrderNotifier {
	url := os.Getenv("ORDER_WEBHOOK_URL")
	if url == "" {
		return nil
	}
	return NewOrderNotifier(url, os.Getenv("ORDER_WEBHOOK_SECRET"))
}

func (n *OrderNotifier) Notify(ctx context.Context, event OrderEvent) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("X-Webhook-Secret", n.secret).
		SetBody(event).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("order webhook request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("order webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}
