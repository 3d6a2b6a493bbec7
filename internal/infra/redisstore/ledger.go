package redisstore

import (
	"context"
	"fmt"
	"time"

	paydomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/payment"
)

// Providers redeliver for a few days at most.
const ledgerTTL = 72 * time.Hour

// WebhookLedger records processed webhook deliveries by event id.
type WebhookLedger struct {
	c *Client
}

func NewWebhookLedger(c *Client) *WebhookLedger {
	return &WebhookLedger{c: c}
}

func ledgerKey(eventID string) string {
	return fmt.Sprintf("webhook:event:%s", eventID)
}

func (l *WebhookLedger) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := l.c.rdb.Exists(ctx, ledgerKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("ledger exists: %w", err)
	}
	return n > 0, nil
}

func (l *WebhookLedger) Mark(ctx context.Context, eventID string) error {
	if err := l.c.rdb.Set(ctx, ledgerKey(eventID), time.Now().Unix(), ledgerTTL).Err(); err != nil {
		return fmt.Errorf("ledger mark: %w", err)
	}
	return nil
}

var _ paydomain.EventLedger = (*WebhookLedger)(nil)
