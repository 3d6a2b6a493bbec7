package testfixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	paydomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/payment"
)

// SignatureHeader carries the shared secret in webhook deliveries to the
// fake provider.
const SignatureHeader = "X-Test-Signature"

// Provider is an in-memory payment provider.
type Provider struct {
	mu      sync.Mutex
	intents map[string]paydomain.Intent
	seq     int

	Secret    string
	CreateErr error
	GetErr    error
	Requests  []paydomain.IntentRequest
}

func NewProvider() *Provider {
	return &Provider{
		intents: make(map[string]paydomain.Intent),
		Secret:  "whsec_test",
	}
}

func (p *Provider) Name() string { return "fake" }

func (p *Provider) CreateIntent(_ context.Context, req paydomain.IntentRequest) (*paydomain.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.CreateErr != nil {
		return nil, p.CreateErr
	}
	p.Requests = append(p.Requests, req)

	p.seq++
	in := paydomain.Intent{
		ID:            fmt.Sprintf("pi_%d", p.seq),
		Status:        paydomain.IntentPending,
		AmountCents:   req.AmountCents,
		ClientSecret:  fmt.Sprintf("pi_%d_secret", p.seq),
		AppointmentID: req.AppointmentID,
	}
	p.intents[in.ID] = in
	return &in, nil
}

func (p *Provider) GetIntent(_ context.Context, id string) (*paydomain.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.GetErr != nil {
		return nil, p.GetErr
	}
	in, ok := p.intents[id]
	if !ok {
		return nil, paydomain.ErrIntentNotFound
	}
	return &in, nil
}

// PutIntent registers or replaces an intent.
func (p *Provider) PutIntent(in paydomain.Intent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intents[in.ID] = in
}

func (p *Provider) SetStatus(id string, status paydomain.IntentStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	in := p.intents[id]
	in.ID = id
	in.Status = status
	p.intents[id] = in
}

type webhookBody struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	IntentID string `json:"intentId"`
}

func (p *Provider) ParseWebhook(body []byte, headers http.Header) (*paydomain.WebhookEvent, error) {
	if headers.Get(SignatureHeader) != p.Secret {
		return nil, paydomain.ErrInvalidSignature
	}
	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	return &paydomain.WebhookEvent{ID: wb.ID, Type: wb.Type, IntentID: wb.IntentID}, nil
}

// WebhookRequest builds a signed body and headers for the fake provider.
func (p *Provider) WebhookRequest(eventID, intentID string) ([]byte, http.Header) {
	body, _ := json.Marshal(webhookBody{ID: eventID, Type: "payment", IntentID: intentID})
	h := http.Header{}
	h.Set(SignatureHeader, p.Secret)
	return body, h
}

var _ paydomain.Provider = (*Provider)(nil)

// ======================================================
// Ledger, cache, archive
// ======================================================

type Ledger struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]bool)}
}

func (l *Ledger) Seen(_ context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[id], nil
}

func (l *Ledger) Mark(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[id] = true
	return nil
}

// Cache stores JSON encodings so hits decode the way a real cache would.
type Cache struct {
	mu   sync.Mutex
	data map[string][]byte
	Sets int
}

func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = b
	c.Sets++
	return nil
}

type Archive struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func NewArchive() *Archive {
	return &Archive{Objects: make(map[string][]byte)}
}

func (a *Archive) Put(_ context.Context, key string, body []byte, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Objects[key] = body
	return nil
}

// ErrProviderDown is a canned transport failure.
var ErrProviderDown = errors.New("provider unreachable")
