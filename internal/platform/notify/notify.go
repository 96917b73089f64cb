// Package notify delivers vital-sign alert pushes to on-call staff and keeps
// an in-memory log of every attempt for the dashboard's notification view.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Record is one dispatched (or attempted) notification.
type Record struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

// Sender is the delivery channel behind the manager.
type Sender interface {
	Send(ctx context.Context, title, body string) error
}

// ---------------------------------------------------------------------------
// Webhook sender
// ---------------------------------------------------------------------------

// WebhookSender POSTs the alert as JSON to a staff-paging endpoint (the
// production channel: an FCM/APNS relay or an on-call webhook).
type WebhookSender struct {
	endpoint string
	client   *http.Client
}

func NewWebhookSender(endpoint string) *WebhookSender {
	return &WebhookSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WebhookSender) Send(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(map[string]string{"title": title, "body": body})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Log sender
// ---------------------------------------------------------------------------

// LogSender writes the push to the server log. Development fallback when no
// webhook endpoint is configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, title, body string) error {
	s.logger.Warn().Str("title", title).Str("body", body).Msg("alert push (log channel)")
	return nil
}

// ---------------------------------------------------------------------------
// Mock sender (test double)
// ---------------------------------------------------------------------------

// Call records a single Send invocation.
type Call struct {
	Title string
	Body  string
}

// MockSender is a test double for Sender.
type MockSender struct {
	mu         sync.Mutex
	calls      []Call
	ShouldFail bool
	FailError  string
}

func (m *MockSender) Send(_ context.Context, title, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Title: title, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded calls.
func (m *MockSender) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// ---------------------------------------------------------------------------
// Manager
// ---------------------------------------------------------------------------

// Manager sends through its channel and records every attempt. It implements
// the dispatch gate's Notifier contract; it does not retry on its own.
type Manager struct {
	sender  Sender
	mu      sync.RWMutex
	records map[string]*Record
}

func NewManager(sender Sender) *Manager {
	return &Manager{sender: sender, records: make(map[string]*Record)}
}

// Notify delivers one push and logs the outcome. The returned error reports
// delivery failure; the attempt is recorded either way.
func (m *Manager) Notify(ctx context.Context, title, body string) error {
	rec := &Record{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
	}

	sendErr := m.sender.Send(ctx, title, body)
	if sendErr != nil {
		rec.Status = "failed"
		rec.Error = sendErr.Error()
	} else {
		rec.Status = "sent"
		sentAt := time.Now().UTC()
		rec.SentAt = &sentAt
	}

	m.mu.Lock()
	m.records[rec.ID] = rec
	m.mu.Unlock()

	return sendErr
}

// List returns recorded notifications, newest first, up to limit.
func (m *Manager) List(limit int) []*Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*Record, 0, len(m.records))
	for _, r := range m.records {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

// Stats returns counts of notifications grouped by status.
func (m *Manager) Stats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := make(map[string]int)
	for _, r := range m.records {
		stats[r.Status]++
	}
	return stats
}
