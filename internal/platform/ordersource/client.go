// Package ordersource fetches medication orders entered remotely in the
// hospital order system. The feed is slow (observed latency around 1.5s), so
// the client carries a generous timeout and callers are expected to show a
// pending state.
package ordersource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vitallink/vitallink/internal/domain/orders"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// orderPayload is the feed's wire shape. Timestamps come as milliseconds
// since epoch.
type orderPayload struct {
	ID          string  `json:"id"`
	Medication  string  `json:"medication"`
	Dosage      string  `json:"dosage"`
	Frequency   string  `json:"frequency"`
	Route       string  `json:"route"`
	Status      string  `json:"status"`
	StartDate   int64   `json:"start_date"`
	DoctorNotes *string `json:"doctor_notes,omitempty"`
}

type ordersResponse struct {
	Orders []orderPayload `json:"orders"`
}

// FetchOrders retrieves the current remote order batch for one patient. Any
// transport or decode failure is returned as-is; the caller must not treat it
// as an empty batch.
func (c *Client) FetchOrders(ctx context.Context, patientID string) ([]*orders.MedicalOrder, error) {
	url := fmt.Sprintf("%s/patients/%s/orders", c.baseURL, patientID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build order feed request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order feed returned %d - %s", resp.StatusCode, resp.Status)
	}

	var data ordersResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode order feed: %w", err)
	}

	batch := make([]*orders.MedicalOrder, 0, len(data.Orders))
	for _, p := range data.Orders {
		o := &orders.MedicalOrder{
			ID:         p.ID,
			PatientID:  patientID,
			Medication: p.Medication,
			Dosage:     p.Dosage,
			Frequency:  p.Frequency,
			Route:      p.Route,
			Status:     orders.OrderStatus(p.Status),
			StartedAt:  time.UnixMilli(p.StartDate).UTC(),
			Note:       p.DoctorNotes,
		}
		batch = append(batch, o)
	}
	return batch, nil
}
