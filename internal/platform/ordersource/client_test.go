package ordersource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vitallink/vitallink/internal/domain/orders"
)

func TestFetchOrders_MapsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/patients/P-1/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orders":[
			{"id":"remote-ord-1","medication":"Enoxaparin","dosage":"40mg","frequency":"1x1","route":"SC","status":"Active","start_date":1719000000000,"doctor_notes":"DVT prophylaxis"},
			{"id":"remote-ord-2","medication":"Pantoprazole","dosage":"40mg","frequency":"1x1","route":"IV","status":"Active","start_date":1719003600000}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	batch, err := c.FetchOrders(context.Background(), "P-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(batch))
	}

	first := batch[0]
	if first.ID != orders.RemoteIDPrefix+"1" || !first.IsRemote() {
		t.Errorf("unexpected id %s", first.ID)
	}
	if first.PatientID != "P-1" {
		t.Errorf("expected patient id set, got %q", first.PatientID)
	}
	if first.Status != orders.StatusActive {
		t.Errorf("unexpected status %s", first.Status)
	}
	if first.Note == nil || *first.Note != "DVT prophylaxis" {
		t.Errorf("unexpected note %v", first.Note)
	}
	want := time.UnixMilli(1719000000000).UTC()
	if !first.StartedAt.Equal(want) {
		t.Errorf("expected start %s, got %s", want, first.StartedAt)
	}
	if batch[1].Note != nil {
		t.Errorf("expected nil note, got %v", *batch[1].Note)
	}
}

func TestFetchOrders_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchOrders(context.Background(), "P-1")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "order feed returned 500") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestFetchOrders_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders": [`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.FetchOrders(context.Background(), "P-1"); err == nil {
		t.Error("expected decode error, not an empty batch")
	}
}

func TestFetchOrders_EmptyBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	batch, err := c.FetchOrders(context.Background(), "P-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 0 {
		t.Errorf("expected empty batch, got %d", len(batch))
	}
}
