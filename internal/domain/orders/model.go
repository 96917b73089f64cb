package orders

import (
	"strings"
	"time"
)

// OrderStatus tracks the lifecycle of a medication order.
type OrderStatus string

const (
	StatusActive       OrderStatus = "Active"
	StatusDiscontinued OrderStatus = "Discontinued"
	StatusCompleted    OrderStatus = "Completed"
)

var validStatuses = map[OrderStatus]bool{
	StatusActive:       true,
	StatusDiscontinued: true,
	StatusCompleted:    true,
}

// ID prefixes keep order provenance visible: orders entered at the bedside
// get LocalIDPrefix, orders fetched from the hospital system keep the
// RemoteIDPrefix assigned upstream.
const (
	LocalIDPrefix  = "ord-"
	RemoteIDPrefix = "remote-ord-"
)

// MedicalOrder is one prescribed medication instruction. Its identifier is
// never reassigned; only status changes and deletion mutate it.
type MedicalOrder struct {
	ID         string      `db:"id" json:"id"`
	PatientID  string      `db:"patient_id" json:"patient_id"`
	Medication string      `db:"medication" json:"medication"`
	Dosage     string      `db:"dosage" json:"dosage"`
	Frequency  string      `db:"frequency" json:"frequency"`
	Route      string      `db:"route" json:"route"`
	Status     OrderStatus `db:"status" json:"status"`
	StartedAt  time.Time   `db:"started_at" json:"started_at"`
	Note       *string     `db:"note" json:"note,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// IsRemote reports whether the order originated from the remote order source.
func (o *MedicalOrder) IsRemote() bool {
	return strings.HasPrefix(o.ID, RemoteIDPrefix)
}
