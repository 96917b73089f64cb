package vitals

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vitallink/vitallink/internal/domain/patient"
)

// Notifier is the external push collaborator. Delivery is best-effort and not
// guaranteed idempotent; the gate below calls it at most once per commit.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// DispatchGate evaluates a freshly committed reading and pushes a single
// combined notification when any threshold is breached. It runs after the
// store commit: a notifier failure is logged and never rolls back or fails
// the reading.
type DispatchGate struct {
	notifier Notifier
	logger   zerolog.Logger
}

func NewDispatchGate(n Notifier, logger zerolog.Logger) *DispatchGate {
	return &DispatchGate{notifier: n, logger: logger}
}

// ReadingCommitted runs the evaluator and, if any alert fired, sends one
// notification covering all of them. It returns the alerts for the caller to
// surface inline.
func (g *DispatchGate) ReadingCommitted(ctx context.Context, p *patient.Patient, v *VitalReading) []string {
	alerts := Alerts(v, p.Thresholds)
	if len(alerts) == 0 {
		return nil
	}

	title := "EMERGENCY: " + p.Name
	body := strings.Join(alerts, ", ") + ". Room: " + p.Room
	if err := g.notifier.Notify(ctx, title, body); err != nil {
		g.logger.Error().Err(err).
			Str("patient_id", p.ID).
			Str("reading_id", v.ID).
			Int("alerts", len(alerts)).
			Msg("alert notification failed")
	}
	return alerts
}
