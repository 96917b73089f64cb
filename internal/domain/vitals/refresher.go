package vitals

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitallink/vitallink/internal/domain/patient"
)

// refreshPageSize bounds how many patients one tick walks. A single ward
// dashboard never approaches this.
const refreshPageSize = 1000

// Refresher recomputes the measurement schedule for every patient on a fixed
// tick so displayed freshness never goes stale. It keeps no schedule state of
// its own beyond the last classification, used to log each transition into
// overdue exactly once.
type Refresher struct {
	patients patient.Repository
	readings Repository
	logger   zerolog.Logger

	// Interval is how often the walk runs. Minute granularity keeps the
	// displayed minute counts accurate.
	Interval time.Duration

	mu   sync.Mutex
	seen map[string]ScheduleState
}

func NewRefresher(patients patient.Repository, readings Repository, logger zerolog.Logger) *Refresher {
	return &Refresher{
		patients: patients,
		readings: readings,
		logger:   logger,
		Interval: time.Minute,
		seen:     make(map[string]ScheduleState),
	}
}

// Start runs the refresh loop until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	patients, _, err := r.patients.List(ctx, refreshPageSize, 0)
	if err != nil {
		r.logger.Error().Err(err).Msg("schedule refresh: list patients")
		return
	}

	now := time.Now().UTC()
	for _, p := range patients {
		last, err := r.readings.Latest(ctx, p.ID)
		if err != nil {
			r.logger.Error().Err(err).Str("patient_id", p.ID).Msg("schedule refresh: latest reading")
			continue
		}
		st := Schedule(last, p.RiskTier, now)

		r.mu.Lock()
		prev, known := r.seen[p.ID]
		r.seen[p.ID] = st.State
		r.mu.Unlock()

		if st.State == ScheduleOverdue && (!known || prev != ScheduleOverdue) {
			r.logger.Warn().
				Str("patient_id", p.ID).
				Str("room", p.Room).
				Str("risk_tier", string(p.RiskTier)).
				Str("message", st.Message).
				Msg("measurement overdue")
		}
	}
}
