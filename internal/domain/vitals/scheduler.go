package vitals

import (
	"fmt"
	"math"
	"time"

	"github.com/vitallink/vitallink/internal/domain/patient"
)

// ScheduleState classifies whether the next mandatory measurement is late,
// imminent, or comfortably in the future.
type ScheduleState string

const (
	ScheduleOnTime  ScheduleState = "on-time"
	ScheduleWarning ScheduleState = "warning"
	ScheduleOverdue ScheduleState = "overdue"
)

// ScheduleStatus is the scheduler's classification for one patient. Minutes
// is signed: negative when the measurement is overdue.
type ScheduleStatus struct {
	State   ScheduleState `json:"status"`
	Message string        `json:"message"`
	Minutes int           `json:"minutes"`
}

// checkIntervals maps risk tier to the mandatory measurement interval. The
// table is fixed at process start and is not per-patient configurable.
var checkIntervals = map[patient.RiskTier]time.Duration{
	patient.RiskHigh:   2 * time.Hour,
	patient.RiskMedium: 4 * time.Hour,
	patient.RiskLow:    8 * time.Hour,
}

// warningWindowMinutes is the width of the due-soon band before the deadline.
const warningWindowMinutes = 30

// IntervalFor returns the measurement interval for a tier. An unrecognized
// tier falls back to the Low interval: the schedule fails open toward the
// least aggressive cadence rather than panicking or over-alerting.
func IntervalFor(tier patient.RiskTier) time.Duration {
	if iv, ok := checkIntervals[tier]; ok {
		return iv
	}
	return checkIntervals[patient.RiskLow]
}

// Schedule classifies the next measurement for a patient given their most
// recent reading (nil when none has ever been taken) and risk tier. It is
// stateless and derives entirely from now and the stored timestamp, so it is
// safe to call on every tick without drift.
func Schedule(last *VitalReading, tier patient.RiskTier, now time.Time) ScheduleStatus {
	if last == nil {
		return ScheduleStatus{
			State:   ScheduleOverdue,
			Message: "first measurement not taken",
			Minutes: 0,
		}
	}

	nextDue := last.TakenAt.Add(IntervalFor(tier))
	remaining := int(math.Floor(nextDue.Sub(now).Minutes()))

	switch {
	case remaining < 0:
		return ScheduleStatus{
			State:   ScheduleOverdue,
			Message: fmt.Sprintf("%d min overdue", -remaining),
			Minutes: remaining,
		}
	case remaining <= warningWindowMinutes:
		return ScheduleStatus{
			State:   ScheduleWarning,
			Message: fmt.Sprintf("%d min left", remaining),
			Minutes: remaining,
		}
	default:
		return ScheduleStatus{
			State:   ScheduleOnTime,
			Message: fmt.Sprintf("%dh %dm until next check", remaining/60, remaining%60),
			Minutes: remaining,
		}
	}
}
