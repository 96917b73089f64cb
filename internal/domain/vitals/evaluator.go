package vitals

import (
	"fmt"

	"github.com/vitallink/vitallink/internal/domain/patient"
)

// Alerts classifies one reading against a threshold set and returns one
// human-readable descriptor per violated bound, each embedding the offending
// value. A nil reading yields no alerts; scheduling lateness is reported
// separately by the scheduler.
//
// All nine checks run in a fixed order so output is deterministic, and
// comparison is strict: a value exactly at a bound is safe.
func Alerts(v *VitalReading, t patient.ThresholdSet) []string {
	if v == nil {
		return nil
	}

	var alerts []string

	if v.Systolic > t.SystolicHigh {
		alerts = append(alerts, fmt.Sprintf("High systolic pressure (%g)", v.Systolic))
	}
	if v.Systolic < t.SystolicLow {
		alerts = append(alerts, fmt.Sprintf("Low systolic pressure (%g)", v.Systolic))
	}

	if v.Diastolic > t.DiastolicHigh {
		alerts = append(alerts, fmt.Sprintf("High diastolic pressure (%g)", v.Diastolic))
	}
	if v.Diastolic < t.DiastolicLow {
		alerts = append(alerts, fmt.Sprintf("Low diastolic pressure (%g)", v.Diastolic))
	}

	if v.HeartRate > t.HeartRateHigh {
		alerts = append(alerts, fmt.Sprintf("High heart rate (%g)", v.HeartRate))
	}
	if v.HeartRate < t.HeartRateLow {
		alerts = append(alerts, fmt.Sprintf("Low heart rate (%g)", v.HeartRate))
	}

	if v.Temperature > t.TemperatureHigh {
		alerts = append(alerts, fmt.Sprintf("High temperature (%.1f°C)", v.Temperature))
	}
	if v.Temperature < t.TemperatureLow {
		alerts = append(alerts, fmt.Sprintf("Low temperature (%.1f°C)", v.Temperature))
	}

	if v.SpO2 < t.SpO2Low {
		alerts = append(alerts, fmt.Sprintf("Low SpO2 (%g%%)", v.SpO2))
	}

	return alerts
}
