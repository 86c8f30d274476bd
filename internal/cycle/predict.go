package cycle

import (
	"math"
	"time"
)

// insufficientDataWarning is surfaced when fewer than two periods exist
// to compute a real average from.
const insufficientDataWarning = "Insufficient data for accurate prediction"

// irregularityWarning is surfaced when cycle-length variation exceeds
// the irregularity threshold.
const irregularityWarning = "Irregular cycle detected"

// defaultCycleLength is assumed when history is too thin to average.
const defaultCycleLength = 28

// irregularityStddevDays is the gap standard deviation above which a
// cycle is flagged irregular.
const irregularityStddevDays = 10.0

// Prediction is the expected next cycle start with its supporting
// average and an optional data-quality warning.
type Prediction struct {
	NextDate    time.Time
	AvgDuration int
	Warning     string
}

// NextCycle predicts the next cycle start from historical menstruation
// start dates. With fewer than two periods it assumes a 28-day cycle
// and flags the prediction as low-confidence. With three or more gaps
// it additionally checks for irregularity (stddev above 10 days).
//
// Returns ErrNoEvents for an empty history and ErrNoBaseline when the
// history holds events but none of them are menstruation.
func NextCycle(events []CycleEvent) (Prediction, error) {
	if len(events) == 0 {
		return Prediction{}, ErrNoEvents
	}

	starts := PeriodStartDates(events)
	if len(starts) == 0 {
		return Prediction{}, ErrNoBaseline
	}
	if len(starts) < 2 {
		return Prediction{
			NextDate:    starts[0].AddDate(0, 0, defaultCycleLength),
			AvgDuration: defaultCycleLength,
			Warning:     insufficientDataWarning,
		}, nil
	}

	gaps := make([]float64, 0, len(starts)-1)
	for i := 1; i < len(starts); i++ {
		gaps = append(gaps, float64(DaysBetween(starts[i-1], starts[i])))
	}

	avg := mean(gaps)
	warning := ""
	if len(gaps) >= 3 && stddev(gaps) > irregularityStddevDays {
		warning = irregularityWarning
	}

	avgDays := int(math.Round(avg))
	return Prediction{
		NextDate:    starts[len(starts)-1].AddDate(0, 0, avgDays),
		AvgDuration: avgDays,
		Warning:     warning,
	}, nil
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
