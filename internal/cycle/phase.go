package cycle

// TraditionalPhase is one of the four classic menstrual cycle phases,
// driven by fixed day ranges within a nominal 28-day cycle.
type TraditionalPhase string

const (
	Menstruation TraditionalPhase = "menstruation"
	Follicular   TraditionalPhase = "follicular"
	Ovulation    TraditionalPhase = "ovulation"
	Luteal       TraditionalPhase = "luteal"
)

// FunctionalPhase is the coarser three-phase lifestyle model (fasting,
// diet and activity oriented). It maps non-bijectively from the
// traditional phase plus the cycle day.
type FunctionalPhase string

const (
	Power         FunctionalPhase = "power"
	Manifestation FunctionalPhase = "manifestation"
	Nurture       FunctionalPhase = "nurture"
)

// phaseDurations is the ordered day-range table for traditional phases.
// The order matters: cumulative sums define the day boundaries
// (menstruation 1-5, follicular 6-14, ovulation 15-17, luteal 18-28).
var phaseDurations = []struct {
	Phase TraditionalPhase
	Days  int
}{
	{Menstruation, 5},
	{Follicular, 9},
	{Ovulation, 3},
	{Luteal, 11},
}

// functionalRanges maps inclusive cycle-day ranges to functional phases.
// Power occurs twice per cycle: menstruation/early follicular and the
// early-luteal window.
var functionalRanges = []struct {
	Start, End int
	Phase      FunctionalPhase
}{
	{1, 10, Power},
	{11, 15, Manifestation},
	{16, 19, Power},
	{20, 28, Nurture},
}

// phaseTransitions is the fixed successor table for traditional phases.
var phaseTransitions = map[TraditionalPhase]TraditionalPhase{
	Menstruation: Follicular,
	Follicular:   Ovulation,
	Ovulation:    Luteal,
	Luteal:       Menstruation,
}

// representativeDays gives a canonical cycle day for each traditional
// phase, used when a phase must be classified without a concrete date
// (e.g. when synthesizing the phase that follows the plan window).
var representativeDays = map[TraditionalPhase]int{
	Menstruation: 1,
	Follicular:   6,
	Ovulation:    15,
	Luteal:       18,
}

// TotalCycleDays returns the nominal cycle length (sum of all
// traditional phase durations, 28).
func TotalCycleDays() int {
	total := 0
	for _, p := range phaseDurations {
		total += p.Days
	}
	return total
}

// NormalizeCycleDay wraps any integer cycle day into [1, TotalCycleDays].
func NormalizeCycleDay(day int) int {
	total := TotalCycleDays()
	d := (day - 1) % total
	if d < 0 {
		d += total
	}
	return d + 1
}

// DetermineTraditionalPhase maps a cycle day to its traditional phase
// and that phase's fixed duration. Days beyond the nominal cycle are
// normalized first, so the function is total over all integers.
func DetermineTraditionalPhase(cycleDay int) (TraditionalPhase, int) {
	day := NormalizeCycleDay(cycleDay)
	counted := 0
	for _, p := range phaseDurations {
		counted += p.Days
		if day <= counted {
			return p.Phase, p.Days
		}
	}
	// Unreachable after normalization; luteal is the closed-world default.
	return Luteal, phaseDurations[len(phaseDurations)-1].Days
}

// DetermineFunctionalPhase maps a cycle day to its functional phase.
func DetermineFunctionalPhase(cycleDay int) FunctionalPhase {
	day := NormalizeCycleDay(cycleDay)
	for _, r := range functionalRanges {
		if day >= r.Start && day <= r.End {
			return r.Phase
		}
	}
	return Nurture
}

// ClassifyFunctionalPhase maps a cycle day to a functional phase while
// honoring an explicit traditional-phase override (used when a logged
// event pins the traditional phase but the calendar day disagrees).
func ClassifyFunctionalPhase(traditional TraditionalPhase, cycleDay int) FunctionalPhase {
	day := NormalizeCycleDay(cycleDay)
	switch {
	case (traditional == Menstruation || traditional == Follicular) && day <= 10:
		return Power
	case traditional == Ovulation, day >= 11 && day <= 15:
		return Manifestation
	case day >= 16 && day <= 19:
		return Power
	default:
		return Nurture
	}
}

// PhaseDuration returns the fixed duration of a traditional phase.
func PhaseDuration(phase TraditionalPhase) int {
	for _, p := range phaseDurations {
		if p.Phase == phase {
			return p.Days
		}
	}
	return 0
}

// NextTraditionalPhase returns the phase that follows the given one in
// the fixed cycle order.
func NextTraditionalPhase(phase TraditionalPhase) TraditionalPhase {
	return phaseTransitions[phase]
}

// RepresentativeDay returns the canonical first cycle day of a
// traditional phase.
func RepresentativeDay(phase TraditionalPhase) int {
	return representativeDays[phase]
}

// IsSecondPowerWindow reports whether the cycle day falls in the
// early-luteal Power window, i.e. the second Power occurrence within
// one cycle (days 16-19).
func IsSecondPowerWindow(cycleDay int) bool {
	day := NormalizeCycleDay(cycleDay)
	return day >= 16 && day <= 19
}

// Title renders a phase value capitalized for display.
func title(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// Title returns the display form of a traditional phase.
func (p TraditionalPhase) Title() string { return title(string(p)) }

// Title returns the display form of a functional phase.
func (p FunctionalPhase) Title() string { return title(string(p)) }
