package models

// Range is an inclusive [min, max] bound.
type Range [2]float64

func (r Range) Min() float64 { return r[0] }
func (r Range) Max() float64 { return r[1] }

func (r Range) Contains(v float64) bool {
	return v >= r[0] && v <= r[1]
}

type StopOption string

const (
	StopNonstop StopOption = "nonstop"
	StopOneStop StopOption = "oneStop"
	StopTwoPlus StopOption = "twoPlus"
)

type StopsFilter struct {
	Any     bool `json:"any"`
	Nonstop bool `json:"nonstop"`
	OneStop bool `json:"oneStop"`
	TwoPlus bool `json:"twoPlus"`
}

func (s StopsFilter) HasActive() bool {
	return s.Nonstop || s.OneStop || s.TwoPlus
}

func (s StopsFilter) ActiveCount() int {
	return countTrue(s.Nonstop, s.OneStop, s.TwoPlus)
}

// Set toggles one stop option and keeps Any in sync with the sub-flags.
func (s *StopsFilter) Set(opt StopOption, on bool) {
	switch opt {
	case StopNonstop:
		s.Nonstop = on
	case StopOneStop:
		s.OneStop = on
	case StopTwoPlus:
		s.TwoPlus = on
	}
	s.Any = !s.HasActive()
}

type EmissionLevel string

const (
	EmissionLow    EmissionLevel = "low"
	EmissionMedium EmissionLevel = "medium"
	EmissionHigh   EmissionLevel = "high"
)

type EmissionsFilter struct {
	Any    bool `json:"any"`
	Low    bool `json:"low"`
	Medium bool `json:"medium"`
	High   bool `json:"high"`
}

func (e EmissionsFilter) HasActive() bool {
	return e.Low || e.Medium || e.High
}

func (e EmissionsFilter) ActiveCount() int {
	return countTrue(e.Low, e.Medium, e.High)
}

// Allows reports whether level is one of the selected sub-flags.
func (e EmissionsFilter) Allows(level EmissionLevel) bool {
	switch level {
	case EmissionLow:
		return e.Low
	case EmissionMedium:
		return e.Medium
	case EmissionHigh:
		return e.High
	}
	return false
}

// Set toggles one emission level and keeps Any in sync with the sub-flags.
func (e *EmissionsFilter) Set(level EmissionLevel, on bool) {
	switch level {
	case EmissionLow:
		e.Low = on
	case EmissionMedium:
		e.Medium = on
	case EmissionHigh:
		e.High = on
	}
	e.Any = !e.HasActive()
}

// BagsFilter is shown in the filter UI but not applied to results.
type BagsFilter struct {
	Included bool `json:"included"`
	CarryOn  bool `json:"carryon"`
	Checked  bool `json:"checked"`
}

type TimeWindows struct {
	Departure *Range `json:"departure,omitempty"`
	Arrival   *Range `json:"arrival,omitempty"`
}

// FilterState is the full set of result filters. A nil range, nil time
// window or empty airline map places no restriction on that dimension.
type FilterState struct {
	Stops      StopsFilter     `json:"stops"`
	Airlines   map[string]bool `json:"airlines"`
	PriceRange *Range          `json:"priceRange,omitempty"`
	Times      *TimeWindows    `json:"times,omitempty"`
	Duration   *Range          `json:"duration,omitempty"`
	Emissions  EmissionsFilter `json:"emissions"`
	Bags       BagsFilter      `json:"bags"`
}

// SelectedAirlines returns the carrier ids switched on.
func (f FilterState) SelectedAirlines() []string {
	var ids []string
	for id, on := range f.Airlines {
		if on {
			ids = append(ids, id)
		}
	}
	return ids
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
