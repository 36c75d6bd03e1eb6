package aggregation

// Mode selects one of the five consumption transforms.
type Mode string

const (
	// ModeTotal returns the series unchanged at sample granularity.
	ModeTotal Mode = "TOTAL"
	// ModeCumNoon accumulates per day over samples up to 12:00 inclusive.
	ModeCumNoon Mode = "CUM_NOON"
	// ModeCum15hFirst15 accumulates up to 15:00 inclusive, keeping the
	// first 15 calendar days with data.
	ModeCum15hFirst15 Mode = "CUM_15H_FIRST15"
	// ModeCumWeekday accumulates per day over Monday..Saturday samples.
	ModeCumWeekday Mode = "CUM_WEEKDAY"
	// ModeCumSunday accumulates per day over Sunday samples only.
	ModeCumSunday Mode = "CUM_SUNDAY"
)

// Granularity is the index resolution of an aggregated view.
type Granularity string

const (
	GranularitySample Granularity = "SAMPLE"
	GranularityDay    Granularity = "DAY"
)

// IsValid checks membership in the supported mode set.
func (m Mode) IsValid() bool {
	switch m {
	case ModeTotal, ModeCumNoon, ModeCum15hFirst15, ModeCumWeekday, ModeCumSunday:
		return true
	default:
		return false
	}
}

// Granularity returns the index resolution the mode produces.
func (m Mode) Granularity() Granularity {
	if m == ModeTotal {
		return GranularitySample
	}
	return GranularityDay
}

// ParseMode resolves a mode name from the query surface.
func ParseMode(value string) (Mode, error) {
	mode := Mode(value)
	if !mode.IsValid() {
		return "", ErrInvalidMode
	}
	return mode, nil
}
