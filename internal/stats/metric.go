package stats

// Metric identifies which per-match stat a line is computed over.
type Metric int

const (
	Kills Metric = iota
	Deaths
	Assists
	Placement
)

func (m Metric) String() string {
	switch m {
	case Kills:
		return "kills"
	case Deaths:
		return "deaths"
	case Assists:
		return "assists"
	case Placement:
		return "placement"
	default:
		return "unknown"
	}
}

// ParseMetric is the inverse of String. ok is false for unknown names.
func ParseMetric(s string) (Metric, bool) {
	switch s {
	case "kills":
		return Kills, true
	case "deaths":
		return Deaths, true
	case "assists":
		return Assists, true
	case "placement":
		return Placement, true
	default:
		return 0, false
	}
}

// LowerIsBetter reports whether a smaller observed value favors the player.
// Placement 1 is a win; every counting stat grows with performance.
func (m Metric) LowerIsBetter() bool {
	return m == Placement
}

// Window returns how many qualifying samples a line for this metric needs.
func (m Metric) Window() int {
	if m == Placement {
		return 10
	}
	return 5
}

// StatSample is one qualifying match's observation of a single metric.
type StatSample struct {
	Value int
	Month int
	Day   int
}
