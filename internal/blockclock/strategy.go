package blockclock

import "fmt"

// Strategy selects how unlit cells are hidden. A Clock keeps the strategy it
// was built with.
type Strategy int

const (
	// HideByPosition pushes unlit blocks behind the far plane.
	HideByPosition Strategy = iota
	// HideByColor keeps every block in place and paints unlit ones with the
	// off color.
	HideByColor
)

func (s Strategy) String() string {
	switch s {
	case HideByPosition:
		return "position"
	case HideByColor:
		return "color"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "position" or "color". The empty string is
// HideByPosition.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "position":
		return HideByPosition, nil
	case "color", "colour":
		return HideByColor, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q (use position or color)", s)
	}
}

// Other returns the opposite strategy.
func (s Strategy) Other() Strategy {
	if s == HideByColor {
		return HideByPosition
	}
	return HideByColor
}
