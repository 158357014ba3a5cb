package pattern

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned by CheckTime for inputs that Normalize would wrap.
var ErrOutOfRange = errors.New("out of range")

// Zero is the time string a fresh clock starts from.
const Zero = "00:00:00"

// Normalize wraps hour into [0,24) and minute and second into [0,60).
// Negative values wrap from the top, so -1 seconds is 59.
func Normalize(hour, minute, second int) (int, int, int) {
	return wrap(hour, 24), wrap(minute, 60), wrap(second, 60)
}

// FormatTime normalizes and renders HH:MM:SS.
func FormatTime(hour, minute, second int) string {
	h, m, s := Normalize(hour, minute, second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// CheckTime reports the first input that Normalize would have to wrap.
func CheckTime(hour, minute, second int) error {
	switch {
	case hour < 0 || hour >= 24:
		return fmt.Errorf("hour %d: %w", hour, ErrOutOfRange)
	case minute < 0 || minute >= 60:
		return fmt.Errorf("minute %d: %w", minute, ErrOutOfRange)
	case second < 0 || second >= 60:
		return fmt.Errorf("second %d: %w", second, ErrOutOfRange)
	}
	return nil
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
