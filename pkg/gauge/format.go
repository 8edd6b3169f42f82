package gauge

import (
	"fmt"
	"strings"
)

// FormatMilliwatts renders a power (or, with an "h" suffix appended by the
// caller, an energy) value in mW, W or KW. The sign is dropped. A nil value
// is rendered as "0 W".
func FormatMilliwatts(mw *int) string {
	if mw == nil {
		return "0 W"
	}

	v := *mw
	if v < 0 {
		v = -v
	}

	switch {
	case v >= 1000000:
		return fmt.Sprintf("%.2f KW", float64(v)/1000000.0)
	case v >= 1000:
		return fmt.Sprintf("%.2f W", float64(v)/1000.0)
	default:
		return fmt.Sprintf("%.2f mW", float64(v))
	}
}

// FormatRemaining renders whole minutes as "H hours & M minutes".
func FormatRemaining(totalMinutes int) string {
	return fmt.Sprintf("%d hours & %d minutes", totalMinutes/60, totalMinutes%60)
}

// padRight pads s with spaces up to width runes (not display columns).
// Longer strings are kept as is.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + spaces(width-n)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
