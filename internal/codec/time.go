package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// parseClock converts a time token to whole seconds. Accepted forms:
// "H:MM", "H:MM:SS", a bare decimal number of hours, a number with a unit
// word (SECONDS, MINUTES, HOURS, DAYS), and an optional trailing AM/PM.
func parseClock(fields []string) (int, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty time value")
	}

	value := fields[0]
	meridiem := ""
	unit := ""
	if len(fields) > 1 {
		switch up := strings.ToUpper(fields[1]); up {
		case "AM", "PM":
			meridiem = up
		default:
			unit = up
		}
	}

	var secs float64
	if strings.Contains(value, ":") {
		parts := strings.Split(value, ":")
		if len(parts) > 3 {
			return 0, fmt.Errorf("malformed clock value %q", value)
		}
		mult := 3600.0
		for _, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return 0, fmt.Errorf("malformed clock value %q", value)
			}
			secs += v * mult
			mult /= 60
		}
	} else {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed time value %q", value)
		}
		switch {
		case strings.HasPrefix(unit, "SEC"):
			secs = v
		case strings.HasPrefix(unit, "MIN"):
			secs = v * 60
		case strings.HasPrefix(unit, "DAY"):
			secs = v * 86400
		default:
			// Hours, stated or implied.
			secs = v * 3600
		}
	}

	switch meridiem {
	case "PM":
		if secs < 12*3600 {
			secs += 12 * 3600
		}
	case "AM":
		if secs >= 12*3600 {
			secs -= 12 * 3600
		}
	}

	return int(secs + 0.5), nil
}

// formatClock renders whole seconds as H:MM or H:MM:SS.
func formatClock(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if s == 0 {
		return fmt.Sprintf("%d:%02d", h, m)
	}
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// fnum renders a float compactly for column output.
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
