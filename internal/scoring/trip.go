package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

var tripDurationPattern = regexp.MustCompile(`(\d+)\s*(semaines?|weeks?|jours?|days?|mois|months?)`)

// ParseTripDays converts a free-form trip duration ("2 semaines",
// "10 days", "weekend") into a day count. The second return value is
// false when the string carries no recognizable duration.
func ParseTripDays(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, "long week") || strings.Contains(s, "prolonge") {
		return 3, true
	}
	if strings.Contains(s, "weekend") || strings.Contains(s, "week-end") {
		return 2, true
	}

	m := tripDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}

	switch {
	case strings.HasPrefix(m[2], "semaine"), strings.HasPrefix(m[2], "week"):
		return n * 7, true
	case strings.HasPrefix(m[2], "mois"), strings.HasPrefix(m[2], "month"):
		return n * 30, true
	default:
		return n, true
	}
}

// maxAcceptableFlightHours returns the one-way flight-time ceiling a trip
// of the given length can reasonably absorb. Very long trips have no
// ceiling.
func maxAcceptableFlightHours(tripDays int) float64 {
	switch {
	case tripDays <= 2:
		return 2.5
	case tripDays <= 4:
		return 5
	case tripDays <= 7:
		return 8
	case tripDays <= 14:
		return 12
	case tripDays <= 21:
		return 16
	case tripDays <= 29:
		return 20
	default:
		return 0 // unrestricted
	}
}
