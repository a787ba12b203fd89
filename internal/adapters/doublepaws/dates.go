package doublepaws

import (
	"fmt"
	"strings"
	"time"
)

// parseDate acepta "2006-01-02" o RFC3339. El día calendario se toma de la
// zona que trae el propio timestamp.
func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrMalformed)
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformed, raw)
}

func parseDates(raw []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(raw))
	for _, r := range raw {
		t, err := parseDate(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
