package revision

import (
	"fmt"
	"time"

	"codetrack/model"
)

// ParseDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD day, the two
// forms the reschedule endpoints receive.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", model.ErrValidation, raw)
}
