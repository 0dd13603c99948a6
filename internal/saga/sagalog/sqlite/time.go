package sqlite

import (
	"fmt"
	"time"
)

// parseTime parses the RFC3339 TEXT timestamps stored in SQLite, which
// has no native datetime type.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
