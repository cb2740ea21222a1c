package history

import "time"

const tsFormat = "2006-01-02T15:04:05.000000Z"

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(tsFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
