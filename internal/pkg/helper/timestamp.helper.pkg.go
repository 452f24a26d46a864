package helper

import (
	"time"
)

func ParseDateTime(date string) (time.Time, error) {
	return time.Parse(time.RFC3339, date)
}

func TimeRightNow() time.Time {
	return time.Now().UTC()
}

// FormatDate renders an RFC3339 timestamp as "Jan 2, 2006". Unparseable
// input is returned unchanged.
func FormatDate(date string) string {
	t, err := ParseDateTime(date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime renders an RFC3339 timestamp as "Jan 2, 2006 15:04 MST".
func FormatDateTime(date string) string {
	t, err := ParseDateTime(date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006 15:04 MST")
}

// FormatLongDate renders a date the way event pages show it,
// e.g. "Monday, January 2, 2006". Both RFC3339 and YYYY-MM-DD inputs are
// accepted; anything else is returned unchanged.
func FormatLongDate(date string) string {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("Monday, January 2, 2006")
		}
	}
	return date
}
