package text

import (
	"fmt"
	"time"
)

// UnknownDate is shown when a feed entry carries no publication date.
const UnknownDate = "تاریخ نامشخص"

// persianMonths is indexed by time.Month - 1.
var persianMonths = [12]string{
	"ژانویه", "فوریه", "مارس", "آپریل", "مه", "ژوئن",
	"ژوئیه", "آگوست", "سپتامبر", "اکتبر", "نوامبر", "دسامبر",
}

// dateLayouts covers the RFC-2822 variants feeds actually emit, plus the
// Atom RFC-3339 form.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

// FormatDate renders a raw feed date as "<day> <Persian month> <year> - <HH:MM>".
// Unparseable input is returned unchanged and an empty input yields UnknownDate;
// the caller never sees an error.
func FormatDate(raw string) string {
	if raw == "" {
		return UnknownDate
	}

	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, raw); err == nil {
			return FormatTime(dt)
		}
	}

	return raw
}

// FormatTime renders an already-parsed timestamp in the same display form.
func FormatTime(dt time.Time) string {
	return fmt.Sprintf("%d %s %d - %02d:%02d",
		dt.Day(), persianMonths[dt.Month()-1], dt.Year(), dt.Hour(), dt.Minute())
}
