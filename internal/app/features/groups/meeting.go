// internal/app/features/groups/meeting.go
package groups

import (
	"strings"
	"time"
)

const (
	meetingDateLayout = "2006-01-02"
	meetingTimeLayout = "15:04"
)

// parseMeetingAt combines the date and time form fields into a single
// timestamp. The meeting time is optional metadata: when either field is
// missing, or the combination does not parse, the result is nil rather
// than a form error.
func parseMeetingAt(date, clock string) *time.Time {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return nil
	}
	t, err := time.ParseInLocation(meetingDateLayout+" "+meetingTimeLayout, date+" "+clock, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
