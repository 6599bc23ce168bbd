package ledger

import (
	"strings"
	"time"

	"github.com/emmaus-school/talent-api/internal/models"
)

// statusOrUnset widens AttendanceStatus with the "no record yet" state so the
// transition table can be expressed in one place.
type statusOrUnset string

const statusUnset statusOrUnset = ""

func toStatusOrUnset(s models.AttendanceStatus) statusOrUnset {
	return statusOrUnset(s)
}

// attendanceDelta returns the signed student talent change for a status
// transition. step is the magnitude awarded for presence (10 in production).
//
//	unset  -> present        +step
//	unset  -> absent/late    0
//	present -> absent/late   -step
//	absent/late -> present   +step
//	same -> same             0
//	absent <-> late          0
func attendanceDelta(old statusOrUnset, next models.AttendanceStatus, step int) int {
	wasPresent := old == statusOrUnset(models.AttendancePresent)
	willBePresent := next == models.AttendancePresent

	switch {
	case !wasPresent && willBePresent:
		return step
	case wasPresent && !willBePresent:
		return -step
	default:
		return 0
	}
}

// cascadeDelta returns the teacher-side change for a student attendance
// delta. The magnitude is fixed per toggle regardless of the student amount;
// only the sign follows the student side.
func cascadeDelta(studentDelta, magnitude int) int {
	switch {
	case studentDelta > 0:
		return magnitude
	case studentDelta < 0:
		return -magnitude
	default:
		return 0
	}
}

// activityDelta returns the student change for flipping an activity flag.
func activityDelta(from, to bool, step int) int {
	switch {
	case !from && to:
		return step
	case from && !to:
		return -step
	default:
		return 0
	}
}

// WeekWindow returns the half-open [start, end) interval of the calendar week
// containing now, anchored on Sunday 00:00 in now's location. The weekly
// grant cap is scoped to this window.
func WeekWindow(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

// IsAttendanceDay reports whether date is a day attendance may be taken:
// a Sunday, or one of the configured holiday dates. Holidays are given as
// "MM-DD" (every year) or "YYYY-MM-DD" (a specific date).
func IsAttendanceDay(date time.Time, holidays []string) bool {
	if date.Weekday() == time.Sunday {
		return true
	}

	monthDay := date.Format("01-02")
	fullDate := date.Format("2006-01-02")
	for _, h := range holidays {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if h == monthDay || h == fullDate {
			return true
		}
	}
	return false
}
