package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityKind identifies one of the four weekly activity checkboxes.
type ActivityKind string

const (
	ActivityScripture  ActivityKind = "scripture"
	ActivityRecitation ActivityKind = "recitation"
	ActivityQuietTime  ActivityKind = "quiet_time"
	ActivityPhoneCheck ActivityKind = "phone_check"
)

// Valid returns true when the kind names a known activity flag.
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityScripture, ActivityRecitation, ActivityQuietTime, ActivityPhoneCheck:
		return true
	default:
		return false
	}
}

// WeeklyActivity holds the four independent activity flags for a (student,
// date) pair. The row is created lazily on the first toggle with the other
// flags false.
type WeeklyActivity struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	StudentID  uint           `gorm:"not null;uniqueIndex:idx_activity_student_date" json:"student_id"`
	Date       datatypes.Date `gorm:"not null;uniqueIndex:idx_activity_student_date" json:"date"`
	Scripture  bool           `gorm:"not null;default:false" json:"scripture"`
	Recitation bool           `gorm:"not null;default:false" json:"recitation"`
	QuietTime  bool           `gorm:"not null;default:false" json:"quiet_time"`
	PhoneCheck bool           `gorm:"not null;default:false" json:"phone_check"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Flag returns the current value of the given activity flag.
func (w WeeklyActivity) Flag(kind ActivityKind) bool {
	switch kind {
	case ActivityScripture:
		return w.Scripture
	case ActivityRecitation:
		return w.Recitation
	case ActivityQuietTime:
		return w.QuietTime
	case ActivityPhoneCheck:
		return w.PhoneCheck
	default:
		return false
	}
}

// SetFlag updates the given activity flag in place.
func (w *WeeklyActivity) SetFlag(kind ActivityKind, value bool) {
	switch kind {
	case ActivityScripture:
		w.Scripture = value
	case ActivityRecitation:
		w.Recitation = value
	case ActivityQuietTime:
		w.QuietTime = value
	case ActivityPhoneCheck:
		w.PhoneCheck = value
	}
}
