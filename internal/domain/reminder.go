package domain

import "fmt"

// Default reminder time, matching the daily 09:00 reminder users opt into.
const (
	DefaultReminderHour   = 9
	DefaultReminderMinute = 0
)

// Reminder describes the recurring daily quote notification.
type Reminder struct {
	Enabled bool   `json:"enabled"`
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	Title   string `json:"title,omitempty"`
	Body    string `json:"body,omitempty"`
}

// DefaultReminder returns the disabled reminder at the default time.
func DefaultReminder() Reminder {
	return Reminder{Hour: DefaultReminderHour, Minute: DefaultReminderMinute}
}

// ValidateTimeOfDay checks that hour and minute form a wall-clock time.
func ValidateTimeOfDay(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return NewValidationErrorWithValue("hour", "must be between 0 and 23", hour)
	}

	if minute < 0 || minute > 59 {
		return NewValidationErrorWithValue("minute", "must be between 0 and 59", minute)
	}

	return nil
}

// TimeOfDay formats the reminder time as HH:MM.
func (r Reminder) TimeOfDay() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}
