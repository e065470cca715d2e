package logic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ShouldRing reports whether the alarm is due at the given moment.
// Matching is to the minute: the alarm fires when the current hour and
// minute equal the stored alarm time and today is one of the repeat days.
// An empty repeat_days means the alarm fires every day.
func ShouldRing(a Alarm, now time.Time) bool {
	if !a.Enabled {
		return false
	}

	hour, minute, err := ParseAlarmTime(a.AlarmTime)
	if err != nil {
		return false
	}

	if now.Hour() != hour || now.Minute() != minute {
		return false
	}

	if a.RepeatDays == "" {
		return true
	}

	today := strconv.Itoa(weekdayIndex(now.Weekday()))
	for _, day := range strings.Split(a.RepeatDays, ",") {
		if strings.TrimSpace(day) == today {
			return true
		}
	}
	return false
}

// ParseAlarmTime parses "HH:MM" or "HH:MM:SS" into hour and minute.
func ParseAlarmTime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid alarm time %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid alarm hour %q: %w", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid alarm minute %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("alarm time %q out of range", s)
	}
	return hour, minute, nil
}

// weekdayIndex converts Go's Sunday-based weekday to the server's
// Monday-based numbering (0=Monday .. 6=Sunday).
func weekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
