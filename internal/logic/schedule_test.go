package logic

import (
	"testing"
	"time"
)

// 2026-01-05 is a Monday.
var monday0730 = time.Date(2026, 1, 5, 7, 30, 0, 0, time.UTC)

func TestShouldRingExactMinute(t *testing.T) {
	a := Alarm{ID: 1, AlarmTime: "07:30", Enabled: true}

	if !ShouldRing(a, monday0730) {
		t.Error("expected ring at exact minute")
	}
	if !ShouldRing(a, monday0730.Add(30*time.Second)) {
		t.Error("expected ring anywhere within the minute")
	}
	if ShouldRing(a, monday0730.Add(time.Minute)) {
		t.Error("should not ring a minute late")
	}
	if ShouldRing(a, monday0730.Add(-time.Minute)) {
		t.Error("should not ring a minute early")
	}
}

func TestShouldRingDisabled(t *testing.T) {
	a := Alarm{ID: 1, AlarmTime: "07:30", Enabled: false}
	if ShouldRing(a, monday0730) {
		t.Error("disabled alarm must not ring")
	}
}

func TestShouldRingRepeatDays(t *testing.T) {
	tests := []struct {
		name       string
		repeatDays string
		now        time.Time
		want       bool
	}{
		{"empty repeats daily", "", monday0730, true},
		{"monday in list", "0,2,4", monday0730, true},
		{"monday not in list", "1,3,5", monday0730, false},
		{"sunday index 6", "6", time.Date(2026, 1, 4, 7, 30, 0, 0, time.UTC), true},
		{"spaces tolerated", "5, 0 ,3", monday0730, true},
		{"weekend only on monday", "5,6", monday0730, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Alarm{ID: 1, AlarmTime: "07:30", Enabled: true, RepeatDays: tt.repeatDays}
			if got := ShouldRing(a, tt.now); got != tt.want {
				t.Errorf("ShouldRing(%q, %v) = %v, want %v", tt.repeatDays, tt.now.Weekday(), got, tt.want)
			}
		})
	}
}

func TestShouldRingBadTime(t *testing.T) {
	for _, bad := range []string{"", "seven", "25:00", "07:61", "07"} {
		a := Alarm{ID: 1, AlarmTime: bad, Enabled: true}
		if ShouldRing(a, monday0730) {
			t.Errorf("alarm time %q should never ring", bad)
		}
	}
}

func TestParseAlarmTime(t *testing.T) {
	tests := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"07:30", 7, 30, false},
		{"07:30:15", 7, 30, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"nope", 0, 0, true},
		{"aa:bb", 0, 0, true},
	}

	for _, tt := range tests {
		h, m, err := ParseAlarmTime(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAlarmTime(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAlarmTime(%q): %v", tt.in, err)
			continue
		}
		if h != tt.hour || m != tt.minute {
			t.Errorf("ParseAlarmTime(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.hour, tt.minute)
		}
	}
}

func TestWeekdayIndex(t *testing.T) {
	if got := weekdayIndex(time.Monday); got != 0 {
		t.Errorf("Monday: got %d, want 0", got)
	}
	if got := weekdayIndex(time.Sunday); got != 6 {
		t.Errorf("Sunday: got %d, want 6", got)
	}
	if got := weekdayIndex(time.Saturday); got != 5 {
		t.Errorf("Saturday: got %d, want 5", got)
	}
}
