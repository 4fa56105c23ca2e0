package schedule_test

import (
	"testing"
	"time"

	"github.com/offboard/offboard/internal/schedule"
)

func TestComputeDeadline_SkipsWeekends(t *testing.T) {
	// Monday 2025-01-06 10:00 UTC.
	monday := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		reference    time.Time
		businessDays int
		want         time.Time
	}{
		{
			name:         "seven business days from a Monday crosses one weekend",
			reference:    monday,
			businessDays: 7,
			// Tue 7, Wed 8, Thu 9, Fri 10, Mon 13, Tue 14, Wed 15.
			want: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:         "one business day from a Friday lands on Monday",
			reference:    time.Date(2025, 1, 10, 17, 30, 0, 0, time.UTC),
			businessDays: 1,
			want:         time.Date(2025, 1, 13, 17, 30, 0, 0, time.UTC),
		},
		{
			name:         "one business day from a Saturday lands on Monday",
			reference:    time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC),
			businessDays: 1,
			want:         time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC),
		},
		{
			name:         "five business days from a Monday is the next Monday",
			reference:    monday,
			businessDays: 5,
			want:         time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC),
		},
		{
			name:         "ten business days crosses two weekends",
			reference:    monday,
			businessDays: 10,
			want:         time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.ComputeDeadline(tt.reference, tt.businessDays, nil)
			if !got.Equal(tt.want) {
				t.Errorf("ComputeDeadline(%v, %d) = %v, want %v",
					tt.reference, tt.businessDays, got, tt.want)
			}
		})
	}
}

func TestComputeDeadline_NeverLandsOnWeekend(t *testing.T) {
	// Every start day of a full week, every offset up to three weeks.
	start := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	for day := 0; day < 7; day++ {
		ref := start.AddDate(0, 0, day)
		for n := 1; n <= 15; n++ {
			got := schedule.ComputeDeadline(ref, n, nil)
			if wd := got.Weekday(); wd == time.Saturday || wd == time.Sunday {
				t.Errorf("ComputeDeadline(%v, %d) landed on %v", ref, n, wd)
			}
		}
	}
}

func TestComputeDeadline_CountsExactlyNBusinessDays(t *testing.T) {
	start := time.Date(2025, 3, 3, 8, 15, 0, 0, time.UTC) // Monday
	for day := 0; day < 7; day++ {
		ref := start.AddDate(0, 0, day)
		for n := 1; n <= 12; n++ {
			got := schedule.ComputeDeadline(ref, n, nil)

			// Re-count weekdays strictly after the reference, up to and
			// including the result.
			counted := 0
			for d := ref.AddDate(0, 0, 1); !d.After(got); d = d.AddDate(0, 0, 1) {
				if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
					counted++
				}
			}
			if counted != n {
				t.Errorf("ComputeDeadline(%v, %d): %d business days between reference and result",
					ref, n, counted)
			}
		}
	}
}

func TestComputeDeadline_PreservesTimeOfDay(t *testing.T) {
	ref := time.Date(2025, 6, 2, 23, 59, 59, 123456789, time.UTC)
	got := schedule.ComputeDeadline(ref, 7, nil)

	h, m, s := got.Clock()
	if h != 23 || m != 59 || s != 59 || got.Nanosecond() != 123456789 {
		t.Errorf("time of day not preserved: got %v", got)
	}
}

func TestComputeDeadline_CustomWeekend(t *testing.T) {
	// Friday/Saturday weekend.
	weekend := map[time.Weekday]bool{
		time.Friday:   true,
		time.Saturday: true,
	}

	// Thursday 2025-01-09 + 1 business day should be Sunday.
	ref := time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC)
	got := schedule.ComputeDeadline(ref, 1, weekend)
	want := time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ComputeDeadline with custom weekend = %v, want %v", got, want)
	}
}

func TestFormatDeadline(t *testing.T) {
	// Wednesday 15 January 2025.
	deadline := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		locale string
		want   string
	}{
		{"en-US", "Wednesday, 15 January 2025"},
		{"", "Wednesday, 15 January 2025"},
		{"nl-NL", "woensdag 15 januari 2025"},
		{"nl", "woensdag 15 januari 2025"},
	}

	for _, tt := range tests {
		if got := schedule.FormatDeadline(deadline, tt.locale); got != tt.want {
			t.Errorf("FormatDeadline(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}
