package security

import (
	"testing"
	"time"
)

func TestSchedule_DurationFor(t *testing.T) {
	s := Schedule{30 * time.Minute, 2 * time.Hour, 8 * time.Hour}

	tests := []struct {
		name      string
		priorBans int
		want      time.Duration
	}{
		{"first ban", 0, 30 * time.Minute},
		{"second ban", 1, 2 * time.Hour},
		{"third ban", 2, 8 * time.Hour},
		{"beyond table plateaus at last entry", 5, 8 * time.Hour},
		{"far beyond table still plateaus", 100, 8 * time.Hour},
		{"negative clamps to first entry", -3, 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.DurationFor(tt.priorBans); got != tt.want {
				t.Errorf("DurationFor(%d) = %v, want %v", tt.priorBans, got, tt.want)
			}
		})
	}
}

func TestSchedule_DurationFor_EmptyFallsBackToDefault(t *testing.T) {
	var empty Schedule
	if got := empty.DurationFor(0); got != DefaultSchedule[0] {
		t.Errorf("DurationFor(0) on empty schedule = %v, want %v", got, DefaultSchedule[0])
	}
	last := DefaultSchedule[len(DefaultSchedule)-1]
	if got := empty.DurationFor(50); got != last {
		t.Errorf("DurationFor(50) on empty schedule = %v, want %v", got, last)
	}
}

func TestScheduleFromMinutes(t *testing.T) {
	tests := []struct {
		name    string
		minutes []int
		want    Schedule
	}{
		{
			"configured values",
			[]int{15, 60},
			Schedule{15 * time.Minute, time.Hour},
		},
		{"empty falls back to default", nil, DefaultSchedule},
		{"zero entry falls back to default", []int{30, 0, 60}, DefaultSchedule},
		{"negative entry falls back to default", []int{-5}, DefaultSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScheduleFromMinutes(tt.minutes)
			if len(got) != len(tt.want) {
				t.Fatalf("ScheduleFromMinutes() len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ScheduleFromMinutes()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
