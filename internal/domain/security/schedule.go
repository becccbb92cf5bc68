package security

import "time"

// Schedule is the escalating ban-duration table. It is plain data so that
// tuning never touches branching logic.
type Schedule []time.Duration

// DefaultSchedule escalates from 30 minutes to a one-week plateau.
var DefaultSchedule = Schedule{
	30 * time.Minute,
	2 * time.Hour,
	8 * time.Hour,
	24 * time.Hour,
	72 * time.Hour,
	168 * time.Hour,
}

// DurationFor returns the ban duration for a subject with priorBans
// previous bans. Counts beyond the table plateau at the last entry.
func (s Schedule) DurationFor(priorBans int) time.Duration {
	if len(s) == 0 {
		return DefaultSchedule.DurationFor(priorBans)
	}
	if priorBans < 0 {
		priorBans = 0
	}
	if priorBans >= len(s) {
		priorBans = len(s) - 1
	}
	return s[priorBans]
}

// ScheduleFromMinutes builds a schedule from configured minute values.
// An empty or invalid configuration falls back to the default schedule.
func ScheduleFromMinutes(minutes []int) Schedule {
	if len(minutes) == 0 {
		return DefaultSchedule
	}
	s := make(Schedule, 0, len(minutes))
	for _, m := range minutes {
		if m <= 0 {
			return DefaultSchedule
		}
		s = append(s, time.Duration(m)*time.Minute)
	}
	return s
}
