package schedule

import (
	"fmt"
	"time"
)

// Location is a circular geofence target attached to a schedule. An employee
// punching under a geofenced schedule must be inside at least one of them.
type Location struct {
	ID             string
	WorkScheduleID string
	Name           string
	Latitude       float64
	Longitude      float64
	RadiusMeters   float64
}

// WorkSchedule is the shift configuration the state machine validates punches
// against.
type WorkSchedule struct {
	ID        string
	CompanyID string
	Name      string

	ExpectedStart      string // "HH:MM", local to Timezone
	GraceMinutes       *int   // nil means inherit the company default, 0 means no grace
	StandardShiftHours float64
	Timezone           string // IANA name, e.g. "Asia/Jakarta"

	RequireGeofence bool
	RequirePhoto    bool

	Locations []Location

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimeLocation resolves the schedule timezone, falling back to UTC when
// unset or unknown.
func (s *WorkSchedule) TimeLocation() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StartOn returns the scheduled shift start on the given working day.
func (s *WorkSchedule) StartOn(date time.Time) (time.Time, error) {
	start, err := time.Parse("15:04", s.ExpectedStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expected start %q: %w", s.ExpectedStart, err)
	}

	loc := s.TimeLocation()
	local := date.In(loc)
	return time.Date(
		local.Year(), local.Month(), local.Day(),
		start.Hour(), start.Minute(), 0, 0,
		loc,
	), nil
}

// GraceLimitOn returns the latest on-time check-in instant on the given day.
// Schedules without an explicit grace period use defaultGraceMinutes.
func (s *WorkSchedule) GraceLimitOn(date time.Time, defaultGraceMinutes int) (time.Time, error) {
	start, err := s.StartOn(date)
	if err != nil {
		return time.Time{}, err
	}
	grace := defaultGraceMinutes
	if s.GraceMinutes != nil {
		grace = *s.GraceMinutes
	}
	return start.Add(time.Duration(grace) * time.Minute), nil
}
