package attendance

import "errors"

// Attendance domain errors
var (
	// State conflicts
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrBreakAlreadyOpen  = errors.New("a break is already open")
	ErrNoOpenBreak       = errors.New("no open break to end")
	ErrOpenBreakPending  = errors.New("end the open break before checking out")

	// Validation failures
	ErrLocationRequired      = errors.New("a location reading is required for this schedule")
	ErrOutsideGeofence       = errors.New("you are outside the allowed radius")
	ErrPhotoRequired         = errors.New("an attendance proof photo is required for this schedule")
	ErrCheckOutBeforeCheckIn = errors.New("check-out time is before check-in time")
	ErrBreakEndBeforeStart   = errors.New("break end time is before its start time")
	ErrReasonRequired        = errors.New("rejection reason is required")

	// Approval errors
	ErrNotEligibleForApproval = errors.New("attendance is not eligible for this approval action")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNoScheduleFound    = errors.New("no schedule found for today")
)
