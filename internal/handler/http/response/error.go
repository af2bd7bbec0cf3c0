package response

import (
	"errors"
	"net/http"

	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
	"github.com/promoterhub/workforce-backend-go/internal/domain/employee"
	"github.com/promoterhub/workforce-backend-go/internal/domain/schedule"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// State machine conflicts
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "No check-in recorded today")
	case errors.Is(err, attendance.ErrBreakAlreadyOpen):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, attendance.ErrNoOpenBreak):
		Conflict(w, "No break in progress")
	case errors.Is(err, attendance.ErrOpenBreakPending):
		Conflict(w, "End the open break before checking out")
	case errors.Is(err, attendance.ErrNotEligibleForApproval):
		Conflict(w, "Attendance record is not eligible for this approval action")

	// Punch policy
	case errors.Is(err, attendance.ErrLocationRequired):
		BadRequest(w, "Location is required for this schedule", nil)
	case errors.Is(err, attendance.ErrOutsideGeofence):
		Forbidden(w, "Location is outside the allowed work area")
	case errors.Is(err, attendance.ErrPhotoRequired):
		BadRequest(w, "Attendance proof photo is required for this schedule", nil)
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		BadRequest(w, "Check-out cannot be earlier than check-in", nil)
	case errors.Is(err, attendance.ErrBreakEndBeforeStart):
		BadRequest(w, "Break end cannot be earlier than break start", nil)
	case errors.Is(err, attendance.ErrReasonRequired):
		BadRequest(w, "Rejection reason is required", nil)

	// Lookups
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNoScheduleFound):
		NotFound(w, "No active work schedule for today")
	case errors.Is(err, schedule.ErrWorkScheduleNotFound):
		NotFound(w, "Work schedule not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
