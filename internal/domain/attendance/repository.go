package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records. All reads and writes
// are scoped by companyID to prevent cross-company data access.
type Repository interface {
	// Create inserts a new attendance record. The store enforces the unique
	// (employee_id, date) constraint; a conflicting insert returns
	// ErrAlreadyCheckedIn so a retried check-in lands on the correct
	// terminal state.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves a record with its break sessions.
	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// GetByEmployeeAndDate retrieves the record for one employee-day with its
	// break sessions. Returns (nil, nil) when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Attendance, error)

	// SetCheckIn records check-in data on an existing record that has none
	// yet (e.g. a day pre-marked absent). Returns ErrAlreadyCheckedIn if the
	// record already has a check-in.
	SetCheckIn(ctx context.Context, att Attendance) error

	// SetCheckOut records the checkout and derived fields in one conditional
	// update. Returns ErrAlreadyCheckedOut if the record already has a
	// checkout, so concurrent checkouts cannot both succeed.
	SetCheckOut(ctx context.Context, att Attendance) error

	// AddBreak appends an open break session. It fails with
	// ErrBreakAlreadyOpen when the record already has an open break or is
	// checked out, so concurrent starts cannot both land.
	AddBreak(ctx context.Context, attendanceID string, startAt time.Time) (BreakSession, error)

	// CloseBreak ends an open break and stores the recomputed break total on
	// the parent record. Returns ErrNoOpenBreak if the break is already
	// closed.
	CloseBreak(ctx context.Context, breakID string, endAt time.Time, breakDurationMinutes int) error

	// TransitionApproval moves the approval status, re-verifying eligibility
	// at write time: pending→approved, pending→rejected and rejected→pending
	// are the only legal moves, and only on checked-out records. Returns
	// ErrNotEligibleForApproval otherwise.
	TransitionApproval(ctx context.Context, id string, companyID string, to ApprovalStatus, reviewerID string, reviewedAt time.Time, reason *string) error

	// SetDayStatus upserts an administrative status (absent, leave, holiday,
	// half_day) for an employee-day without touching punch data. Days that
	// already have a check-in are left alone and reported via
	// ErrAlreadyCheckedIn.
	SetDayStatus(ctx context.Context, employeeID string, companyID string, date time.Time, status Status) error

	// List retrieves records with filters and pagination (reviewer surface).
	List(ctx context.Context, filter AttendanceFilter, companyID string) ([]Attendance, int64, error)

	// ListByEmployee retrieves records for one employee with filters and
	// pagination.
	ListByEmployee(ctx context.Context, employeeID string, filter AttendanceFilter, companyID string) ([]Attendance, int64, error)

	// ListRange retrieves all records in [start, end] for summary
	// aggregation, optionally restricted to one employee.
	ListRange(ctx context.Context, companyID string, start, end time.Time, employeeID *string) ([]Attendance, error)
}
