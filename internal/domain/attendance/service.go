package attendance

import (
	"context"
	"time"
)

// Clock supplies the current time for punch operations, so tests and replay
// tooling can control timestamps.
type Clock func() time.Time

// Service defines business logic for attendance operations.
type Service interface {
	// CheckIn opens the employee's day: validates geofence/photo policy,
	// derives present/late, creates the record.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the day and computes total, overtime and break totals;
	// the record then enters the approval queue.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// StartBreak opens a break on today's record.
	StartBreak(ctx context.Context) (AttendanceResponse, error)

	// EndBreak closes the open break and recomputes the break total.
	EndBreak(ctx context.Context) (AttendanceResponse, error)

	// GetToday returns today's record and the legal next actions.
	GetToday(ctx context.Context) (TodayResponse, error)

	// GetMyAttendance retrieves records for the authenticated employee.
	GetMyAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves records with filters (reviewer).
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single record by id (reviewer).
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ProcessApproval applies a bulk approve/reject, returning a per-id
	// result list; one ineligible record never aborts the batch.
	ProcessApproval(ctx context.Context, req ApprovalRequest) (ApprovalResponse, error)

	// ReopenApproval moves a rejected record back to pending (correction).
	ReopenApproval(ctx context.Context, id string) (AttendanceResponse, error)

	// SetDayStatus records an administrative day status (absent, leave,
	// holiday, half_day) for an employee.
	SetDayStatus(ctx context.Context, req DayStatusRequest) error

	// MarkAbsent records an absent day for an employee; used by the cron
	// sweep for scheduled employees with no record.
	MarkAbsent(ctx context.Context, employeeID string, companyID string, date time.Time) error
}
