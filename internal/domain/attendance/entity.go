package attendance

import (
	"time"
)

// Status is the day-level attendance status. present/late are derived at
// check-in; absent/leave/holiday/half_day are set administratively.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
	StatusLeave   Status = "leave"
	StatusHoliday Status = "holiday"
)

// ApprovalStatus tracks the reviewer decision. A record enters "pending" once
// checked out; records without a checkout are not submitted for approval.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// BreakSession is one break within a working day. EndAt is nil while the
// break is open; at most one open break may exist per attendance record.
type BreakSession struct {
	ID           string
	AttendanceID string
	StartAt      time.Time
	EndAt        *time.Time
	CreatedAt    time.Time
}

// Open reports whether the break has not been ended yet.
func (b BreakSession) Open() bool {
	return b.EndAt == nil
}

type Attendance struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time // working day, truncated to midnight; natural key with EmployeeID

	CheckInAt  *time.Time
	CheckOutAt *time.Time
	Breaks     []BreakSession

	// Derived fields, recomputed inside mutating operations and never
	// accepted as input.
	BreakDurationMinutes *int
	TotalHours           *float64
	OvertimeHours        *float64

	Status          Status
	ApprovalStatus  *ApprovalStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckInAccuracy   *float64
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutAccuracy  *float64

	CheckInPhotoRef  *string
	CheckOutPhotoRef *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// CheckedIn reports whether the day has a recorded check-in.
func (a *Attendance) CheckedIn() bool {
	return a.CheckInAt != nil
}

// CheckedOut reports whether the day has a recorded check-out.
func (a *Attendance) CheckedOut() bool {
	return a.CheckOutAt != nil
}

// OpenBreak returns the unterminated break, if any.
func (a *Attendance) OpenBreak() *BreakSession {
	for i := range a.Breaks {
		if a.Breaks[i].Open() {
			return &a.Breaks[i]
		}
	}
	return nil
}
