package attendance

import (
	"mime/multipart"
	"strings"

	"github.com/promoterhub/workforce-backend-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT DTOs
// ========================================

// PunchRequest carries the capture adapter payload shared by check-in and
// check-out: a geolocation reading and an optional proof photo. Coordinates
// are pointers so "no reading supplied" is distinguishable from (0, 0).
type PunchRequest struct {
	Latitude   *float64              `json:"latitude"`
	Longitude  *float64              `json:"longitude"`
	Accuracy   *float64              `json:"accuracy"`
	DeviceInfo *string               `json:"device_info,omitempty"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be supplied together",
		})
	}

	if r.FileHeader != nil {
		filename := r.FileHeader.Filename
		idx := strings.LastIndex(filename, ".")
		ext := ""
		if idx >= 0 {
			ext = strings.ToLower(filename[idx:])
		}
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "invalid file type: only jpg, jpeg, png allowed",
			})
		} else if r.FileHeader.Size > 10<<20 { // 10MB
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "attendance proof photo size must not exceed 10MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckInRequest struct {
	PunchRequest
}

type CheckOutRequest struct {
	PunchRequest
}

// ========================================
// BREAK DTOs
// ========================================

const (
	BreakActionStart = "start"
	BreakActionEnd   = "end"
)

type BreakRequest struct {
	Action string `json:"action"` // start | end
}

func (r *BreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Action, []string{BreakActionStart, BreakActionEnd}) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: start, end",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// APPROVAL DTOs
// ========================================

const (
	ApprovalActionApprove = "approve"
	ApprovalActionReject  = "reject"
)

// ApprovalRequest is a bulk approve-or-reject over checked-out records.
type ApprovalRequest struct {
	AttendanceIDs   []string `json:"attendance_ids"`
	Action          string   `json:"action"` // approve | reject
	RejectionReason *string  `json:"rejection_reason,omitempty"`
}

func (r *ApprovalRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.AttendanceIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_ids",
			Message: "attendance_ids must not be empty",
		})
	}

	if !validator.IsInSlice(r.Action, []string{ApprovalActionApprove, ApprovalActionReject}) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: approve, reject",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ApprovalResult reports the outcome for one id in a bulk approval request.
// One bad id never aborts the batch.
type ApprovalResult struct {
	AttendanceID string  `json:"attendance_id"`
	Success      bool    `json:"success"`
	Error        *string `json:"error,omitempty"`
}

type ApprovalResponse struct {
	Action    string           `json:"action"`
	Processed int              `json:"processed"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []ApprovalResult `json:"results"`
}

// ========================================
// ADMINISTRATIVE DTOs
// ========================================

// DayStatusRequest sets an administrative day status (absent, leave, holiday,
// half_day) for an employee. present/late are derived and cannot be set here.
type DayStatusRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Status     string `json:"status"`
}

func (r *DayStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	validStatuses := []string{string(StatusAbsent), string(StatusLeave), string(StatusHoliday), string(StatusHalfDay)}
	if !validator.IsInSlice(r.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: absent, leave, holiday, half_day",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================

type BreakResponse struct {
	ID      string  `json:"id"`
	StartAt string  `json:"start_at"`
	EndAt   *string `json:"end_at,omitempty"`
}

type AttendanceResponse struct {
	ID                   string          `json:"id"`
	EmployeeID           string          `json:"employee_id"`
	EmployeeName         *string         `json:"employee_name,omitempty"`
	Date                 string          `json:"date"`
	CheckInAt            *string         `json:"check_in_at,omitempty"`
	CheckOutAt           *string         `json:"check_out_at,omitempty"`
	Breaks               []BreakResponse `json:"breaks,omitempty"`
	BreakDurationMinutes *int            `json:"break_duration_minutes,omitempty"`
	TotalHours           *float64        `json:"total_hours,omitempty"`
	OvertimeHours        *float64        `json:"overtime_hours,omitempty"`
	Status               string          `json:"status"`
	ApprovalStatus       *string         `json:"approval_status,omitempty"`
	RejectionReason      *string         `json:"rejection_reason,omitempty"`
	CheckInLatitude      *float64        `json:"check_in_latitude,omitempty"`
	CheckInLongitude     *float64        `json:"check_in_longitude,omitempty"`
	CheckOutLatitude     *float64        `json:"check_out_latitude,omitempty"`
	CheckOutLongitude    *float64        `json:"check_out_longitude,omitempty"`
	CheckInPhoto         *string         `json:"check_in_photo,omitempty"`
	CheckOutPhoto        *string         `json:"check_out_photo,omitempty"`
	CreatedAt            string          `json:"created_at,omitempty"`
	UpdatedAt            string          `json:"updated_at,omitempty"`
}

// TodayResponse backs the polling read endpoint the UI refreshes against.
type TodayResponse struct {
	HasRecord     bool                `json:"has_record"`
	Attendance    *AttendanceResponse `json:"attendance,omitempty"`
	OnBreak       bool                `json:"on_break"`
	CanCheckIn    bool                `json:"can_check_in"`
	CanCheckOut   bool                `json:"can_check_out"`
	CanStartBreak bool                `json:"can_start_break"`
	CanEndBreak   bool                `json:"can_end_break"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// FILTERS
// ========================================

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`
	Approval   *string `json:"approval_status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, check_in_at, check_out_at, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		validStatuses := []string{
			string(StatusPresent), string(StatusLate), string(StatusAbsent),
			string(StatusHalfDay), string(StatusLeave), string(StatusHoliday),
		}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: present, late, absent, half_day, leave, holiday",
			})
		}
	}

	if f.Approval != nil {
		validApprovals := []string{
			string(ApprovalPending), string(ApprovalApproved), string(ApprovalRejected),
		}
		if !validator.IsInSlice(*f.Approval, validApprovals) {
			errs = append(errs, validator.ValidationError{
				Field:   "approval_status",
				Message: "approval_status must be one of: pending, approved, rejected",
			})
		}
	}

	for field, value := range map[string]*string{
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "check_in_at", "check_out_at", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, check_in_at, check_out_at, status",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
