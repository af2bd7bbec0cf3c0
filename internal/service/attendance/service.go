package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
	"github.com/promoterhub/workforce-backend-go/internal/domain/schedule"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/database"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/geofence"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/keylock"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/validator"
	"github.com/promoterhub/workforce-backend-go/internal/service/file"
)

// Defaults are company-wide fallbacks applied when a schedule does not carry
// its own values.
type Defaults struct {
	StandardShiftHours float64
	GraceMinutes       int
}

type AttendanceServiceImpl struct {
	db             *database.DB
	attendanceRepo attendance.Repository
	scheduleRepo   schedule.Repository
	fileService    file.Service
	defaults       Defaults
	locks          *keylock.KeyLock
	now            attendance.Clock
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.Repository,
	scheduleRepo schedule.Repository,
	fileService file.Service,
	defaults Defaults,
	clock attendance.Clock,
) attendance.Service {
	if clock == nil {
		clock = time.Now
	}
	if defaults.StandardShiftHours <= 0 {
		defaults.StandardShiftHours = 8
	}
	return &AttendanceServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		scheduleRepo:   scheduleRepo,
		fileService:    fileService,
		defaults:       defaults,
		locks:          keylock.New(),
		now:            clock,
	}
}

type identity struct {
	UserID     string
	EmployeeID string
	CompanyID  string
}

func identityFromContext(ctx context.Context) (identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return identity{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	var ident identity
	if v, ok := claims["user_id"].(string); ok {
		ident.UserID = v
	}
	if v, ok := claims["employee_id"].(string); ok {
		ident.EmployeeID = v
	}
	if v, ok := claims["company_id"].(string); ok {
		ident.CompanyID = v
	}

	if ident.CompanyID == "" {
		return identity{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	return ident, nil
}

// punchKey serializes mutations per employee-day. Two concurrent check-ins
// for the same day must not both succeed.
func punchKey(employeeID string, day time.Time) string {
	return employeeID + ":" + day.Format("2006-01-02")
}

// workingDay truncates a local time to its calendar date, stored as a
// UTC-midnight value.
func workingDay(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format("2006-01-02 15:04:05")
	return &format
}

// CheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if ident.EmployeeID == "" {
		return attendance.AttendanceResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	nowUTC := a.now().UTC()

	activeSchedule, err := a.scheduleRepo.GetActiveSchedule(ctx, ident.EmployeeID, nowUTC, ident.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get active schedule: %w", err)
	}
	if activeSchedule == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoScheduleFound
	}

	nowLocal := nowUTC.In(activeSchedule.TimeLocation())
	day := workingDay(nowLocal)

	key := punchKey(ident.EmployeeID, day)
	a.locks.Lock(key)
	defer a.locks.Unlock(key)

	existing, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, ident.EmployeeID, day, ident.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if existing != nil && existing.CheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	if err := a.validatePunchPolicy(activeSchedule, req.PunchRequest); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	status, err := a.arrivalStatus(activeSchedule, nowLocal)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	photoRef, err := a.uploadProof(ctx, ident.EmployeeID, day, req.PunchRequest, "check_in")
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if existing != nil {
		// The day was pre-marked (e.g. absent by the sweep); the punch
		// attaches to that row and overrides the administrative status.
		existing.CheckInAt = &nowUTC
		existing.Status = status
		existing.CheckInLatitude = req.Latitude
		existing.CheckInLongitude = req.Longitude
		existing.CheckInAccuracy = req.Accuracy
		existing.CheckInPhotoRef = photoRef

		if err := a.attendanceRepo.SetCheckIn(ctx, *existing); err != nil {
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
			}
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to record check-in: %w", err)
		}
		return mapAttendanceToResponse(*existing), nil
	}

	data := attendance.Attendance{
		EmployeeID: ident.EmployeeID,
		CompanyID:  ident.CompanyID,
		Date:       day,

		CheckInAt:        &nowUTC,
		CheckInLatitude:  req.Latitude,
		CheckInLongitude: req.Longitude,
		CheckInAccuracy:  req.Accuracy,
		CheckInPhotoRef:  photoRef,

		Status: status,
	}

	created, err := a.attendanceRepo.Create(ctx, data)
	if err != nil {
		// A racing check-in that committed first is the correct terminal
		// state for a retry.
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return mapAttendanceToResponse(created), nil
}

// CheckOut implements attendance.Service.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if ident.EmployeeID == "" {
		return attendance.AttendanceResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	nowUTC := a.now().UTC()

	activeSchedule, err := a.scheduleRepo.GetActiveSchedule(ctx, ident.EmployeeID, nowUTC, ident.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get active schedule: %w", err)
	}
	if activeSchedule == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoScheduleFound
	}

	nowLocal := nowUTC.In(activeSchedule.TimeLocation())
	day := workingDay(nowLocal)

	key := punchKey(ident.EmployeeID, day)
	a.locks.Lock(key)
	defer a.locks.Unlock(key)

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, ident.EmployeeID, day, ident.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if rec == nil || !rec.CheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if rec.OpenBreak() != nil {
		return attendance.AttendanceResponse{}, attendance.ErrOpenBreakPending
	}
	if nowUTC.Before(*rec.CheckInAt) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeCheckIn
	}

	if err := a.validatePunchPolicy(activeSchedule, req.PunchRequest); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	photoRef, err := a.uploadProof(ctx, ident.EmployeeID, day, req.PunchRequest, "check_out")
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	breakMinutes := BreakDurationMinutes(rec.Breaks)
	totalHours := TotalHours(*rec.CheckInAt, nowUTC, breakMinutes)
	overtimeHours := OvertimeHours(totalHours, a.standardShiftHours(activeSchedule))
	pending := attendance.ApprovalPending

	rec.CheckOutAt = &nowUTC
	rec.CheckOutLatitude = req.Latitude
	rec.CheckOutLongitude = req.Longitude
	rec.CheckOutAccuracy = req.Accuracy
	rec.CheckOutPhotoRef = photoRef
	rec.BreakDurationMinutes = &breakMinutes
	rec.TotalHours = &totalHours
	rec.OvertimeHours = &overtimeHours
	rec.ApprovalStatus = &pending

	if err := a.attendanceRepo.SetCheckOut(ctx, *rec); err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to record check-out: %w", err)
	}

	return mapAttendanceToResponse(*rec), nil
}

// StartBreak implements attendance.Service.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context) (attendance.AttendanceResponse, error) {
	rec, unlock, err := a.todayForMutation(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	defer unlock()

	if rec.CheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if rec.OpenBreak() != nil {
		return attendance.AttendanceResponse{}, attendance.ErrBreakAlreadyOpen
	}

	nowUTC := a.now().UTC()
	br, err := a.attendanceRepo.AddBreak(ctx, rec.ID, nowUTC)
	if err != nil {
		if errors.Is(err, attendance.ErrBreakAlreadyOpen) {
			return attendance.AttendanceResponse{}, attendance.ErrBreakAlreadyOpen
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to start break: %w", err)
	}

	rec.Breaks = append(rec.Breaks, br)
	return mapAttendanceToResponse(*rec), nil
}

// EndBreak implements attendance.Service.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context) (attendance.AttendanceResponse, error) {
	rec, unlock, err := a.todayForMutation(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	defer unlock()

	open := rec.OpenBreak()
	if open == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoOpenBreak
	}

	nowUTC := a.now().UTC()
	if nowUTC.Before(open.StartAt) {
		return attendance.AttendanceResponse{}, attendance.ErrBreakEndBeforeStart
	}

	open.EndAt = &nowUTC
	breakMinutes := BreakDurationMinutes(rec.Breaks)

	if err := a.attendanceRepo.CloseBreak(ctx, open.ID, nowUTC, breakMinutes); err != nil {
		if errors.Is(err, attendance.ErrNoOpenBreak) {
			return attendance.AttendanceResponse{}, attendance.ErrNoOpenBreak
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to end break: %w", err)
	}

	rec.BreakDurationMinutes = &breakMinutes
	return mapAttendanceToResponse(*rec), nil
}

// todayForMutation resolves today's record for the authenticated employee,
// holding the employee-day lock so the record cannot change between the
// state pre-checks and the write. The caller must invoke the returned unlock.
func (a *AttendanceServiceImpl) todayForMutation(ctx context.Context) (*attendance.Attendance, func(), error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	if ident.EmployeeID == "" {
		return nil, nil, fmt.Errorf("employee_id claim is missing or invalid")
	}

	nowUTC := a.now().UTC()

	activeSchedule, err := a.scheduleRepo.GetActiveSchedule(ctx, ident.EmployeeID, nowUTC, ident.CompanyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get active schedule: %w", err)
	}

	loc := time.UTC
	if activeSchedule != nil {
		loc = activeSchedule.TimeLocation()
	}
	day := workingDay(nowUTC.In(loc))

	key := punchKey(ident.EmployeeID, day)
	a.locks.Lock(key)
	unlock := func() { a.locks.Unlock(key) }

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, ident.EmployeeID, day, ident.CompanyID)
	if err != nil {
		unlock()
		return nil, nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if rec == nil || !rec.CheckedIn() {
		unlock()
		return nil, nil, attendance.ErrNotCheckedIn
	}

	return rec, unlock, nil
}

// GetToday implements attendance.Service.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	if ident.EmployeeID == "" {
		return attendance.TodayResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	nowUTC := a.now().UTC()

	activeSchedule, err := a.scheduleRepo.GetActiveSchedule(ctx, ident.EmployeeID, nowUTC, ident.CompanyID)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get active schedule: %w", err)
	}

	loc := time.UTC
	if activeSchedule != nil {
		loc = activeSchedule.TimeLocation()
	}
	day := workingDay(nowUTC.In(loc))

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, ident.EmployeeID, day, ident.CompanyID)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if rec == nil {
		return attendance.TodayResponse{
			HasRecord:  false,
			CanCheckIn: activeSchedule != nil,
		}, nil
	}

	resp := mapAttendanceToResponse(*rec)
	onBreak := rec.OpenBreak() != nil

	return attendance.TodayResponse{
		HasRecord:     true,
		Attendance:    &resp,
		OnBreak:       onBreak,
		CanCheckIn:    !rec.CheckedIn() && activeSchedule != nil,
		CanCheckOut:   rec.CheckedIn() && !rec.CheckedOut() && !onBreak,
		CanStartBreak: rec.CheckedIn() && !rec.CheckedOut() && !onBreak,
		CanEndBreak:   onBreak,
	}, nil
}

// GetMyAttendance implements attendance.Service.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if ident.EmployeeID == "" {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	attendances, total, err := a.attendanceRepo.ListByEmployee(ctx, ident.EmployeeID, filter, ident.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}

	return buildListResponse(attendances, total, filter), nil
}

// ListAttendance implements attendance.Service.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.attendanceRepo.List(ctx, filter, ident.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	return buildListResponse(attendances, total, filter), nil
}

// GetAttendance implements attendance.Service.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := a.attendanceRepo.GetByID(ctx, id, ident.CompanyID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return mapAttendanceToResponse(att), nil
}

// ProcessApproval implements attendance.Service.
func (a *AttendanceServiceImpl) ProcessApproval(ctx context.Context, req attendance.ApprovalRequest) (attendance.ApprovalResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ApprovalResponse{}, err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.ApprovalResponse{}, err
	}
	if ident.UserID == "" {
		return attendance.ApprovalResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	var to attendance.ApprovalStatus
	var reason *string
	switch req.Action {
	case attendance.ApprovalActionApprove:
		to = attendance.ApprovalApproved
	case attendance.ApprovalActionReject:
		if req.RejectionReason == nil || validator.IsEmpty(*req.RejectionReason) {
			return attendance.ApprovalResponse{}, attendance.ErrReasonRequired
		}
		to = attendance.ApprovalRejected
		reason = req.RejectionReason
	}

	reviewedAt := a.now().UTC()

	resp := attendance.ApprovalResponse{
		Action:    req.Action,
		Processed: len(req.AttendanceIDs),
		Results:   make([]attendance.ApprovalResult, 0, len(req.AttendanceIDs)),
	}

	// Each id is judged independently; one ineligible record must not abort
	// the batch.
	for _, id := range req.AttendanceIDs {
		err := a.attendanceRepo.TransitionApproval(ctx, id, ident.CompanyID, to, ident.UserID, reviewedAt, reason)
		if err != nil {
			msg := approvalFailureMessage(err)
			resp.Results = append(resp.Results, attendance.ApprovalResult{
				AttendanceID: id,
				Success:      false,
				Error:        &msg,
			})
			resp.Failed++
			continue
		}
		resp.Results = append(resp.Results, attendance.ApprovalResult{
			AttendanceID: id,
			Success:      true,
		})
		resp.Succeeded++
	}

	return resp, nil
}

func approvalFailureMessage(err error) string {
	switch {
	case errors.Is(err, attendance.ErrNotEligibleForApproval):
		return attendance.ErrNotEligibleForApproval.Error()
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.ErrAttendanceNotFound.Error()
	default:
		return "failed to process attendance"
	}
}

// ReopenApproval implements attendance.Service. Moves a rejected record back
// to pending so it can be re-judged; the approved state has no reversal path
// here.
func (a *AttendanceServiceImpl) ReopenApproval(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	ident, err := identityFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if ident.UserID == "" {
		return attendance.AttendanceResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	if err := a.attendanceRepo.TransitionApproval(ctx, id, ident.CompanyID, attendance.ApprovalPending, ident.UserID, a.now().UTC(), nil); err != nil {
		if errors.Is(err, attendance.ErrNotEligibleForApproval) || errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to reopen approval: %w", err)
	}

	att, err := a.attendanceRepo.GetByID(ctx, id, ident.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get updated attendance: %w", err)
	}

	return mapAttendanceToResponse(att), nil
}

// SetDayStatus implements attendance.Service.
func (a *AttendanceServiceImpl) SetDayStatus(ctx context.Context, req attendance.DayStatusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	ident, err := identityFromContext(ctx)
	if err != nil {
		return err
	}

	date, _ := validator.IsValidDate(req.Date)

	key := punchKey(req.EmployeeID, date)
	a.locks.Lock(key)
	defer a.locks.Unlock(key)

	if err := a.attendanceRepo.SetDayStatus(ctx, req.EmployeeID, ident.CompanyID, date, attendance.Status(req.Status)); err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.ErrAlreadyCheckedIn
		}
		return fmt.Errorf("failed to set day status: %w", err)
	}

	return nil
}

// MarkAbsent implements attendance.Service. Called by the cron sweep, so it
// takes the employee/company directly instead of claims.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, employeeID string, companyID string, date time.Time) error {
	day := workingDay(date)

	key := punchKey(employeeID, day)
	a.locks.Lock(key)
	defer a.locks.Unlock(key)

	if err := a.attendanceRepo.SetDayStatus(ctx, employeeID, companyID, day, attendance.StatusAbsent); err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.ErrAlreadyCheckedIn
		}
		return fmt.Errorf("failed to mark absent: %w", err)
	}

	return nil
}

// validatePunchPolicy applies the schedule's geofence and photo mandates.
// Client-side capture is bypassable, so these are re-verified here.
func (a *AttendanceServiceImpl) validatePunchPolicy(sched *schedule.WorkSchedule, req attendance.PunchRequest) error {
	if sched.RequireGeofence {
		if req.Latitude == nil || req.Longitude == nil {
			return attendance.ErrLocationRequired
		}

		point := geofence.Coordinate{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
		}
		if req.Accuracy != nil {
			point.Accuracy = *req.Accuracy
		}

		inside := false
		for _, office := range sched.Locations {
			ok, err := geofence.IsWithinFence(point, geofence.Target{
				Latitude:            office.Latitude,
				Longitude:           office.Longitude,
				AllowedRadiusMeters: office.RadiusMeters,
			})
			if err != nil {
				return err
			}
			if ok {
				inside = true
				break
			}
		}

		if !inside {
			return attendance.ErrOutsideGeofence
		}
	}

	if sched.RequirePhoto && req.File == nil {
		return attendance.ErrPhotoRequired
	}

	return nil
}

// arrivalStatus derives present/late by comparing the local punch time
// against the schedule's grace limit.
func (a *AttendanceServiceImpl) arrivalStatus(sched *schedule.WorkSchedule, nowLocal time.Time) (attendance.Status, error) {
	graceLimit, err := sched.GraceLimitOn(nowLocal, a.defaults.GraceMinutes)
	if err != nil {
		return "", fmt.Errorf("failed to resolve grace limit: %w", err)
	}

	if nowLocal.After(graceLimit) {
		return attendance.StatusLate, nil
	}
	return attendance.StatusPresent, nil
}

func (a *AttendanceServiceImpl) standardShiftHours(sched *schedule.WorkSchedule) float64 {
	if sched.StandardShiftHours > 0 {
		return sched.StandardShiftHours
	}
	return a.defaults.StandardShiftHours
}

func (a *AttendanceServiceImpl) uploadProof(ctx context.Context, employeeID string, day time.Time, req attendance.PunchRequest, punchType string) (*string, error) {
	if req.File == nil || req.FileHeader == nil {
		return nil, nil
	}

	ref, err := a.fileService.UploadAttendanceProof(ctx, employeeID, day, req.File, req.FileHeader.Filename, punchType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attendance proof: %w", err)
	}
	return &ref, nil
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	breaks := make([]attendance.BreakResponse, 0, len(att.Breaks))
	for _, b := range att.Breaks {
		breaks = append(breaks, attendance.BreakResponse{
			ID:      b.ID,
			StartAt: b.StartAt.UTC().Format("2006-01-02 15:04:05"),
			EndAt:   timePtrToString(b.EndAt),
		})
	}

	var approval *string
	if att.ApprovalStatus != nil {
		v := string(*att.ApprovalStatus)
		approval = &v
	}

	resp := attendance.AttendanceResponse{
		ID:                   att.ID,
		EmployeeID:           att.EmployeeID,
		EmployeeName:         att.EmployeeName,
		Date:                 att.Date.Format("2006-01-02"),
		CheckInAt:            timePtrToString(att.CheckInAt),
		CheckOutAt:           timePtrToString(att.CheckOutAt),
		Breaks:               breaks,
		BreakDurationMinutes: att.BreakDurationMinutes,
		TotalHours:           att.TotalHours,
		OvertimeHours:        att.OvertimeHours,
		Status:               string(att.Status),
		ApprovalStatus:       approval,
		RejectionReason:      att.RejectionReason,
		CheckInLatitude:      att.CheckInLatitude,
		CheckInLongitude:     att.CheckInLongitude,
		CheckOutLatitude:     att.CheckOutLatitude,
		CheckOutLongitude:    att.CheckOutLongitude,
		CheckInPhoto:         att.CheckInPhotoRef,
		CheckOutPhoto:        att.CheckOutPhotoRef,
	}

	if !att.CreatedAt.IsZero() {
		resp.CreatedAt = att.CreatedAt.UTC().Format("2006-01-02 15:04:05")
	}
	if !att.UpdatedAt.IsZero() {
		resp.UpdatedAt = att.UpdatedAt.UTC().Format("2006-01-02 15:04:05")
	}

	return resp
}

func buildListResponse(attendances []attendance.Attendance, total int64, filter attendance.AttendanceFilter) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}
}
