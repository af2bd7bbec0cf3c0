package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/database"
)

const uniqueViolationCode = "23505"

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.employee_id, a.company_id, a.date,
	a.check_in_at, a.check_out_at,
	a.break_duration_minutes, a.total_hours, a.overtime_hours,
	a.status, a.approval_status, a.approved_by, a.approved_at, a.rejection_reason,
	a.check_in_latitude, a.check_in_longitude, a.check_in_accuracy,
	a.check_out_latitude, a.check_out_longitude, a.check_out_accuracy,
	a.check_in_photo_url, a.check_out_photo_url,
	a.created_at, a.updated_at
`

func scanAttendance(row pgx.Row, att *attendance.Attendance, extra ...any) error {
	dest := []any{
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date,
		&att.CheckInAt, &att.CheckOutAt,
		&att.BreakDurationMinutes, &att.TotalHours, &att.OvertimeHours,
		&att.Status, &att.ApprovalStatus, &att.ApprovedBy, &att.ApprovedAt, &att.RejectionReason,
		&att.CheckInLatitude, &att.CheckInLongitude, &att.CheckInAccuracy,
		&att.CheckOutLatitude, &att.CheckOutLongitude, &att.CheckOutAccuracy,
		&att.CheckInPhotoRef, &att.CheckOutPhotoRef,
		&att.CreatedAt, &att.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			employee_id, company_id, date,
			check_in_at, status,
			check_in_latitude, check_in_longitude, check_in_accuracy,
			check_in_photo_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.EmployeeID,
		att.CompanyID,
		att.Date,
		att.CheckInAt,
		att.Status,
		att.CheckInLatitude,
		att.CheckInLongitude,
		att.CheckInAccuracy,
		att.CheckInPhotoRef,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		// The unique (employee_id, date) index converts a racing duplicate
		// check-in into the conflict error.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s,
			e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`, attendanceColumns)

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, id, companyID), &att, &att.EmployeeName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	if err := a.attachBreaks(ctx, q, []*attendance.Attendance{&att}); err != nil {
		return attendance.Attendance{}, err
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND a.company_id = $3
		LIMIT 1
	`, attendanceColumns)

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, companyID), &att)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	if err := a.attachBreaks(ctx, q, []*attendance.Attendance{&att}); err != nil {
		return nil, err
	}

	return &att, nil
}

// SetCheckIn implements attendance.Repository.
func (a *attendanceRepository) SetCheckIn(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in_at = $2,
			status = $3,
			check_in_latitude = $4,
			check_in_longitude = $5,
			check_in_accuracy = $6,
			check_in_photo_url = $7,
			updated_at = NOW()
		WHERE id = $1
		  AND check_in_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		att.CheckInAt,
		att.Status,
		att.CheckInLatitude,
		att.CheckInLongitude,
		att.CheckInAccuracy,
		att.CheckInPhotoRef,
	)
	if err != nil {
		return fmt.Errorf("failed to set check-in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyCheckedIn
	}

	return nil
}

// SetCheckOut implements attendance.Repository.
func (a *attendanceRepository) SetCheckOut(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_at = $2,
			break_duration_minutes = $3,
			total_hours = $4,
			overtime_hours = $5,
			approval_status = $6,
			check_out_latitude = $7,
			check_out_longitude = $8,
			check_out_accuracy = $9,
			check_out_photo_url = $10,
			updated_at = NOW()
		WHERE id = $1
		  AND check_in_at IS NOT NULL
		  AND check_out_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		att.CheckOutAt,
		att.BreakDurationMinutes,
		att.TotalHours,
		att.OvertimeHours,
		att.ApprovalStatus,
		att.CheckOutLatitude,
		att.CheckOutLongitude,
		att.CheckOutAccuracy,
		att.CheckOutPhotoRef,
	)
	if err != nil {
		return fmt.Errorf("failed to set check-out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyCheckedOut
	}

	return nil
}

// AddBreak implements attendance.Repository. The insert only lands when the
// record is still open and has no open break, so a racing second start fails
// here even if it passed the service pre-check.
func (a *attendanceRepository) AddBreak(ctx context.Context, attendanceID string, startAt time.Time) (attendance.BreakSession, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_breaks (attendance_id, start_at)
		SELECT a.id, $2
		FROM attendances a
		WHERE a.id = $1
		  AND a.check_out_at IS NULL
		  AND NOT EXISTS (
			SELECT 1 FROM attendance_breaks b
			WHERE b.attendance_id = a.id AND b.end_at IS NULL
		  )
		RETURNING id, created_at
	`

	br := attendance.BreakSession{
		AttendanceID: attendanceID,
		StartAt:      startAt,
	}
	err := q.QueryRow(ctx, query, attendanceID, startAt).Scan(&br.ID, &br.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.BreakSession{}, attendance.ErrBreakAlreadyOpen
		}
		return attendance.BreakSession{}, fmt.Errorf("failed to add break: %w", err)
	}

	return br, nil
}

// CloseBreak implements attendance.Repository.
func (a *attendanceRepository) CloseBreak(ctx context.Context, breakID string, endAt time.Time, breakDurationMinutes int) error {
	return WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE attendance_breaks
			SET end_at = $2
			WHERE id = $1
			  AND end_at IS NULL
		`, breakID, endAt)
		if err != nil {
			return fmt.Errorf("failed to close break: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return attendance.ErrNoOpenBreak
		}

		_, err = tx.Exec(ctx, `
			UPDATE attendances
			SET break_duration_minutes = $2,
				updated_at = NOW()
			WHERE id = (SELECT attendance_id FROM attendance_breaks WHERE id = $1)
		`, breakID, breakDurationMinutes)
		if err != nil {
			return fmt.Errorf("failed to update break total: %w", err)
		}

		return nil
	})
}

// TransitionApproval implements attendance.Repository. Eligibility is encoded
// in the WHERE clause so a stale reviewer screen cannot push an illegal move.
func (a *attendanceRepository) TransitionApproval(ctx context.Context, id string, companyID string, to attendance.ApprovalStatus, reviewerID string, reviewedAt time.Time, reason *string) error {
	q := GetQuerier(ctx, a.db)

	var query string
	var args []interface{}

	switch to {
	case attendance.ApprovalApproved:
		query = `
			UPDATE attendances
			SET approval_status = 'approved',
				approved_by = $3,
				approved_at = $4,
				rejection_reason = NULL,
				updated_at = NOW()
			WHERE id = $1 AND company_id = $2
			  AND check_out_at IS NOT NULL
			  AND approval_status = 'pending'
		`
		args = []interface{}{id, companyID, reviewerID, reviewedAt}
	case attendance.ApprovalRejected:
		query = `
			UPDATE attendances
			SET approval_status = 'rejected',
				rejection_reason = $3,
				updated_at = NOW()
			WHERE id = $1 AND company_id = $2
			  AND check_out_at IS NOT NULL
			  AND approval_status = 'pending'
		`
		args = []interface{}{id, companyID, reason}
	case attendance.ApprovalPending:
		query = `
			UPDATE attendances
			SET approval_status = 'pending',
				rejection_reason = NULL,
				updated_at = NOW()
			WHERE id = $1 AND company_id = $2
			  AND check_out_at IS NOT NULL
			  AND approval_status = 'rejected'
		`
		args = []interface{}{id, companyID}
	default:
		return fmt.Errorf("invalid approval status: %s", to)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to transition approval: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM attendances WHERE id = $1 AND company_id = $2)`,
		id, companyID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to verify attendance: %w", err)
	}
	if !exists {
		return attendance.ErrAttendanceNotFound
	}
	return attendance.ErrNotEligibleForApproval
}

// SetDayStatus implements attendance.Repository.
func (a *attendanceRepository) SetDayStatus(ctx context.Context, employeeID string, companyID string, date time.Time, status attendance.Status) error {
	q := GetQuerier(ctx, a.db)

	// Days that already have a check-in keep their derived status.
	query := `
		INSERT INTO attendances (employee_id, company_id, date, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET status = EXCLUDED.status,
			updated_at = NOW()
		WHERE attendances.check_in_at IS NULL
	`

	tag, err := q.Exec(ctx, query, employeeID, companyID, date, status)
	if err != nil {
		return fmt.Errorf("failed to set day status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyCheckedIn
	}

	return nil
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	return a.list(ctx, filter, companyID, nil)
}

// ListByEmployee implements attendance.Repository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	return a.list(ctx, filter, companyID, &employeeID)
}

func (a *attendanceRepository) list(ctx context.Context, filter attendance.AttendanceFilter, companyID string, employeeID *string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "a.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if employeeID == nil {
		employeeID = filter.EmployeeID
	}
	if employeeID != nil && *employeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *employeeID)
		argIdx++
	}

	// Date filters
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	// Status filters
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Approval != nil && *filter.Approval != "" {
		baseWhere += fmt.Sprintf(" AND a.approval_status = $%d", argIdx)
		args = append(args, *filter.Approval)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "check_in_at":
		orderByField = "a.check_in_at"
	case "check_out_at":
		orderByField = "a.check_out_at"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	// Build query with pagination
	selectQuery := fmt.Sprintf(`
		SELECT %s,
			e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := scanAttendance(rows, &att, &att.EmployeeName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	refs := make([]*attendance.Attendance, len(attendances))
	for i := range attendances {
		refs[i] = &attendances[i]
	}
	if err := a.attachBreaks(ctx, q, refs); err != nil {
		return nil, 0, err
	}

	return attendances, total, nil
}

// ListRange implements attendance.Repository.
func (a *attendanceRepository) ListRange(ctx context.Context, companyID string, start, end time.Time, employeeID *string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.company_id = $1 AND a.date >= $2 AND a.date <= $3"
	args := []interface{}{companyID, start, end}
	if employeeID != nil && *employeeID != "" {
		baseWhere += " AND a.employee_id = $4"
		args = append(args, *employeeID)
	}

	query := fmt.Sprintf(`
		SELECT %s,
			e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date ASC
	`, attendanceColumns, baseWhere)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance range: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := scanAttendance(rows, &att, &att.EmployeeName); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, nil
}

// attachBreaks loads the break sessions for the given records in one query.
func (a *attendanceRepository) attachBreaks(ctx context.Context, q database.Querier, records []*attendance.Attendance) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]string, 0, len(records))
	byID := make(map[string]*attendance.Attendance, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
		byID[rec.ID] = rec
	}

	query := `
		SELECT id, attendance_id, start_at, end_at, created_at
		FROM attendance_breaks
		WHERE attendance_id = ANY($1)
		ORDER BY start_at ASC
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query breaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var br attendance.BreakSession
		if err := rows.Scan(&br.ID, &br.AttendanceID, &br.StartAt, &br.EndAt, &br.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan break: %w", err)
		}
		if rec, ok := byID[br.AttendanceID]; ok {
			rec.Breaks = append(rec.Breaks, br)
		}
	}

	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}
