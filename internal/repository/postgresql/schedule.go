package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/promoterhub/workforce-backend-go/internal/domain/schedule"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/database"
)

type workScheduleRepository struct {
	db *database.DB
}

const workScheduleColumns = `
	ws.id, ws.company_id, ws.name,
	ws.expected_start, ws.grace_minutes, ws.standard_shift_hours, ws.timezone,
	ws.require_geofence, ws.require_photo,
	ws.created_at, ws.updated_at
`

func scanWorkSchedule(row pgx.Row, ws *schedule.WorkSchedule) error {
	return row.Scan(
		&ws.ID, &ws.CompanyID, &ws.Name,
		&ws.ExpectedStart, &ws.GraceMinutes, &ws.StandardShiftHours, &ws.Timezone,
		&ws.RequireGeofence, &ws.RequirePhoto,
		&ws.CreatedAt, &ws.UpdatedAt,
	)
}

// GetActiveSchedule implements schedule.Repository.
func (w *workScheduleRepository) GetActiveSchedule(ctx context.Context, employeeID string, date time.Time, companyID string) (*schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	// The newest assignment that covers the date wins; an open-ended
	// assignment has effective_until NULL.
	query := fmt.Sprintf(`
		SELECT %s
		FROM work_schedules ws
		JOIN employee_schedule_assignments esa ON esa.work_schedule_id = ws.id
		WHERE esa.employee_id = $1
		  AND ws.company_id = $2
		  AND esa.effective_from <= $3
		  AND (esa.effective_until IS NULL OR esa.effective_until >= $3)
		ORDER BY esa.effective_from DESC
		LIMIT 1
	`, workScheduleColumns)

	var ws schedule.WorkSchedule
	err := scanWorkSchedule(q.QueryRow(ctx, query, employeeID, companyID, date), &ws)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No assignment covering this day
		}
		return nil, fmt.Errorf("failed to get active schedule: %w", err)
	}

	if err := w.attachLocations(ctx, q, &ws); err != nil {
		return nil, err
	}

	return &ws, nil
}

// GetByID implements schedule.Repository.
func (w *workScheduleRepository) GetByID(ctx context.Context, id string, companyID string) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM work_schedules ws
		WHERE ws.id = $1 AND ws.company_id = $2
	`, workScheduleColumns)

	var ws schedule.WorkSchedule
	err := scanWorkSchedule(q.QueryRow(ctx, query, id, companyID), &ws)
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get work schedule: %w", err)
	}

	if err := w.attachLocations(ctx, q, &ws); err != nil {
		return schedule.WorkSchedule{}, err
	}

	return ws, nil
}

func (w *workScheduleRepository) attachLocations(ctx context.Context, q database.Querier, ws *schedule.WorkSchedule) error {
	query := `
		SELECT id, work_schedule_id, name, latitude, longitude, radius_meters
		FROM work_schedule_locations
		WHERE work_schedule_id = $1
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, ws.ID)
	if err != nil {
		return fmt.Errorf("failed to query schedule locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var loc schedule.Location
		if err := rows.Scan(&loc.ID, &loc.WorkScheduleID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.RadiusMeters); err != nil {
			return fmt.Errorf("failed to scan schedule location: %w", err)
		}
		ws.Locations = append(ws.Locations, loc)
	}

	return nil
}

func NewWorkScheduleRepository(db *database.DB) schedule.Repository {
	return &workScheduleRepository{db: db}
}
