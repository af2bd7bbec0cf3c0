package schedule

import (
	"context"
	"time"
)

// Repository defines data access for work schedules.
type Repository interface {
	// GetActiveSchedule returns the schedule assigned to the employee on the
	// given day, with its geofence locations. Returns (nil, nil) when the
	// employee has no assignment that day.
	GetActiveSchedule(ctx context.Context, employeeID string, date time.Time, companyID string) (*WorkSchedule, error)

	// GetByID retrieves a schedule with its locations.
	GetByID(ctx context.Context, id string, companyID string) (WorkSchedule, error)
}
