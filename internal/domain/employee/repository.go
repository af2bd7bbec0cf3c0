package employee

import "context"

// Repository defines the slim employee surface the attendance core needs:
// existence checks and the active roster for the absent sweep.
type Repository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// ListActive returns all active employees across companies; the absent
	// sweep walks this roster once per run.
	ListActive(ctx context.Context) ([]Employee, error)
}
