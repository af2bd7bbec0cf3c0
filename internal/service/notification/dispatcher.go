package notification

import (
	"context"
	"log/slog"

	"github.com/promoterhub/workforce-backend-go/internal/domain/notification"
)

// LogDispatcher records notification requests to the structured log. Delivery
// is owned by an external collaborator; this keeps the emit contract
// observable until that collaborator is wired in.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) notification.Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, req notification.Request) error {
	d.logger.InfoContext(ctx, "notification requested",
		"employee_id", req.EmployeeID,
		"company_id", req.CompanyID,
		"kind", req.Kind,
		"message", req.Message,
	)
	return nil
}
