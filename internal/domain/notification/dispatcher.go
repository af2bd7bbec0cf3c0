package notification

import "context"

// Request is a notification the core asks a collaborator to deliver.
// Delivery (push, email, in-app) is outside this service.
type Request struct {
	EmployeeID string
	CompanyID  string
	Kind       string // e.g. "attendance_absent"
	Message    string
}

// Dispatcher hands notification requests to the delivery collaborator.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) error
}
