package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-chi/jwtauth/v5"
	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/validator"
)

// SummaryRequest selects the aggregation period, optionally narrowed to one
// employee.
type SummaryRequest struct {
	StartDate  string  `json:"start_date"` // YYYY-MM-DD
	EndDate    string  `json:"end_date"`   // YYYY-MM-DD
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EmployeeSummary is the per-employee fold over one period. Hour totals come
// from the stored derived fields; nothing is recomputed from raw punches here.
type EmployeeSummary struct {
	EmployeeID string  `json:"employee_id"`
	Name       *string `json:"employee_name,omitempty"`

	DaysPresent int `json:"days_present"`
	DaysLate    int `json:"days_late"`
	DaysAbsent  int `json:"days_absent"`
	DaysHalfDay int `json:"days_half_day"`
	DaysLeave   int `json:"days_leave"`
	DaysHoliday int `json:"days_holiday"`

	TotalHours        float64 `json:"total_hours"`
	OvertimeHours     float64 `json:"overtime_hours"`
	BreakMinutes      int     `json:"break_minutes"`
	PendingApprovals  int     `json:"pending_approvals"`
	RejectedApprovals int     `json:"rejected_approvals"`
}

type SummaryResponse struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Employees []EmployeeSummary `json:"employees"`

	TotalRecords       int     `json:"total_records"`
	TotalHours         float64 `json:"total_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
}

type Service interface {
	// GetSummary aggregates attendance records over [start_date, end_date]
	// grouped by employee.
	GetSummary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
}

type reportServiceImpl struct {
	attendanceRepo attendance.Repository
}

func NewReportService(attendanceRepo attendance.Repository) Service {
	return &reportServiceImpl{attendanceRepo: attendanceRepo}
}

func (s *reportServiceImpl) GetSummary(ctx context.Context, req SummaryRequest) (SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return SummaryResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return SummaryResponse{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	records, err := s.attendanceRepo.ListRange(ctx, companyID, start, end, req.EmployeeID)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("failed to list attendance range: %w", err)
	}

	byEmployee := make(map[string]*EmployeeSummary)
	resp := SummaryResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	for _, rec := range records {
		sum, ok := byEmployee[rec.EmployeeID]
		if !ok {
			sum = &EmployeeSummary{EmployeeID: rec.EmployeeID, Name: rec.EmployeeName}
			byEmployee[rec.EmployeeID] = sum
		}

		switch rec.Status {
		case attendance.StatusPresent:
			sum.DaysPresent++
		case attendance.StatusLate:
			sum.DaysLate++
		case attendance.StatusAbsent:
			sum.DaysAbsent++
		case attendance.StatusHalfDay:
			sum.DaysHalfDay++
		case attendance.StatusLeave:
			sum.DaysLeave++
		case attendance.StatusHoliday:
			sum.DaysHoliday++
		}

		if rec.TotalHours != nil {
			sum.TotalHours += *rec.TotalHours
			resp.TotalHours += *rec.TotalHours
		}
		if rec.OvertimeHours != nil {
			sum.OvertimeHours += *rec.OvertimeHours
			resp.TotalOvertimeHours += *rec.OvertimeHours
		}
		if rec.BreakDurationMinutes != nil {
			sum.BreakMinutes += *rec.BreakDurationMinutes
		}

		if rec.ApprovalStatus != nil {
			switch *rec.ApprovalStatus {
			case attendance.ApprovalPending:
				sum.PendingApprovals++
			case attendance.ApprovalRejected:
				sum.RejectedApprovals++
			}
		}

		resp.TotalRecords++
	}

	resp.Employees = make([]EmployeeSummary, 0, len(byEmployee))
	for _, sum := range byEmployee {
		resp.Employees = append(resp.Employees, *sum)
	}
	sort.Slice(resp.Employees, func(i, j int) bool {
		return resp.Employees[i].EmployeeID < resp.Employees[j].EmployeeID
	})

	return resp, nil
}
