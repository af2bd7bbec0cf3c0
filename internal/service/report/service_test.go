package report

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRangeRepo struct {
	attendance.Repository
	records []attendance.Attendance
}

func (f *fakeRangeRepo) ListRange(_ context.Context, companyID string, start, end time.Time, employeeID *string) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, rec := range f.records {
		if rec.CompanyID != companyID {
			continue
		}
		if employeeID != nil && rec.EmployeeID != *employeeID {
			continue
		}
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

var testJWT = jwtauth.New("HS256", []byte("test-secret"), nil)

func reviewerContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	tok, _, err := testJWT.Encode(map[string]interface{}{
		"user_id":    "usr-reviewer",
		"company_id": companyID,
		"role":       "admin",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), tok, nil)
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func record(employeeID string, d int, status attendance.Status, total, overtime float64, breakMin int, approval *attendance.ApprovalStatus) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID:           employeeID,
		CompanyID:            "cmp-1",
		Date:                 day(d),
		Status:               status,
		TotalHours:           &total,
		OvertimeHours:        &overtime,
		BreakDurationMinutes: &breakMin,
		ApprovalStatus:       approval,
	}
}

func TestGetSummary(t *testing.T) {
	pending := attendance.ApprovalPending
	approved := attendance.ApprovalApproved
	rejected := attendance.ApprovalRejected

	repo := &fakeRangeRepo{records: []attendance.Attendance{
		record("emp-1", 1, attendance.StatusPresent, 8, 0, 30, &approved),
		record("emp-1", 2, attendance.StatusLate, 9, 1, 60, &pending),
		{EmployeeID: "emp-1", CompanyID: "cmp-1", Date: day(3), Status: attendance.StatusAbsent},
		record("emp-2", 1, attendance.StatusPresent, 8.5, 0.5, 45, &rejected),
		// Outside the requested period, must not count.
		record("emp-1", 20, attendance.StatusPresent, 8, 0, 0, &approved),
	}}

	svc := NewReportService(repo)
	resp, err := svc.GetSummary(reviewerContext(t, "cmp-1"), SummaryRequest{
		StartDate: "2025-03-01",
		EndDate:   "2025-03-07",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.TotalRecords)
	assert.InDelta(t, 25.5, resp.TotalHours, 1e-9)
	assert.InDelta(t, 1.5, resp.TotalOvertimeHours, 1e-9)
	require.Len(t, resp.Employees, 2)

	emp1 := resp.Employees[0]
	assert.Equal(t, "emp-1", emp1.EmployeeID)
	assert.Equal(t, 1, emp1.DaysPresent)
	assert.Equal(t, 1, emp1.DaysLate)
	assert.Equal(t, 1, emp1.DaysAbsent)
	assert.InDelta(t, 17.0, emp1.TotalHours, 1e-9)
	assert.InDelta(t, 1.0, emp1.OvertimeHours, 1e-9)
	assert.Equal(t, 90, emp1.BreakMinutes)
	assert.Equal(t, 1, emp1.PendingApprovals)

	emp2 := resp.Employees[1]
	assert.Equal(t, "emp-2", emp2.EmployeeID)
	assert.Equal(t, 1, emp2.RejectedApprovals)
}

func TestGetSummary_EmployeeFilter(t *testing.T) {
	approved := attendance.ApprovalApproved
	repo := &fakeRangeRepo{records: []attendance.Attendance{
		record("emp-1", 1, attendance.StatusPresent, 8, 0, 0, &approved),
		record("emp-2", 1, attendance.StatusPresent, 8, 0, 0, &approved),
	}}

	empID := "emp-2"
	svc := NewReportService(repo)
	resp, err := svc.GetSummary(reviewerContext(t, "cmp-1"), SummaryRequest{
		StartDate:  "2025-03-01",
		EndDate:    "2025-03-07",
		EmployeeID: &empID,
	})
	require.NoError(t, err)

	require.Len(t, resp.Employees, 1)
	assert.Equal(t, "emp-2", resp.Employees[0].EmployeeID)
}

func TestGetSummary_InvalidPeriod(t *testing.T) {
	svc := NewReportService(&fakeRangeRepo{})

	_, err := svc.GetSummary(reviewerContext(t, "cmp-1"), SummaryRequest{
		StartDate: "2025-03-07",
		EndDate:   "2025-03-01",
	})
	assert.Error(t, err)

	_, err = svc.GetSummary(reviewerContext(t, "cmp-1"), SummaryRequest{
		StartDate: "bad",
		EndDate:   "2025-03-01",
	})
	assert.Error(t, err)
}
