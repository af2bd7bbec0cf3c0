package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
	"github.com/promoterhub/workforce-backend-go/internal/domain/employee"
	"github.com/promoterhub/workforce-backend-go/internal/domain/notification"
	"github.com/promoterhub/workforce-backend-go/internal/domain/schedule"
)

type stubAttendanceService struct {
	attendance.Service

	marked    []string
	markedErr map[string]error
}

func (s *stubAttendanceService) MarkAbsent(_ context.Context, employeeID string, _ string, _ time.Time) error {
	if err, ok := s.markedErr[employeeID]; ok {
		return err
	}
	s.marked = append(s.marked, employeeID)
	return nil
}

type stubAttendanceRepo struct {
	attendance.Repository

	existing map[string]*attendance.Attendance
}

func (s *stubAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, _ time.Time, _ string) (*attendance.Attendance, error) {
	return s.existing[employeeID], nil
}

type stubEmployeeRepo struct {
	employee.Repository

	roster []employee.Employee
}

func (s *stubEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	return s.roster, nil
}

type stubScheduleRepo struct {
	schedule.Repository

	scheduled map[string]*schedule.WorkSchedule
}

func (s *stubScheduleRepo) GetActiveSchedule(_ context.Context, employeeID string, _ time.Time, _ string) (*schedule.WorkSchedule, error) {
	return s.scheduled[employeeID], nil
}

type recordingDispatcher struct {
	requests []notification.Request
	err      error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, req notification.Request) error {
	if d.err != nil {
		return d.err
	}
	d.requests = append(d.requests, req)
	return nil
}

func midnight() time.Time {
	return time.Date(2025, 3, 11, 0, 15, 0, 0, time.UTC)
}

func sweepEnv(svc *stubAttendanceService, repo *stubAttendanceRepo, emps *stubEmployeeRepo, scheds *stubScheduleRepo, dispatcher notification.Dispatcher, now time.Time) *AttendanceJobs {
	return NewAttendanceJobs(svc, repo, emps, scheds, dispatcher, func() time.Time { return now })
}

func TestMarkAbsentEmployees(t *testing.T) {
	sched := &schedule.WorkSchedule{ID: "sch-1", CompanyID: "cmp-1", ExpectedStart: "09:00", Timezone: "UTC"}

	svc := &stubAttendanceService{}
	repo := &stubAttendanceRepo{existing: map[string]*attendance.Attendance{
		"emp-present": {ID: "att-1", EmployeeID: "emp-present"},
	}}
	emps := &stubEmployeeRepo{roster: []employee.Employee{
		{ID: "emp-missing", CompanyID: "cmp-1", Active: true},
		{ID: "emp-present", CompanyID: "cmp-1", Active: true},
		{ID: "emp-offshift", CompanyID: "cmp-1", Active: true},
	}}
	scheds := &stubScheduleRepo{scheduled: map[string]*schedule.WorkSchedule{
		"emp-missing": sched,
		"emp-present": sched,
	}}
	dispatcher := &recordingDispatcher{}

	jobs := sweepEnv(svc, repo, emps, scheds, dispatcher, midnight())
	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))

	assert.Equal(t, []string{"emp-missing"}, svc.marked)
	require.Len(t, dispatcher.requests, 1)
	assert.Equal(t, "emp-missing", dispatcher.requests[0].EmployeeID)
	assert.Equal(t, "attendance_absent", dispatcher.requests[0].Kind)
	assert.Contains(t, dispatcher.requests[0].Message, "2025-03-10")
}

func TestMarkAbsentEmployees_OutsideWindow(t *testing.T) {
	svc := &stubAttendanceService{}
	emps := &stubEmployeeRepo{roster: []employee.Employee{{ID: "emp-1", CompanyID: "cmp-1", Active: true}}}
	scheds := &stubScheduleRepo{scheduled: map[string]*schedule.WorkSchedule{
		"emp-1": {ID: "sch-1", CompanyID: "cmp-1"},
	}}

	noon := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)
	jobs := sweepEnv(svc, &stubAttendanceRepo{}, emps, scheds, &recordingDispatcher{}, noon)
	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))

	assert.Empty(t, svc.marked)
}

func TestMarkAbsentEmployees_DispatchFailureDoesNotAbort(t *testing.T) {
	sched := &schedule.WorkSchedule{ID: "sch-1", CompanyID: "cmp-1"}

	svc := &stubAttendanceService{}
	emps := &stubEmployeeRepo{roster: []employee.Employee{
		{ID: "emp-1", CompanyID: "cmp-1", Active: true},
		{ID: "emp-2", CompanyID: "cmp-1", Active: true},
	}}
	scheds := &stubScheduleRepo{scheduled: map[string]*schedule.WorkSchedule{
		"emp-1": sched,
		"emp-2": sched,
	}}
	dispatcher := &recordingDispatcher{err: errors.New("delivery backend down")}

	jobs := sweepEnv(svc, &stubAttendanceRepo{}, emps, scheds, dispatcher, midnight())
	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))

	assert.Equal(t, []string{"emp-1", "emp-2"}, svc.marked)
}

func TestMarkAbsentEmployees_CheckInRaceWins(t *testing.T) {
	svc := &stubAttendanceService{markedErr: map[string]error{
		"emp-1": attendance.ErrAlreadyCheckedIn,
	}}
	emps := &stubEmployeeRepo{roster: []employee.Employee{{ID: "emp-1", CompanyID: "cmp-1", Active: true}}}
	scheds := &stubScheduleRepo{scheduled: map[string]*schedule.WorkSchedule{
		"emp-1": {ID: "sch-1", CompanyID: "cmp-1"},
	}}
	dispatcher := &recordingDispatcher{}

	jobs := sweepEnv(svc, &stubAttendanceRepo{}, emps, scheds, dispatcher, midnight())
	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))

	assert.Empty(t, svc.marked)
	assert.Empty(t, dispatcher.requests)
}
