package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
	"github.com/promoterhub/workforce-backend-go/internal/domain/employee"
	"github.com/promoterhub/workforce-backend-go/internal/domain/notification"
	"github.com/promoterhub/workforce-backend-go/internal/domain/schedule"
)

// AttendanceJobs holds the background sweeps over attendance data.
type AttendanceJobs struct {
	attendanceSvc  attendance.Service
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	scheduleRepo   schedule.Repository
	dispatcher     notification.Dispatcher
	now            attendance.Clock
}

func NewAttendanceJobs(
	attendanceSvc attendance.Service,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	scheduleRepo schedule.Repository,
	dispatcher notification.Dispatcher,
	now attendance.Clock,
) *AttendanceJobs {
	if now == nil {
		now = time.Now
	}
	return &AttendanceJobs{
		attendanceSvc:  attendanceSvc,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		scheduleRepo:   scheduleRepo,
		dispatcher:     dispatcher,
		now:            now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees records an absent day for every active employee who had
// a schedule yesterday but never produced an attendance record.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	// Only run during the first hour of the day (UTC); yesterday is settled.
	if j.now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting mark absent employees job")

	yesterday := j.now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	markedCount := 0
	for _, emp := range employees {
		sched, err := j.scheduleRepo.GetActiveSchedule(ctx, emp.ID, yesterday, emp.CompanyID)
		if err != nil {
			slog.Error("Cron: Failed to resolve schedule", "employee_id", emp.ID, "error", err)
			continue
		}
		if sched == nil {
			// No shift yesterday, nothing to mark.
			continue
		}

		existing, err := j.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, yesterday, emp.CompanyID)
		if err != nil {
			slog.Error("Cron: Failed to load attendance", "employee_id", emp.ID, "error", err)
			continue
		}
		if existing != nil {
			continue
		}

		if err := j.attendanceSvc.MarkAbsent(ctx, emp.ID, emp.CompanyID, yesterday); err != nil {
			// A check-in that raced the sweep wins.
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				continue
			}
			slog.Error("Cron: Failed to mark absent", "employee_id", emp.ID, "error", err)
			continue
		}

		if j.dispatcher != nil {
			err := j.dispatcher.Dispatch(ctx, notification.Request{
				EmployeeID: emp.ID,
				CompanyID:  emp.CompanyID,
				Kind:       "attendance_absent",
				Message:    fmt.Sprintf("You were marked absent for %s", yesterday.Format("2006-01-02")),
			})
			if err != nil {
				slog.Error("Cron: Failed to dispatch absence notification", "employee_id", emp.ID, "error", err)
			}
		}

		markedCount++
	}

	slog.Info("Cron: Marked absent employees", "count", markedCount)
	return nil
}
