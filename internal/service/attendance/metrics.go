package attendance

import (
	"time"

	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
)

// Derived-metrics math. These are recomputed inside every mutating operation
// so a read never observes drifted values; none of them are accepted as
// input anywhere.

// BreakDurationMinutes sums the closed break sessions in whole minutes,
// flooring each session. Open breaks contribute nothing until ended.
func BreakDurationMinutes(breaks []attendance.BreakSession) int {
	total := 0
	for _, b := range breaks {
		if b.EndAt == nil {
			continue
		}
		d := b.EndAt.Sub(b.StartAt)
		if d > 0 {
			total += int(d.Minutes())
		}
	}
	return total
}

// TotalHours converts the worked span minus breaks into decimal hours,
// floored at zero. Minutes are floored before division; rounding happens
// only at presentation.
func TotalHours(checkIn, checkOut time.Time, breakMinutes int) float64 {
	workedMinutes := int(checkOut.Sub(checkIn).Minutes()) - breakMinutes
	if workedMinutes < 0 {
		workedMinutes = 0
	}
	return float64(workedMinutes) / 60.0
}

// OvertimeHours is the time worked beyond the standard shift, never negative.
func OvertimeHours(totalHours, standardShiftHours float64) float64 {
	overtime := totalHours - standardShiftHours
	if overtime < 0 {
		return 0
	}
	return overtime
}
