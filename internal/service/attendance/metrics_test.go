package attendance

import (
	"testing"
	"time"

	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func ts(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func tsPtr(hour, min int) *time.Time {
	t := ts(hour, min)
	return &t
}

func TestBreakDurationMinutes(t *testing.T) {
	tests := []struct {
		name     string
		breaks   []attendance.BreakSession
		expected int
	}{
		{
			name:     "no breaks",
			breaks:   nil,
			expected: 0,
		},
		{
			name: "single closed break",
			breaks: []attendance.BreakSession{
				{StartAt: ts(12, 0), EndAt: tsPtr(12, 30)},
			},
			expected: 30,
		},
		{
			name: "two closed breaks sum",
			breaks: []attendance.BreakSession{
				{StartAt: ts(10, 0), EndAt: tsPtr(10, 30)},
				{StartAt: ts(15, 0), EndAt: tsPtr(15, 30)},
			},
			expected: 60,
		},
		{
			name: "open break contributes nothing",
			breaks: []attendance.BreakSession{
				{StartAt: ts(12, 0), EndAt: tsPtr(12, 30)},
				{StartAt: ts(16, 0)},
			},
			expected: 30,
		},
		{
			name: "partial minutes floored per session",
			breaks: []attendance.BreakSession{
				{StartAt: ts(12, 0), EndAt: timePtr(time.Date(2025, 3, 10, 12, 10, 59, 0, time.UTC))},
			},
			expected: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BreakDurationMinutes(tt.breaks))
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestTotalHours(t *testing.T) {
	tests := []struct {
		name         string
		checkIn      time.Time
		checkOut     time.Time
		breakMinutes int
		expected     float64
	}{
		{
			name:     "nine hour day no breaks",
			checkIn:  ts(9, 0),
			checkOut: ts(18, 0),
			expected: 9.0,
		},
		{
			name:         "breaks subtracted",
			checkIn:      ts(9, 0),
			checkOut:     ts(18, 0),
			breakMinutes: 60,
			expected:     8.0,
		},
		{
			name:         "breaks exceeding span floor at zero",
			checkIn:      ts(9, 0),
			checkOut:     ts(9, 30),
			breakMinutes: 60,
			expected:     0,
		},
		{
			name:     "partial hours kept as decimal",
			checkIn:  ts(8, 55),
			checkOut: ts(17, 30),
			// 515 minutes minus 30 break = 485 minutes
			breakMinutes: 30,
			expected:     485.0 / 60.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TotalHours(tt.checkIn, tt.checkOut, tt.breakMinutes), 1e-9)
		})
	}
}

func TestOvertimeHours(t *testing.T) {
	assert.Equal(t, 0.0, OvertimeHours(7.5, 8))
	assert.Equal(t, 0.0, OvertimeHours(8, 8))
	assert.InDelta(t, 1.0, OvertimeHours(9, 8), 1e-9)
	assert.InDelta(t, 485.0/60.0-8.0, OvertimeHours(485.0/60.0, 8), 1e-9)
}
