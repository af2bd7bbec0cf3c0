package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
	"github.com/promoterhub/workforce-backend-go/internal/handler/http/response"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/jwt"
	"github.com/promoterhub/workforce-backend-go/internal/service/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

// stubAttendanceService returns canned values so the tests exercise routing,
// auth middleware and error mapping without a database.
type stubAttendanceService struct {
	attendance.Service
	checkInErr  error
	checkInResp attendance.AttendanceResponse
	todayResp   attendance.TodayResponse
}

func (s *stubAttendanceService) CheckIn(_ context.Context, _ attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if s.checkInErr != nil {
		return attendance.AttendanceResponse{}, s.checkInErr
	}
	return s.checkInResp, nil
}

func (s *stubAttendanceService) GetToday(_ context.Context) (attendance.TodayResponse, error) {
	return s.todayResp, nil
}

type stubReportService struct{}

func (s *stubReportService) GetSummary(_ context.Context, _ report.SummaryRequest) (report.SummaryResponse, error) {
	return report.SummaryResponse{}, nil
}

func newTestRouter(svc attendance.Service) (http.Handler, jwt.Service) {
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	router := NewRouter(jwtService, NewAttendanceHandler(svc), NewReportHandler(&stubReportService{}))
	return router, jwtService
}

func bearerToken(t *testing.T, jwtService jwt.Service, employeeID *string, role string) string {
	t.Helper()
	companyID := "cmp-1"
	token, _, err := jwtService.GenerateAccessToken("usr-1", employeeID, &companyID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(router http.Handler, method, target, auth string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCheckInEndpoint(t *testing.T) {
	checkInAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC).Format("2006-01-02 15:04:05")
	svc := &stubAttendanceService{
		checkInResp: attendance.AttendanceResponse{
			ID:         "att-1",
			EmployeeID: "emp-1",
			Date:       "2025-03-10",
			CheckInAt:  &checkInAt,
			Status:     string(attendance.StatusPresent),
		},
	}
	router, jwtService := newTestRouter(svc)

	empID := "emp-1"
	rec := doRequest(router, http.MethodPost, "/api/v1/attendance/check-in",
		bearerToken(t, jwtService, &empID, "employee"), map[string]any{})

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestCheckInEndpoint_Unauthenticated(t *testing.T) {
	router, _ := newTestRouter(&stubAttendanceService{})

	rec := doRequest(router, http.MethodPost, "/api/v1/attendance/check-in", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckInEndpoint_NoEmployeeClaim(t *testing.T) {
	router, jwtService := newTestRouter(&stubAttendanceService{})

	rec := doRequest(router, http.MethodPost, "/api/v1/attendance/check-in",
		bearerToken(t, jwtService, nil, "manager"), map[string]any{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckInEndpoint_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"already checked in", attendance.ErrAlreadyCheckedIn, http.StatusConflict},
		{"outside geofence", attendance.ErrOutsideGeofence, http.StatusForbidden},
		{"location required", attendance.ErrLocationRequired, http.StatusBadRequest},
		{"no schedule", attendance.ErrNoScheduleFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, jwtService := newTestRouter(&stubAttendanceService{checkInErr: tt.err})

			empID := "emp-1"
			rec := doRequest(router, http.MethodPost, "/api/v1/attendance/check-in",
				bearerToken(t, jwtService, &empID, "employee"), map[string]any{})

			assert.Equal(t, tt.expected, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
		})
	}
}

func TestReviewerSurface_RoleEnforced(t *testing.T) {
	router, jwtService := newTestRouter(&stubAttendanceService{})

	empID := "emp-1"
	rec := doRequest(router, http.MethodGet, "/api/v1/attendance?page=1",
		bearerToken(t, jwtService, &empID, "employee"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/attendance/summary?start_date=2025-03-01&end_date=2025-03-07",
		bearerToken(t, jwtService, nil, "manager"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTodayEndpoint(t *testing.T) {
	svc := &stubAttendanceService{
		todayResp: attendance.TodayResponse{HasRecord: false, CanCheckIn: true},
	}
	router, jwtService := newTestRouter(svc)

	empID := "emp-1"
	rec := doRequest(router, http.MethodGet, "/api/v1/attendance/today",
		bearerToken(t, jwtService, &empID, "employee"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}
