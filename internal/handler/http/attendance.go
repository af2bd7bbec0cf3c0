package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/promoterhub/workforce-backend-go/internal/domain/attendance"
	"github.com/promoterhub/workforce-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Break(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approval(w http.ResponseWriter, r *http.Request)
	Reopen(w http.ResponseWriter, r *http.Request)
	DayStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// parsePunch reads a punch payload. Multipart requests carry the JSON in a
// 'data' field plus an optional 'photo' file; plain JSON bodies are accepted
// for schedules that do not mandate a photo. The returned closer releases the
// uploaded file, if any.
func parsePunch(w http.ResponseWriter, r *http.Request) (attendance.PunchRequest, func(), bool) {
	var req attendance.PunchRequest
	cleanup := func() {}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		// Parse multipart form (max 10MB)
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return req, cleanup, false
		}

		if dataJSON := r.FormValue("data"); dataJSON != "" {
			if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
				slog.Error("Failed to unmarshal JSON data", "error", err)
				response.BadRequest(w, "Invalid request format", nil)
				return req, cleanup, false
			}
		}

		file, fileHeader, err := r.FormFile("photo")
		if err != nil {
			if err != http.ErrMissingFile {
				slog.Error("Failed to get file from form", "error", err)
				response.BadRequest(w, "Invalid file upload", nil)
				return req, cleanup, false
			}
			// Photo left out; the schedule policy decides whether that is
			// acceptable.
		} else {
			req.File = file
			req.FileHeader = fileHeader
			cleanup = func() { file.Close() }
		}

		return req, cleanup, true
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return req, cleanup, false
	}

	return req, cleanup, true
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	punch, cleanup, ok := parsePunch(w, r)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.attendanceService.CheckIn(r.Context(), attendance.CheckInRequest{PunchRequest: punch})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	punch, cleanup, ok := parsePunch(w, r)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.attendanceService.CheckOut(r.Context(), attendance.CheckOutRequest{PunchRequest: punch})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-out successful", result)
}

// Break implements AttendanceHandler.
func (h *attendanceHandlerImpl) Break(w http.ResponseWriter, r *http.Request) {
	var req attendance.BreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	var result attendance.AttendanceResponse
	var err error
	switch req.Action {
	case attendance.BreakActionStart:
		result, err = h.attendanceService.StartBreak(r.Context())
	case attendance.BreakActionEnd:
		result, err = h.attendanceService.EndBreak(r.Context())
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break "+req.Action+" recorded", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	filter := parseAttendanceFilter(r)

	result, err := h.attendanceService.GetMyAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseAttendanceFilter(r)

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approval implements AttendanceHandler.
func (h *attendanceHandlerImpl) Approval(w http.ResponseWriter, r *http.Request) {
	var req attendance.ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ProcessApproval(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Approval processed", result)
}

// Reopen implements AttendanceHandler.
func (h *attendanceHandlerImpl) Reopen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.ReopenApproval(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance reopened for review", result)
}

// DayStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) DayStatus(w http.ResponseWriter, r *http.Request) {
	var req attendance.DayStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.attendanceService.SetDayStatus(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Day status updated", nil)
}

func parseAttendanceFilter(r *http.Request) attendance.AttendanceFilter {
	q := r.URL.Query()

	var filter attendance.AttendanceFilter
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	for key, dst := range map[string]**string{
		"employee_id":     &filter.EmployeeID,
		"date":            &filter.Date,
		"start_date":      &filter.StartDate,
		"end_date":        &filter.EndDate,
		"status":          &filter.Status,
		"approval_status": &filter.Approval,
	} {
		if v := q.Get(key); v != "" {
			value := v
			*dst = &value
		}
	}

	filter.SortBy = q.Get("sort_by")
	filter.SortOrder = q.Get("sort_order")

	return filter
}
