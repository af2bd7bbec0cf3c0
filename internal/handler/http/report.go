package http

import (
	"net/http"

	"github.com/promoterhub/workforce-backend-go/internal/handler/http/response"
	"github.com/promoterhub/workforce-backend-go/internal/service/report"
)

type ReportHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Summary implements ReportHandler.
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := report.SummaryRequest{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	if v := q.Get("employee_id"); v != "" {
		req.EmployeeID = &v
	}

	result, err := h.reportService.GetSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
