package reportshandler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/reports"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
	"hrops/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermReportsRead))
		r.Get("/leave-usage", h.handleLeaveUsage)
		r.Get("/attendance-summary", h.handleAttendanceSummary)
		r.Get("/payroll-register", h.handlePayrollRegister)
		r.Get("/job-runs", h.handleJobRuns)
	})
}

func (h *Handler) handleLeaveUsage(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		year = time.Now().UTC().Year()
	}

	if r.URL.Query().Get("format") == "json" {
		rows, err := h.Service.LeaveUsage(r.Context(), year)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build leave usage report", reqID)
			return
		}
		api.Success(w, rows, reqID)
		return
	}

	writeCSVHeaders(w, fmt.Sprintf("leave-usage-%d.csv", year))
	if err := h.Service.WriteLeaveUsageCSV(r.Context(), year, w); err != nil {
		// headers are already out, nothing useful left to send
		return
	}
}

func (h *Handler) handleAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil || from.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD", reqID)
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil || to.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD", reqID)
		return
	}
	if to.Before(from) {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "to must not be before from", reqID)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		rows, err := h.Service.AttendanceSummary(r.Context(), from, to)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build attendance summary", reqID)
			return
		}
		api.Success(w, rows, reqID)
		return
	}

	name := fmt.Sprintf("attendance-%s-%s.csv", from.Format("2006-01-02"), to.Format("2006-01-02"))
	writeCSVHeaders(w, name)
	if err := h.Service.WriteAttendanceSummaryCSV(r.Context(), from, to, w); err != nil {
		return
	}
}

func (h *Handler) handlePayrollRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	runID := r.URL.Query().Get("runId")
	if runID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_run", "runId query parameter is required", reqID)
		return
	}

	writeCSVHeaders(w, fmt.Sprintf("payroll-register-%s.csv", runID))
	if err := h.Service.WritePayrollRegister(r.Context(), runID, w); err != nil {
		return
	}
}

func (h *Handler) handleJobRuns(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 20, 100)

	rows, err := h.Service.JobRuns(r.Context(), r.URL.Query().Get("jobType"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to list job runs", reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func writeCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
}
