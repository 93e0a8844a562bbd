package timesheethandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/notifications"
	"hrops/internal/domain/timesheet"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
	"hrops/internal/transport/http/shared"
)

type Handler struct {
	Service *timesheet.Service
	Notify  *notifications.Service
}

func NewHandler(service *timesheet.Service, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timesheets", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTimesheetRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTimesheetWrite)).Post("/", h.handleSave)
		r.With(middleware.RequirePermission(auth.PermTimesheetWrite)).Post("/{timesheetID}/submit", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermTimesheetApprove)).Post("/{timesheetID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermTimesheetApprove)).Post("/{timesheetID}/reject", h.handleReject)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	filter := timesheet.Filter{Status: strings.TrimSpace(r.URL.Query().Get("status"))}
	scope := r.URL.Query().Get("scope")

	switch {
	case scope == "team" && (user.Role == auth.RoleManager || user.Role == auth.RoleAdmin):
		managerEmployeeID, err := h.Service.Core.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil || managerEmployeeID == "" {
			api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
			return
		}
		filter.ManagerEmployeeID = managerEmployeeID
	case user.Role == auth.RoleHR || user.Role == auth.RoleAdmin:
		filter.EmployeeID = strings.TrimSpace(r.URL.Query().Get("employeeId"))
	default:
		own, err := h.Service.Core.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil || own == "" {
			api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
			return
		}
		filter.EmployeeID = own
	}

	sheets, total, err := h.Service.Store.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheets_failed", "failed to list timesheets", reqID)
		return
	}
	api.Success(w, map[string]any{"timesheets": sheets, "total": total}, reqID)
}

type savePayload struct {
	WeekStart string          `json:"weekStart"`
	Hours     timesheet.Hours `json:"hours"`
	Note      string          `json:"note"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload savePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	weekStart, _ := v.Date("weekStart", payload.WeekStart)
	if v.Reject(w, reqID) {
		return
	}

	employeeID, err := h.Service.Core.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil || employeeID == "" {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
		return
	}

	sheet, err := h.Service.Save(r.Context(), employeeID, weekStart, payload.Hours, payload.Note)
	if err != nil {
		switch {
		case errors.Is(err, timesheet.ErrNotWeekStart):
			api.Fail(w, http.StatusBadRequest, "invalid_week_start", "weekStart must be a Monday", reqID)
		case errors.Is(err, timesheet.ErrInvalidHours):
			api.Fail(w, http.StatusBadRequest, "invalid_hours", "hours must be 7 values between 0 and 24", reqID)
		case errors.Is(err, timesheet.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "invalid_state", "timesheet has already been submitted", reqID)
		case errors.Is(err, timesheet.ErrConflict):
			api.Fail(w, http.StatusConflict, "conflict", "timesheet was modified concurrently, reload and retry", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "timesheet_save_failed", "failed to save timesheet", reqID)
		}
		return
	}
	api.Success(w, sheet, reqID)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID, err := h.Service.Core.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil || employeeID == "" {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
		return
	}

	sheet, err := h.Service.Submit(r.Context(), chi.URLParam(r, "timesheetID"), employeeID)
	if err != nil {
		h.writeTransitionError(w, err, reqID)
		return
	}
	api.Success(w, sheet, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, approve bool) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	sheet, err := h.Service.Review(r.Context(), chi.URLParam(r, "timesheetID"), user.UserID, user.Role, approve)
	if err != nil {
		h.writeTransitionError(w, err, reqID)
		return
	}

	if userID, _, err := h.Service.Core.UserEmail(r.Context(), sheet.EmployeeID); err == nil && userID != "" {
		body := "Your timesheet for week " + sheet.WeekStart.Format("2006-01-02") + " is now " + sheet.Status
		if err := h.Notify.Notify(r.Context(), userID, notifications.KindTimesheetReviewed, "Timesheet update", body); err != nil {
			slog.Warn("timesheet notification failed", "err", err)
		}
	}
	api.Success(w, sheet, reqID)
}

func (h *Handler) writeTransitionError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, timesheet.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "timesheet not found", reqID)
	case errors.Is(err, timesheet.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to act on this timesheet", reqID)
	case errors.Is(err, timesheet.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "timesheet is not in a state that allows this transition", reqID)
	case errors.Is(err, timesheet.ErrConflict):
		api.Fail(w, http.StatusConflict, "conflict", "timesheet was modified concurrently, reload and retry", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "timesheet_failed", "failed to update timesheet", reqID)
	}
}
