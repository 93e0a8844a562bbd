package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/audit"
	"hrops/internal/domain/auth"
	"hrops/internal/domain/leave"
	"hrops/internal/domain/notifications"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
	"hrops/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *leave.Service, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/types", h.handleListTypes)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/types", h.handleCreateType)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/balance", h.handleBalance)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/requests", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/requests", h.handleApply)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/requests/{requestID}", h.handleGetRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/requests/{requestID}/actions", h.handleListActions)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/requests/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/requests/{requestID}/reject", h.handleReject)
	})
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	types, err := h.Service.Store.ListTypes(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_types_failed", "failed to list leave types", reqID)
		return
	}
	api.Success(w, types, reqID)
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload leave.LeaveType
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("code", payload.Code, "code is required")
	v.Enum("category", payload.Category,
		[]string{leave.CategoryAnnual, leave.CategorySick, leave.CategoryOther},
		"category must be ANNUAL, SICK or OTHER")
	v.Required("category", payload.Category, "category is required")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.Store.CreateType(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_type_create_failed", "failed to create leave type", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.type.create", "leave_type", id, reqID, shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit leave.type.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

// handleBalance returns the caller's balance; HR and ADMIN may query any
// employee with ?employeeId=.
func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	if employeeID == "" {
		own, err := h.Service.Core.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil || own == "" {
			api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
			return
		}
		employeeID = own
	} else if user.Role != auth.RoleHR && user.Role != auth.RoleAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another employee's balance", reqID)
		return
	}

	balance, err := h.Service.BalanceFor(r.Context(), employeeID, time.Now())
	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_balance_failed", "failed to compute leave balance", reqID)
		return
	}
	api.Success(w, balance, reqID)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	filter := leave.RequestFilter{Status: strings.TrimSpace(r.URL.Query().Get("status"))}
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

	requests, total, err := h.Service.Store.ListRequests(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_requests_failed", "failed to list leave requests", reqID)
		return
	}
	api.Success(w, map[string]any{"requests": requests, "total": total}, reqID)
}

type applyRequest struct {
	LeaveTypeID string `json:"leaveTypeId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Reason      string `json:"reason"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload applyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("leaveTypeId", payload.LeaveTypeID, "leave type is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, reqID) {
		return
	}

	employeeID, err := h.Service.Core.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil || employeeID == "" {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
		return
	}

	request, err := h.Service.Apply(r.Context(), employeeID, payload.LeaveTypeID, payload.Reason, start, end, user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrInsufficientBalance):
			api.Fail(w, http.StatusForbidden, "insufficient_balance", err.Error(), reqID)
		case errors.Is(err, leave.ErrInvalidRange):
			api.Fail(w, http.StatusBadRequest, "invalid_range", "end date must not be before start date", reqID)
		case errors.Is(err, leave.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "leave type not found", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_apply_failed", "failed to submit leave request", reqID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "leave.request.apply", "leave_request", request.ID, reqID, shared.ClientIP(r), nil, request); err != nil {
		slog.Warn("audit leave.request.apply failed", "err", err)
	}
	api.Created(w, request, reqID)
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	request, err := h.Service.Store.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_request_failed", "failed to load leave request", reqID)
		return
	}
	api.Success(w, request, reqID)
}

func (h *Handler) handleListActions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	actions, err := h.Service.Store.ListActions(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_actions_failed", "failed to list leave actions", reqID)
		return
	}
	api.Success(w, actions, reqID)
}

type resolveRequest struct {
	Comments string `json:"comments"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, leave.ActionApprove)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, leave.ActionReject)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, action string) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload resolveRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	request, err := h.Service.Resolve(r.Context(), requestID, user.UserID, user.Role, action, payload.Comments)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
		case errors.Is(err, leave.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to resolve this request at its current stage", reqID)
		case errors.Is(err, leave.ErrConflict):
			api.Fail(w, http.StatusConflict, "conflict", "leave request was modified concurrently, reload and retry", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_resolve_failed", "failed to resolve leave request", reqID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "leave.request."+action, "leave_request", request.ID, reqID, shared.ClientIP(r), nil, request); err != nil {
		slog.Warn("audit leave.request.resolve failed", "err", err)
	}
	h.notifyEmployee(r, request)
	api.Success(w, request, reqID)
}

func (h *Handler) notifyEmployee(r *http.Request, request leave.LeaveRequest) {
	userID, _, err := h.Service.Core.UserEmail(r.Context(), request.EmployeeID)
	if err != nil || userID == "" {
		return
	}
	title := "Leave request update"
	body := "Your leave request is now " + request.Status
	if err := h.Notify.Notify(r.Context(), userID, notifications.KindLeaveResolved, title, body); err != nil {
		slog.Warn("leave notification failed", "err", err)
	}
}
