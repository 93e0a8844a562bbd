package payrollhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/audit"
	"hrops/internal/domain/auth"
	"hrops/internal/domain/core"
	"hrops/internal/domain/notifications"
	"hrops/internal/domain/payroll"
	"hrops/internal/platform/jobs"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
	"hrops/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	Core    *core.Store
	Jobs    *jobs.Service
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *payroll.Service, coreStore *core.Store, jobsSvc *jobs.Service, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Core: coreStore, Jobs: jobsSvc, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/runs", h.handleListRuns)
		r.With(middleware.RequirePermission(auth.PermPayrollRun)).Post("/runs", h.handleCreateRun)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/runs/{runID}", h.handleGetRun)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/runs/{runID}/items", h.handleListItems)
		r.With(middleware.RequirePermission(auth.PermPayrollRun)).Post("/runs/{runID}/calculate", h.handleCalculate)
		r.With(middleware.RequirePermission(auth.PermPayrollFinalize)).Post("/runs/{runID}/finalize", h.handleFinalize)
		r.With(middleware.RequirePermission(auth.PermPayrollFinalize)).Post("/runs/{runID}/publish", h.handlePublish)
		r.With(middleware.RequirePermission(auth.PermPayrollRun)).Patch("/items/{itemID}", h.handleEditItem)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/payslips", h.handleListPayslips)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/payslips/{payslipID}/download", h.handleDownloadPayslip)
	})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	runs, err := h.Service.Store.ListRuns(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_runs_failed", "failed to list payroll runs", reqID)
		return
	}
	api.Success(w, runs, reqID)
}

type createRunPayload struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload createRunPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	run, err := h.Service.CreateRun(r.Context(), payload.Month, payload.Year)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrRunExists):
			api.Fail(w, http.StatusConflict, "run_exists", "a payroll run already exists for that month", reqID)
		case errors.Is(err, payroll.ErrInvalidState):
			api.Fail(w, http.StatusBadRequest, "invalid_period", "month and year are out of range", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "payroll_run_create_failed", "failed to create payroll run", reqID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.run.create", "payroll_run", run.ID, reqID, shared.ClientIP(r), nil, run); err != nil {
		slog.Warn("audit payroll.run.create failed", "err", err)
	}
	api.Created(w, run, reqID)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	run, err := h.Service.Store.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		if errors.Is(err, payroll.ErrRunNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payroll run not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "failed to load payroll run", reqID)
		return
	}
	api.Success(w, run, reqID)
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	items, err := h.Service.Store.ListItems(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_items_failed", "failed to list line items", reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")

	run, err := h.Service.Calculate(r.Context(), runID)
	if err != nil {
		h.writeRunError(w, err, reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.run.calculate", "payroll_run", run.ID, reqID, shared.ClientIP(r), nil, run); err != nil {
		slog.Warn("audit payroll.run.calculate failed", "err", err)
	}
	api.Success(w, run, reqID)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	run, err := h.Service.Finalize(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		h.writeRunError(w, err, reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.run.finalize", "payroll_run", run.ID, reqID, shared.ClientIP(r), nil, run); err != nil {
		slog.Warn("audit payroll.run.finalize failed", "err", err)
	}
	api.Success(w, run, reqID)
}

// handlePublish runs the payslip batch through the job runner so the
// rendered/failed outcome lands in job_runs as well as the response.
func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")

	details, err := h.Jobs.RunNow(r.Context(), jobs.JobPayslipBatch, func(ctx context.Context) (any, error) {
		return h.Service.Publish(ctx, runID)
	})
	if err != nil {
		h.writeRunError(w, err, reqID)
		return
	}

	result, ok := details.(payroll.PublishResult)
	if !ok {
		api.Fail(w, http.StatusInternalServerError, "payroll_publish_failed", "failed to publish payroll run", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.run.publish", "payroll_run", runID, reqID, shared.ClientIP(r), nil, result); err != nil {
		slog.Warn("audit payroll.run.publish failed", "err", err)
	}
	h.notifyPublished(r, result)
	api.Success(w, result, reqID)
}

type editItemPayload struct {
	LOPDays int `json:"lopDays"`
}

func (h *Handler) handleEditItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload editItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	item, err := h.Service.EditItemLOP(r.Context(), chi.URLParam(r, "itemID"), payload.LOPDays)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrItemNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "line item not found", reqID)
		case errors.Is(err, payroll.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "payroll_item_edit_failed", "failed to edit line item", reqID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.item.edit", "payroll_line_item", item.ID, reqID, shared.ClientIP(r), nil, item); err != nil {
		slog.Warn("audit payroll.item.edit failed", "err", err)
	}
	api.Success(w, item, reqID)
}

func (h *Handler) handleListPayslips(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID, err := h.Core.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil || employeeID == "" {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
		return
	}

	payslips, err := h.Service.Store.PayslipsForEmployee(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslips_failed", "failed to list payslips", reqID)
		return
	}
	api.Success(w, payslips, reqID)
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	record, err := h.Service.Store.GetPayslip(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		if errors.Is(err, payroll.ErrItemNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payslip", reqID)
		return
	}

	if user.Role == auth.RoleEmployee || user.Role == auth.RoleManager {
		own, err := h.Core.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil || own != record.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot download another employee's payslip", reqID)
			return
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="payslip-%04d-%02d.pdf"`, record.Year, record.Month))
	http.ServeFile(w, r, record.FilePath)
}

func (h *Handler) notifyPublished(r *http.Request, result payroll.PublishResult) {
	items, err := h.Service.Store.ListItems(r.Context(), result.Run.ID)
	if err != nil {
		slog.Warn("payslip notification item list failed", "err", err)
		return
	}
	for _, item := range items {
		userID, _, err := h.Core.UserEmail(r.Context(), item.EmployeeID)
		if err != nil || userID == "" {
			continue
		}
		body := fmt.Sprintf("Your payslip for %d-%02d is available", result.Run.Year, result.Run.Month)
		if err := h.Notify.Notify(r.Context(), userID, notifications.KindPayslipPublished, "Payslip published", body); err != nil {
			slog.Warn("payslip notification failed", "err", err)
		}
	}
}

func (h *Handler) writeRunError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, payroll.ErrRunNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll run not found", reqID)
	case errors.Is(err, payroll.ErrNoLineItems):
		api.Fail(w, http.StatusConflict, "no_line_items", "payroll run has no line items", reqID)
	case errors.Is(err, payroll.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), reqID)
	case errors.Is(err, payroll.ErrConflict):
		api.Fail(w, http.StatusConflict, "conflict", "payroll run was modified concurrently, reload and retry", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "payroll operation failed", reqID)
	}
}
