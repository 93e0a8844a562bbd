package reimbursementhandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hrops/internal/domain/audit"
	"hrops/internal/domain/auth"
	"hrops/internal/domain/notifications"
	"hrops/internal/domain/reimbursement"
	"hrops/internal/platform/media"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
	"hrops/internal/transport/http/shared"
)

const maxReceiptBytes = 5 * 1024 * 1024

type Handler struct {
	Service *reimbursement.Service
	Media   media.Uploader
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *reimbursement.Service, uploader media.Uploader, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Media: uploader, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reimbursements", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReimbursementRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermReimbursementWrite)).Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermReimbursementRead)).Get("/{reimbursementID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermReimbursementRead)).Get("/{reimbursementID}/actions", h.handleListActions)
		r.With(middleware.RequirePermission(auth.PermReimbursementResolve)).Post("/{reimbursementID}/resolve", h.handleResolve)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	filter := reimbursement.Filter{Status: strings.TrimSpace(r.URL.Query().Get("status"))}
	scope := r.URL.Query().Get("scope")

	switch {
	case scope == "team" && (user.Role == auth.RoleManager || user.Role == auth.RoleAdmin):
		managerEmployeeID, err := h.Service.Core.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil || managerEmployeeID == "" {
			api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
			return
		}
		filter.ManagerEmployeeID = managerEmployeeID
	case user.Role == auth.RoleHR || user.Role == auth.RoleFinance || user.Role == auth.RoleAdmin:
		filter.EmployeeID = strings.TrimSpace(r.URL.Query().Get("employeeId"))
	default:
		own, err := h.Service.Core.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil || own == "" {
			api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
			return
		}
		filter.EmployeeID = own
	}

	items, total, err := h.Service.Store.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reimbursements_failed", "failed to list reimbursements", reqID)
		return
	}
	api.Success(w, map[string]any{"reimbursements": items, "total": total}, reqID)
}

// handleSubmit accepts multipart form data with amount, description and an
// optional receipt file. The receipt upload is best-effort: a failed upload
// still records the claim.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "expected multipart form data", reqID)
		return
	}

	amountRaw := r.FormValue("amount")
	description := r.FormValue("description")

	amount, err := decimal.NewFromString(strings.TrimSpace(amountRaw))
	v := shared.NewValidator()
	v.Required("amount", amountRaw, "amount is required")
	if err != nil || amount.Sign() <= 0 {
		v.Add("amount", "must be a positive number")
	}
	if v.Reject(w, reqID) {
		return
	}

	employeeID, err := h.Service.Core.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil || employeeID == "" {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
		return
	}

	receiptURL := ""
	warnings := []string{}
	if file, header, err := r.FormFile("receipt"); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxReceiptBytes))
		if readErr != nil {
			warnings = append(warnings, "receipt read failed, claim recorded without receipt")
		} else {
			url, upErr := h.Media.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
			if upErr != nil {
				slog.Warn("receipt upload failed", "employeeId", employeeID, "err", upErr)
				warnings = append(warnings, "receipt upload failed, claim recorded without receipt")
			} else {
				receiptURL = url
			}
		}
	}

	claim, err := h.Service.Submit(r.Context(), employeeID, amount, description, receiptURL, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reimbursement_submit_failed", "failed to submit reimbursement", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "reimbursement.submit", "reimbursement", claim.ID, reqID, shared.ClientIP(r), nil, claim); err != nil {
		slog.Warn("audit reimbursement.submit failed", "err", err)
	}

	payload := map[string]any{"reimbursement": claim}
	if len(warnings) > 0 {
		payload["warnings"] = warnings
	}
	api.Created(w, payload, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	claim, err := h.Service.Store.Get(r.Context(), chi.URLParam(r, "reimbursementID"))
	if err != nil {
		if errors.Is(err, reimbursement.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "reimbursement not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "reimbursement_get_failed", "failed to load reimbursement", reqID)
		return
	}
	api.Success(w, claim, reqID)
}

func (h *Handler) handleListActions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	actions, err := h.Service.Store.ListActions(r.Context(), chi.URLParam(r, "reimbursementID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reimbursement_actions_failed", "failed to list reimbursement actions", reqID)
		return
	}
	api.Success(w, actions, reqID)
}

type resolvePayload struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	reimbursementID := chi.URLParam(r, "reimbursementID")

	var payload resolvePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.Action != reimbursement.ActionApprove && payload.Action != reimbursement.ActionReject {
		api.Fail(w, http.StatusBadRequest, "invalid_action", "action must be approve or reject", reqID)
		return
	}

	claim, err := h.Service.Resolve(r.Context(), reimbursementID, user.UserID, user.Role, payload.Action, payload.Notes)
	if err != nil {
		switch {
		case errors.Is(err, reimbursement.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "reimbursement not found", reqID)
		case errors.Is(err, reimbursement.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to resolve this claim at its current stage", reqID)
		case errors.Is(err, reimbursement.ErrConflict):
			api.Fail(w, http.StatusConflict, "conflict", "reimbursement was modified concurrently, reload and retry", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "reimbursement_resolve_failed", "failed to resolve reimbursement", reqID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "reimbursement."+payload.Action, "reimbursement", claim.ID, reqID, shared.ClientIP(r), nil, claim); err != nil {
		slog.Warn("audit reimbursement.resolve failed", "err", err)
	}
	if userID, _, err := h.Service.Core.UserEmail(r.Context(), claim.EmployeeID); err == nil && userID != "" {
		body := "Your reimbursement claim is now " + claim.Status
		if err := h.Notify.Notify(r.Context(), userID, notifications.KindReimbursementResolved, "Reimbursement update", body); err != nil {
			slog.Warn("reimbursement notification failed", "err", err)
		}
	}
	api.Success(w, claim, reqID)
}
