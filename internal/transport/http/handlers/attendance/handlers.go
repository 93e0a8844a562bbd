package attendancehandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/attendance"
	"hrops/internal/domain/auth"
	"hrops/internal/transport/http/api"
	"hrops/internal/transport/http/middleware"
)

const maxSelfieBytes = 5 * 1024 * 1024

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite)).Post("/punch-in", h.handlePunchIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite)).Post("/punch-out", h.handlePunchOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead)).Get("/", h.handleListMonth)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead)).Get("/today", h.handleToday)
	})
}

// handlePunchIn accepts multipart form data: lat, lon and an optional selfie
// file.
func (h *Handler) handlePunchIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if err := r.ParseMultipartForm(maxSelfieBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "expected multipart form data", reqID)
		return
	}

	lat, lon, ok := parseCoordinates(w, r, reqID)
	if !ok {
		return
	}

	employeeID := h.employeeID(w, r, user.UserID, reqID)
	if employeeID == "" {
		return
	}

	var selfie *attendance.Selfie
	if file, header, err := r.FormFile("selfie"); err == nil {
		defer file.Close()
		if data, readErr := io.ReadAll(io.LimitReader(file, maxSelfieBytes)); readErr == nil {
			selfie = &attendance.Selfie{
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			}
		}
	}

	result, err := h.Service.PunchIn(r.Context(), employeeID, lat, lon, selfie, time.Now())
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyPunched) {
			api.Fail(w, http.StatusConflict, "already_punched", "already punched in today", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "punch_in_failed", "failed to record punch-in", reqID)
		return
	}
	api.Created(w, result, reqID)
}

type punchOutPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (h *Handler) handlePunchOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload punchOutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	employeeID := h.employeeID(w, r, user.UserID, reqID)
	if employeeID == "" {
		return
	}

	result, err := h.Service.PunchOut(r.Context(), employeeID, payload.Lat, payload.Lon, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrNoOpenPunch):
			api.Fail(w, http.StatusConflict, "no_open_punch", "no punch-in recorded today", reqID)
		case errors.Is(err, attendance.ErrAlreadyComplete):
			api.Fail(w, http.StatusConflict, "already_complete", "already punched out today", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "punch_out_failed", "failed to record punch-out", reqID)
		}
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleListMonth(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	if employeeID == "" {
		employeeID = h.employeeID(w, r, user.UserID, reqID)
		if employeeID == "" {
			return
		}
	} else if user.Role != auth.RoleHR && user.Role != auth.RoleAdmin && user.Role != auth.RoleManager {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another employee's attendance", reqID)
		return
	}

	now := time.Now()
	year := now.Year()
	month := now.Month()
	if raw := r.URL.Query().Get("year"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			year = v
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 && v <= 12 {
			month = time.Month(v)
		}
	}

	records, err := h.Service.Store.ForMonth(r.Context(), employeeID, year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := h.employeeID(w, r, user.UserID, reqID)
	if employeeID == "" {
		return
	}

	record, err := h.Service.Store.ForDate(r.Context(), employeeID, time.Now())
	if err != nil {
		if errors.Is(err, attendance.ErrNotFound) {
			api.Success(w, nil, reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attendance_today_failed", "failed to load today's attendance", reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request, userID, reqID string) string {
	employeeID, err := h.Service.Core.EmployeeIDByUserID(r.Context(), userID)
	if err != nil || employeeID == "" {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this user", reqID)
		return ""
	}
	return employeeID
}

func parseCoordinates(w http.ResponseWriter, r *http.Request, reqID string) (float64, float64, bool) {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(r.FormValue("lat")), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(r.FormValue("lon")), 64)
	if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		api.Fail(w, http.StatusBadRequest, "invalid_coordinates", "lat and lon are required and must be valid coordinates", reqID)
		return 0, 0, false
	}
	return lat, lon, true
}
