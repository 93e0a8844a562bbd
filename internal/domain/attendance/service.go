package attendance

import (
	"context"
	"log/slog"
	"time"

	"hrops/internal/domain/core"
	"hrops/internal/platform/geocode"
	"hrops/internal/platform/media"
)

type Service struct {
	Store    *Store
	Core     *core.Store
	Media    media.Uploader
	Geocoder geocode.Resolver
}

func NewService(store *Store, coreStore *core.Store, uploader media.Uploader, geocoder geocode.Resolver) *Service {
	return &Service{Store: store, Core: coreStore, Media: uploader, Geocoder: geocoder}
}

// Selfie is the optional photo attached to a punch-in.
type Selfie struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (s *Service) PunchIn(ctx context.Context, employeeID string, lat, lon float64, selfie *Selfie, now time.Time) (PunchResult, error) {
	result := PunchResult{}

	address := s.resolveAddress(ctx, lat, lon, &result)

	selfieURL := ""
	if selfie != nil {
		url, err := s.Media.Upload(ctx, selfie.FileName, selfie.ContentType, selfie.Data)
		if err != nil {
			slog.Warn("selfie upload failed", "employeeId", employeeID, "err", err)
			result.Warnings = append(result.Warnings, "selfie upload failed, punch recorded without photo")
		} else {
			selfieURL = url
			result.SelfieUploaded = true
		}
	}

	day := DayOf(now)
	a := Attendance{
		EmployeeID: employeeID,
		Date:       day,
		InAt:       &now,
		InLat:      &lat,
		InLon:      &lon,
		InAddress:  address,
		SelfieURL:  selfieURL,
		Status:     StatusPresent,
	}
	id, err := s.Store.CreatePunchIn(ctx, a)
	if err != nil {
		return PunchResult{}, err
	}
	a.ID = id
	result.Attendance = a
	return result, nil
}

func (s *Service) PunchOut(ctx context.Context, employeeID string, lat, lon float64, now time.Time) (PunchResult, error) {
	a, err := s.Store.ForDate(ctx, employeeID, now)
	if err != nil {
		if err == ErrNotFound {
			return PunchResult{}, ErrNoOpenPunch
		}
		return PunchResult{}, err
	}
	if a.InAt == nil {
		return PunchResult{}, ErrNoOpenPunch
	}
	if a.OutAt != nil {
		return PunchResult{}, ErrAlreadyComplete
	}

	result := PunchResult{}
	address := s.resolveAddress(ctx, lat, lon, &result)

	emp, err := s.Core.Get(ctx, employeeID)
	if err != nil {
		return PunchResult{}, err
	}

	status, workedHours := Classify(*a.InAt, now, emp.InTime)
	a.OutAt = &now
	a.OutLat = &lat
	a.OutLon = &lon
	a.OutAddress = address
	a.Status = status
	a.WorkedHours = workedHours

	if err := s.Store.ClosePunch(ctx, a.ID, a); err != nil {
		return PunchResult{}, err
	}
	result.Attendance = a
	return result, nil
}

func (s *Service) resolveAddress(ctx context.Context, lat, lon float64, result *PunchResult) string {
	address, err := s.Geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		slog.Debug("reverse geocode failed", "err", err)
		result.Warnings = append(result.Warnings, "address lookup failed, stored raw coordinates")
		return geocode.Fallback(lat, lon)
	}
	return address
}
