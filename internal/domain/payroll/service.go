package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Service struct {
	Store      *Store
	PayslipDir string
}

func NewService(store *Store, payslipDir string) *Service {
	return &Service{Store: store, PayslipDir: payslipDir}
}

func (s *Service) CreateRun(ctx context.Context, month, year int) (Run, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return Run{}, fmt.Errorf("%w: month %d year %d", ErrInvalidState, month, year)
	}
	return s.Store.CreateRun(ctx, month, year)
}

// Calculate regenerates the run's line items from current employee salary
// configuration. Calling it on a run that has already moved past DRAFT is a
// no-op returning the run unchanged.
func (s *Service) Calculate(ctx context.Context, runID string) (Run, error) {
	run, err := s.Store.GetRun(ctx, runID)
	if err != nil {
		return Run{}, err
	}
	if run.Status != RunStatusDraft {
		return run, nil
	}

	profiles, err := s.Store.SalaryProfiles(ctx)
	if err != nil {
		return Run{}, err
	}

	items := make([]LineItem, 0, len(profiles))
	for employeeID, profile := range profiles {
		item := ComputeLine(profile)
		item.RunID = run.ID
		item.EmployeeID = employeeID
		items = append(items, item)
	}

	if err := s.Store.ReplaceLineItems(ctx, run.ID, items); err != nil {
		return Run{}, err
	}
	if err := s.Store.TransitionRun(ctx, run.ID, run.Version, RunStatusCalculated); err != nil {
		return Run{}, err
	}
	run.Status = RunStatusCalculated
	run.Version++
	return run, nil
}

func (s *Service) Finalize(ctx context.Context, runID string) (Run, error) {
	run, err := s.Store.GetRun(ctx, runID)
	if err != nil {
		return Run{}, err
	}
	if run.Status != RunStatusCalculated {
		return Run{}, fmt.Errorf("%w: cannot finalize a %s run", ErrInvalidState, run.Status)
	}
	count, err := s.Store.CountItems(ctx, run.ID)
	if err != nil {
		return Run{}, err
	}
	if count == 0 {
		return Run{}, ErrNoLineItems
	}
	if err := s.Store.TransitionRun(ctx, run.ID, run.Version, RunStatusFinalized); err != nil {
		return Run{}, err
	}
	run.Status = RunStatusFinalized
	run.Version++
	return run, nil
}

// Publish renders a payslip PDF per line item and marks the run PUBLISHED.
// Individual render failures are logged and counted, never fatal to the
// batch.
func (s *Service) Publish(ctx context.Context, runID string) (PublishResult, error) {
	run, err := s.Store.GetRun(ctx, runID)
	if err != nil {
		return PublishResult{}, err
	}
	if run.Status != RunStatusFinalized {
		return PublishResult{}, fmt.Errorf("%w: cannot publish a %s run", ErrInvalidState, run.Status)
	}

	items, err := s.Store.ListItems(ctx, run.ID)
	if err != nil {
		return PublishResult{}, err
	}

	result := PublishResult{}
	for _, item := range items {
		filePath, err := s.renderPayslip(ctx, item)
		if err != nil {
			slog.Warn("payslip render failed", "lineItemId", item.ID, "err", err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line item %s: %v", item.ID, err))
			continue
		}
		if err := s.Store.UpsertPayslip(ctx, item.ID, filePath); err != nil {
			slog.Warn("payslip upsert failed", "lineItemId", item.ID, "err", err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line item %s: %v", item.ID, err))
			continue
		}
		result.Rendered++
	}

	if err := s.Store.TransitionRun(ctx, run.ID, run.Version, RunStatusPublished); err != nil {
		return PublishResult{}, err
	}
	run.Status = RunStatusPublished
	run.Version++
	result.Run = run
	return result, nil
}

// EditItemLOP adjusts a line item's loss-of-pay days. Only allowed while the
// run has not been finalized.
func (s *Service) EditItemLOP(ctx context.Context, itemID string, lopDays int) (LineItem, error) {
	if lopDays < 0 || lopDays > 31 {
		return LineItem{}, fmt.Errorf("%w: lopDays %d out of range", ErrInvalidState, lopDays)
	}
	item, err := s.Store.GetItem(ctx, itemID)
	if err != nil {
		return LineItem{}, err
	}
	run, err := s.Store.GetRun(ctx, item.RunID)
	if err != nil {
		return LineItem{}, err
	}
	if run.Status == RunStatusFinalized || run.Status == RunStatusPublished {
		return LineItem{}, fmt.Errorf("%w: run is %s", ErrInvalidState, run.Status)
	}
	if err := s.Store.UpdateItemLOP(ctx, itemID, lopDays); err != nil {
		return LineItem{}, err
	}
	item.LOPDays = lopDays
	return item, nil
}

func (s *Service) renderPayslip(ctx context.Context, item LineItem) (string, error) {
	data, err := s.Store.PayslipPDFData(ctx, item)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.PayslipDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.PayslipDir,
		fmt.Sprintf("%04d-%02d-%s.pdf", data.Year, data.Month, item.ID))

	if err := RenderPayslipPDF(data, filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

func monthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("month %d", month)
	}
	return time.Month(month).String()
}
