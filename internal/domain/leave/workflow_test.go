package leave

import (
	"errors"
	"testing"

	"hrops/internal/domain/auth"
)

func TestDecideManagerApprove(t *testing.T) {
	decision, err := Decide(auth.RoleManager, ActionApprove, StatusPendingManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.NextStatus != StatusPendingHR {
		t.Fatalf("expected %s, got %s", StatusPendingHR, decision.NextStatus)
	}
	if decision.ActionTag != TagApprovedByManager {
		t.Fatalf("expected tag %s, got %s", TagApprovedByManager, decision.ActionTag)
	}
	if !decision.StampManager || decision.StampHR {
		t.Fatalf("expected manager stamp only, got %+v", decision)
	}
}

func TestDecideManagerReject(t *testing.T) {
	decision, err := Decide(auth.RoleManager, ActionReject, StatusPendingManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.NextStatus != StatusRejectedByManager {
		t.Fatalf("expected %s, got %s", StatusRejectedByManager, decision.NextStatus)
	}
}

func TestDecideHRApprove(t *testing.T) {
	decision, err := Decide(auth.RoleHR, ActionApprove, StatusPendingHR)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.NextStatus != StatusApproved {
		t.Fatalf("expected %s, got %s", StatusApproved, decision.NextStatus)
	}
	if !decision.StampHR {
		t.Fatal("expected hr stamp")
	}
}

func TestDecideStageGate(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		action  string
		current string
	}{
		{"hr before manager", auth.RoleHR, ActionApprove, StatusPendingManager},
		{"manager after own stage", auth.RoleManager, ActionApprove, StatusPendingHR},
		{"manager on approved", auth.RoleManager, ActionApprove, StatusApproved},
		{"hr on rejected", auth.RoleHR, ActionReject, StatusRejectedByManager},
		{"employee cannot act", auth.RoleEmployee, ActionApprove, StatusPendingManager},
		{"finance cannot act", auth.RoleFinance, ActionApprove, StatusPendingManager},
		{"unknown action", auth.RoleManager, "escalate", StatusPendingManager},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decide(tc.role, tc.action, tc.current); !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestDecideAdminOverridesAnyStatus(t *testing.T) {
	statuses := []string{
		StatusPendingManager, StatusPendingHR, StatusApproved,
		StatusRejectedByManager, StatusRejectedByHR, StatusRejectedByAdmin,
	}
	for _, status := range statuses {
		decision, err := Decide(auth.RoleAdmin, ActionApprove, status)
		if err != nil {
			t.Fatalf("admin approve on %s: unexpected error %v", status, err)
		}
		if decision.NextStatus != StatusApproved {
			t.Fatalf("admin approve on %s: expected %s, got %s", status, StatusApproved, decision.NextStatus)
		}

		decision, err = Decide(auth.RoleAdmin, ActionReject, status)
		if err != nil {
			t.Fatalf("admin reject on %s: unexpected error %v", status, err)
		}
		if decision.NextStatus != StatusRejectedByAdmin {
			t.Fatalf("admin reject on %s: expected %s, got %s", status, StatusRejectedByAdmin, decision.NextStatus)
		}
	}
}

func TestTerminal(t *testing.T) {
	if Terminal(StatusPendingManager) || Terminal(StatusPendingHR) {
		t.Fatal("pending statuses must not be terminal")
	}
	for _, status := range []string{StatusApproved, StatusRejectedByManager, StatusRejectedByHR, StatusRejectedByAdmin} {
		if !Terminal(status) {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
}
