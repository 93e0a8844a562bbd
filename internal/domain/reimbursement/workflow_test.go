package reimbursement

import (
	"errors"
	"testing"

	"hrops/internal/domain/auth"
)

func TestDecideFullChain(t *testing.T) {
	steps := []struct {
		role   string
		status string
		next   string
		tag    string
	}{
		{auth.RoleManager, StatusPendingManager, StatusPendingHR, TagApprovedByManager},
		{auth.RoleHR, StatusPendingHR, StatusPendingFinance, TagApprovedByHR},
		{auth.RoleFinance, StatusPendingFinance, StatusApproved, TagApprovedByFinance},
	}
	for _, step := range steps {
		d, err := Decide(step.role, ActionApprove, step.status)
		if err != nil {
			t.Fatalf("%s approve on %s: %v", step.role, step.status, err)
		}
		if d.NextStatus != step.next {
			t.Fatalf("%s approve on %s: next = %s, want %s", step.role, step.status, d.NextStatus, step.next)
		}
		if d.ActionTag != step.tag {
			t.Fatalf("%s approve on %s: tag = %s, want %s", step.role, step.status, d.ActionTag, step.tag)
		}
	}
}

func TestDecideFinanceApprovalResolves(t *testing.T) {
	d, err := Decide(auth.RoleFinance, ActionApprove, StatusPendingFinance)
	if err != nil {
		t.Fatalf("finance approve: %v", err)
	}
	if !d.Resolves {
		t.Fatal("finance approval should resolve the reimbursement")
	}
}

func TestDecideRejectFromAnyStage(t *testing.T) {
	cases := []struct {
		role   string
		status string
	}{
		{auth.RoleManager, StatusPendingManager},
		{auth.RoleHR, StatusPendingHR},
		{auth.RoleFinance, StatusPendingFinance},
	}
	for _, c := range cases {
		d, err := Decide(c.role, ActionReject, c.status)
		if err != nil {
			t.Fatalf("%s reject on %s: %v", c.role, c.status, err)
		}
		if d.NextStatus != StatusRejected {
			t.Fatalf("%s reject on %s: next = %s, want %s", c.role, c.status, d.NextStatus, StatusRejected)
		}
		if d.ActionTag != TagRejected {
			t.Fatalf("%s reject on %s: tag = %s, want %s", c.role, c.status, d.ActionTag, TagRejected)
		}
		if !d.Resolves {
			t.Fatalf("%s reject on %s should resolve", c.role, c.status)
		}
	}
}

func TestDecideWrongStageForbidden(t *testing.T) {
	cases := []struct {
		name   string
		role   string
		action string
		status string
	}{
		{"finance on pending manager", auth.RoleFinance, ActionApprove, StatusPendingManager},
		{"finance reject on pending manager", auth.RoleFinance, ActionReject, StatusPendingManager},
		{"manager on pending hr", auth.RoleManager, ActionApprove, StatusPendingHR},
		{"hr on pending finance", auth.RoleHR, ActionApprove, StatusPendingFinance},
		{"employee approve", auth.RoleEmployee, ActionApprove, StatusPendingManager},
		{"manager on approved", auth.RoleManager, ActionApprove, StatusApproved},
		{"finance on rejected", auth.RoleFinance, ActionReject, StatusRejected},
		{"unknown action", auth.RoleManager, "escalate", StatusPendingManager},
	}
	for _, c := range cases {
		if _, err := Decide(c.role, c.action, c.status); !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s: err = %v, want ErrForbidden", c.name, err)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(StatusApproved) || !Terminal(StatusRejected) {
		t.Fatal("APPROVED and REJECTED are terminal")
	}
	if Terminal(StatusPendingManager) || Terminal(StatusPendingHR) || Terminal(StatusPendingFinance) {
		t.Fatal("pending statuses are not terminal")
	}
}
