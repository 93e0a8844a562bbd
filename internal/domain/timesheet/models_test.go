package timesheet

import "testing"

func TestHoursValidate(t *testing.T) {
	good := Hours{8, 8, 8, 8, 8, 0, 0}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid hours rejected: %v", err)
	}

	negative := Hours{8, -1, 8, 8, 8, 0, 0}
	if err := negative.Validate(); err == nil {
		t.Fatal("negative hours accepted")
	}

	tooLong := Hours{8, 8, 25, 8, 8, 0, 0}
	if err := tooLong.Validate(); err == nil {
		t.Fatal("25-hour day accepted")
	}
}

func TestHoursTotal(t *testing.T) {
	h := Hours{8, 8, 8, 8, 8, 4, 0}
	if got := h.Total(); got != 44 {
		t.Fatalf("Total() = %v, want 44", got)
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(StatusApproved) || !Terminal(StatusRejected) {
		t.Fatal("APPROVED and REJECTED are terminal")
	}
	if Terminal(StatusDraft) || Terminal(StatusSubmitted) {
		t.Fatal("DRAFT and SUBMITTED are not terminal")
	}
}
