package auth

import "testing"

func TestAdminHoldsEveryPermission(t *testing.T) {
	perms := []string{PermEmployeesWrite, PermPayrollFinalize, PermAuditRead, "made.up.permission"}
	for _, p := range perms {
		if !HasPermission(RoleAdmin, p) {
			t.Fatalf("ADMIN should hold %s", p)
		}
	}
}

func TestEmployeeCannotApprove(t *testing.T) {
	blocked := []string{PermLeaveApprove, PermTimesheetApprove, PermReimbursementResolve, PermPayrollRun, PermAuditRead}
	for _, p := range blocked {
		if HasPermission(RoleEmployee, p) {
			t.Fatalf("EMPLOYEE should not hold %s", p)
		}
	}
}

func TestManagerApprovesButCannotRunPayroll(t *testing.T) {
	if !HasPermission(RoleManager, PermLeaveApprove) {
		t.Fatal("MANAGER should hold leave.approve")
	}
	if HasPermission(RoleManager, PermPayrollRun) {
		t.Fatal("MANAGER should not hold payroll.run")
	}
}

func TestUnknownRoleHasNothing(t *testing.T) {
	if HasPermission("CONTRACTOR", PermEmployeesRead) {
		t.Fatal("unknown role should hold no permissions")
	}
}

func TestHashTokenIsStable(t *testing.T) {
	a := HashToken("session-token")
	b := HashToken("session-token")
	if a != b {
		t.Fatal("same input must hash identically")
	}
	if a == HashToken("other-token") {
		t.Fatal("distinct inputs must not collide")
	}
	if len(a) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(a))
	}
}
