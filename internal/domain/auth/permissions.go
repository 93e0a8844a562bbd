package auth

const (
	PermEmployeesRead        = "core.employees.read"
	PermEmployeesWrite       = "core.employees.write"
	PermAttendanceRead       = "attendance.read"
	PermAttendanceWrite      = "attendance.write"
	PermLeaveRead            = "leave.read"
	PermLeaveWrite           = "leave.write"
	PermLeaveApprove         = "leave.approve"
	PermTimesheetRead        = "timesheet.read"
	PermTimesheetWrite       = "timesheet.write"
	PermTimesheetApprove     = "timesheet.approve"
	PermReimbursementRead    = "reimbursement.read"
	PermReimbursementWrite   = "reimbursement.write"
	PermReimbursementResolve = "reimbursement.resolve"
	PermPayrollRead          = "payroll.read"
	PermPayrollRun           = "payroll.run"
	PermPayrollFinalize      = "payroll.finalize"
	PermReportsRead          = "reports.read"
	PermAuditRead            = "audit.read"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermTimesheetRead,
		PermTimesheetWrite,
		PermReimbursementRead,
		PermReimbursementWrite,
		PermPayrollRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermTimesheetRead,
		PermTimesheetWrite,
		PermTimesheetApprove,
		PermReimbursementRead,
		PermReimbursementWrite,
		PermReimbursementResolve,
		PermPayrollRead,
		PermReportsRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermTimesheetRead,
		PermTimesheetApprove,
		PermReimbursementRead,
		PermReimbursementResolve,
		PermPayrollRead,
		PermPayrollRun,
		PermPayrollFinalize,
		PermReportsRead,
		PermAuditRead,
	},
	RoleFinance: {
		PermEmployeesRead,
		PermReimbursementRead,
		PermReimbursementResolve,
		PermPayrollRead,
		PermPayrollFinalize,
		PermReportsRead,
	},
}

// HasPermission checks the static role grant table. ADMIN holds every
// permission implicitly.
func HasPermission(role, permission string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}
