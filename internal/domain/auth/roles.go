package auth

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleHR       = "HR"
	RoleFinance  = "FINANCE"
	RoleAdmin    = "ADMIN"
)

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

var AllRoles = []string{RoleEmployee, RoleManager, RoleHR, RoleFinance, RoleAdmin}

func ValidRole(role string) bool {
	for _, candidate := range AllRoles {
		if role == candidate {
			return true
		}
	}
	return false
}
