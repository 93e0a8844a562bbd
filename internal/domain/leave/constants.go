package leave

const (
	StatusPendingManager    = "PENDING_MANAGER"
	StatusPendingHR         = "PENDING_HR"
	StatusApproved          = "APPROVED"
	StatusRejectedByManager = "REJECTED_BY_MANAGER"
	StatusRejectedByHR      = "REJECTED_BY_HR"
	StatusRejectedByAdmin   = "REJECTED_BY_ADMIN"
)

const (
	CategoryAnnual = "ANNUAL"
	CategorySick   = "SICK"
	CategoryOther  = "OTHER"
)

const (
	ActionApply             = "APPLY"
	ActionApprove           = "approve"
	ActionReject            = "reject"
	TagApprovedByManager    = "APPROVED_BY_MANAGER"
	TagRejectedByManager    = "REJECTED_BY_MANAGER"
	TagApprovedByHR         = "APPROVED_BY_HR"
	TagRejectedByHR         = "REJECTED_BY_HR"
	TagApprovedByAdmin      = "APPROVED_BY_ADMIN"
	TagRejectedByAdmin      = "REJECTED_BY_ADMIN"
)

var Categories = []string{CategoryAnnual, CategorySick, CategoryOther}

func ValidCategory(category string) bool {
	for _, candidate := range Categories {
		if category == candidate {
			return true
		}
	}
	return false
}

// Terminal reports whether a status admits no further MANAGER/HR action.
// ADMIN bypasses this check entirely.
func Terminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejectedByManager, StatusRejectedByHR, StatusRejectedByAdmin:
		return true
	}
	return false
}
