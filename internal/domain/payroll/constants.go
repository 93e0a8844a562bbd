package payroll

const (
	RunStatusDraft      = "DRAFT"
	RunStatusCalculated = "CALCULATED"
	RunStatusFinalized  = "FINALIZED"
	RunStatusPublished  = "PUBLISHED"
)
