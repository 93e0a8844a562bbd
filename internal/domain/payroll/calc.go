package payroll

import "github.com/shopspring/decimal"

var (
	hraRate          = decimal.NewFromFloat(0.10)
	pfRate           = decimal.NewFromFloat(0.12)
	defaultAllowance = decimal.NewFromInt(2000)
	defaultPT        = decimal.NewFromInt(200)
)

// SalaryProfile carries an employee's salary configuration. Nil components
// fall back to the standard derivation from basic.
type SalaryProfile struct {
	Basic          decimal.Decimal
	HRA            *decimal.Decimal
	OtherAllowance *decimal.Decimal
	PF             *decimal.Decimal
	PT             *decimal.Decimal
}

// ComputeLine derives a line item's amounts from the employee's salary
// profile: hra defaults to 10% of basic, pf to 12%, other allowance to a
// flat 2000 and professional tax to a flat 200.
func ComputeLine(p SalaryProfile) LineItem {
	hra := orDerived(p.HRA, p.Basic.Mul(hraRate))
	other := orDerived(p.OtherAllowance, defaultAllowance)
	pf := orDerived(p.PF, p.Basic.Mul(pfRate))
	pt := orDerived(p.PT, defaultPT)

	gross := p.Basic.Add(hra).Add(other)
	netPay := gross.Sub(pf.Add(pt))

	return LineItem{
		Basic:          p.Basic,
		HRA:            hra,
		OtherAllowance: other,
		PF:             pf,
		PT:             pt,
		Gross:          gross,
		NetPay:         netPay,
	}
}

func orDerived(override *decimal.Decimal, derived decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return derived
}
