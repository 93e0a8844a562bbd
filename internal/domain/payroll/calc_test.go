package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestComputeLineDefaults(t *testing.T) {
	item := ComputeLine(SalaryProfile{Basic: dec(20000)})

	if !item.HRA.Equal(dec(2000)) {
		t.Fatalf("hra = %s, want 2000", item.HRA)
	}
	if !item.OtherAllowance.Equal(dec(2000)) {
		t.Fatalf("otherAllowance = %s, want 2000", item.OtherAllowance)
	}
	if !item.PF.Equal(dec(2400)) {
		t.Fatalf("pf = %s, want 2400", item.PF)
	}
	if !item.PT.Equal(dec(200)) {
		t.Fatalf("pt = %s, want 200", item.PT)
	}
	if !item.Gross.Equal(dec(24000)) {
		t.Fatalf("gross = %s, want 24000", item.Gross)
	}
	if !item.NetPay.Equal(dec(21400)) {
		t.Fatalf("netPay = %s, want 21400", item.NetPay)
	}
}

func TestComputeLineOverrides(t *testing.T) {
	item := ComputeLine(SalaryProfile{
		Basic:          dec(30000),
		HRA:            decPtr(5000),
		OtherAllowance: decPtr(1000),
		PF:             decPtr(3000),
		PT:             decPtr(300),
	})

	if !item.Gross.Equal(dec(36000)) {
		t.Fatalf("gross = %s, want 36000", item.Gross)
	}
	if !item.NetPay.Equal(dec(32700)) {
		t.Fatalf("netPay = %s, want 32700", item.NetPay)
	}
}

func TestComputeLineNetIdentity(t *testing.T) {
	item := ComputeLine(SalaryProfile{Basic: decimal.NewFromFloat(17550.50)})

	expected := item.Basic.Add(item.HRA).Add(item.OtherAllowance).Sub(item.PF.Add(item.PT))
	if !item.NetPay.Equal(expected) {
		t.Fatalf("netPay = %s, want gross - deductions = %s", item.NetPay, expected)
	}
}

func TestComputeLineExactDecimalCents(t *testing.T) {
	// 0.10 and 0.12 of a cents-bearing basic must not pick up float error.
	item := ComputeLine(SalaryProfile{Basic: decimal.NewFromFloat(10000.10)})

	if got := item.HRA.StringFixed(3); got != "1000.010" {
		t.Fatalf("hra = %s, want 1000.010", got)
	}
	if got := item.PF.StringFixed(3); got != "1200.012" {
		t.Fatalf("pf = %s, want 1200.012", got)
	}
}
