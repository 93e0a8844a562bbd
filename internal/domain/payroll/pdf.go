package payroll

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// RenderPayslipPDF writes the fixed-layout payslip: letterhead, a two-column
// employee block, an earnings/deductions table and the net pay line.
func RenderPayslipPDF(data PayslipPDFData, filePath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Pay period: %s %d", monthName(data.Month), data.Year))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(95, 6, "Employee")
	pdf.Cell(95, 6, "Contact")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(95, 6, fmt.Sprintf("%s %s", data.FirstName, data.LastName))
	pdf.Cell(95, 6, data.Email)
	pdf.Ln(6)
	pdf.Cell(95, 6, fmt.Sprintf("Employee no: %s", data.EmployeeNumber))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(95, 7, "Earnings")
	pdf.Cell(95, 7, "Deductions")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	earnings := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Basic", data.Item.Basic},
		{"HRA", data.Item.HRA},
		{"Other allowance", data.Item.OtherAllowance},
	}
	deductions := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Provident fund", data.Item.PF},
		{"Professional tax", data.Item.PT},
	}
	rows := len(earnings)
	if len(deductions) > rows {
		rows = len(deductions)
	}
	for i := 0; i < rows; i++ {
		if i < len(earnings) {
			pdf.Cell(55, 6, earnings[i].label)
			pdf.Cell(40, 6, earnings[i].amount.StringFixed(2))
		} else {
			pdf.Cell(95, 6, "")
		}
		if i < len(deductions) {
			pdf.Cell(55, 6, deductions[i].label)
			pdf.Cell(40, 6, deductions[i].amount.StringFixed(2))
		}
		pdf.Ln(6)
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(55, 6, "Gross")
	pdf.Cell(40, 6, data.Item.Gross.StringFixed(2))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %s", data.Item.NetPay.StringFixed(2)))

	return pdf.OutputFileAndClose(filePath)
}
