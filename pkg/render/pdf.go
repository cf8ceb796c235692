package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// CollectionLine is one repayment row inside a loan block.
type CollectionLine struct {
	Date   string
	Amount float64
}

// FullReportLoan is the document model for one borrower in the narrative
// report. Amounts are rendered as-is and dates arrive display-formatted.
type FullReportLoan struct {
	LoanID          string
	Sno             int
	Section         string
	Area            string
	Day             string
	Name            string
	Address         string
	PhoneNumber     string
	AlternativeNo   string
	Work            string
	Guardian        string
	ReferName       string
	ReferNumber     string
	GivenAmount     float64
	Paid            float64
	Pending         float64
	InterestPercent float64
	Interest        float64
	Tamount         float64
	GivenDate       string
	LastDate        string
	AdditionalInfo  string
	VerifiedBy      string
	VerifiedByNo    string
	Collections     []CollectionLine
	TotalCollected  float64
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// FullReport lays out one block per loan: a shaded customer header, the loan
// fields in two columns, the collections history table and a collected total.
func FullReport(headerText string, loans []FullReportLoan) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Full Customer Loan Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, headerText, "", "C", false)
	pdf.Ln(6)

	for _, loan := range loans {
		// Keep the customer header away from the page bottom.
		if pdf.GetY() > 230 {
			pdf.AddPage()
		}

		pdf.SetFillColor(242, 242, 242)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7,
			fmt.Sprintf("Customer: %s (S.No: %d)", loan.Name, loan.Sno),
			"", 1, "L", true, 0, "")
		pdf.Ln(2)

		left := []string{
			fmt.Sprintf("Loan ID: %s", loan.LoanID),
			fmt.Sprintf("Area: %s", loan.Area),
			fmt.Sprintf("Address: %s", loan.Address),
			fmt.Sprintf("Alt Phone: %s", orNA(loan.AlternativeNo)),
			fmt.Sprintf("H/O / W/O: %s", orNA(loan.Guardian)),
			fmt.Sprintf("Refer Number: %s", orNA(loan.ReferNumber)),
			fmt.Sprintf("Paid: Rs. %v", loan.Paid),
			fmt.Sprintf("Interest %%: %v%%", loan.InterestPercent),
			fmt.Sprintf("Total Amount: Rs. %v", loan.Tamount),
			fmt.Sprintf("Last Date: %s", orNA(loan.LastDate)),
			fmt.Sprintf("Verified By: %s", orNA(loan.VerifiedBy)),
		}
		right := []string{
			fmt.Sprintf("Section: %s", loan.Section),
			fmt.Sprintf("Day: %s", orNA(loan.Day)),
			fmt.Sprintf("Phone: %s", loan.PhoneNumber),
			fmt.Sprintf("Work: %s", orNA(loan.Work)),
			fmt.Sprintf("Refer Name: %s", orNA(loan.ReferName)),
			fmt.Sprintf("Given Amount: Rs. %v", loan.GivenAmount),
			fmt.Sprintf("Pending: Rs. %v", loan.Pending),
			fmt.Sprintf("Interest: Rs. %v", loan.Interest),
			fmt.Sprintf("Given Date: %s", orNA(loan.GivenDate)),
			fmt.Sprintf("Additional Info: %s", orNA(loan.AdditionalInfo)),
			fmt.Sprintf("Verified No: %s", orNA(loan.VerifiedByNo)),
		}

		pdf.SetFont("Helvetica", "", 9)
		for i := 0; i < len(left); i++ {
			pdf.CellFormat(90, 5, left[i], "", 0, "L", false, 0, "")
			pdf.CellFormat(90, 5, right[i], "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "Collections History", "", 1, "L", false, 0, "")

		pdf.SetFillColor(238, 238, 238)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(20, 6, "S.No", "1", 0, "L", true, 0, "")
		pdf.CellFormat(80, 6, "Date", "1", 0, "L", true, 0, "")
		pdf.CellFormat(80, 6, "Amount", "1", 1, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for i, line := range loan.Collections {
			pdf.CellFormat(20, 6, strconv.Itoa(i+1), "1", 0, "L", false, 0, "")
			pdf.CellFormat(80, 6, line.Date, "1", 0, "L", false, 0, "")
			pdf.CellFormat(80, 6, fmt.Sprintf("Rs. %v", line.Amount), "1", 1, "L", false, 0, "")
		}

		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 6,
			fmt.Sprintf("Total Collected: Rs. %v", loan.TotalCollected),
			"", 1, "R", false, 0, "")

		pdf.Ln(3)
		pdf.SetDrawColor(204, 204, 204)
		pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
		pdf.SetDrawColor(0, 0, 0)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
