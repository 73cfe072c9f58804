package utils

import (
	"fmt"
	"path/filepath"
	"time"

	"hackathon-portal/models"

	"github.com/jung-kurt/gofpdf"
)

// GenerateReceipt renders a payment receipt PDF into dir and returns its
// path. Callers treat receipt generation as fire-and-forget; a failure never
// touches the committed registration.
func GenerateReceipt(reg models.Registration, dir string) (string, error) {
	if reg.Payment == nil {
		return "", fmt.Errorf("registration %s has no payment", reg.CanonicalID())
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "OSS HACKATHON", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetDrawColor(139, 0, 0)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Team Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Team Name: "+reg.TeamName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Team Leader: "+reg.TeamLeaderName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Email: "+reg.TeamLeaderEmail, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Team Members", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for i, m := range reg.TeamMembers {
		pdf.CellFormat(0, 6, fmt.Sprintf("%d. %s", i+1, m.Name), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("    Reg No: %s | %s | Year %s", m.RegisterNumber, m.Department, m.Year), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Payment Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Registration ID: "+reg.CanonicalID(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Transaction ID: "+reg.Payment.TransactionID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Amount Paid: Rs.%d", reg.Payment.Amount), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+reg.Payment.Timestamp, "", 1, "L", false, 0, "")

	path := filepath.Join(dir, fmt.Sprintf("receipt_%s_%d.pdf", reg.CanonicalID(), time.Now().UnixMilli()))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
