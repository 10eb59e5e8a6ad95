// Package invoice turns confirmed billing records into display artifacts:
// a PDF invoice and a payment-request string. Both are pure functions of
// the record; nothing here is re-parsed by the rest of the system.
package invoice

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-pdf/fpdf"

	"smart-parking/internal/parking"
)

const timeLayout = "2006-01-02 15:04:05"

// Render produces the PDF invoice bytes for a billing record.
func Render(record parking.BillingRecord) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Parking Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	line(pdf, "Receipt", record.ID)
	line(pdf, "Vehicle", record.Vehicle)
	line(pdf, "Slot", strconv.Itoa(record.Slot))
	line(pdf, "Entry Time", record.EntryTime.Format(timeLayout))
	line(pdf, "Exit Time", record.ExitTime.Format(timeLayout))
	line(pdf, "Duration", fmt.Sprintf("%d minutes", record.Minutes))
	line(pdf, "Payment", string(record.PaymentStatus))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	line(pdf, "Amount", strconv.FormatInt(record.Amount, 10))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func line(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
}

// FileName is the download name for a rendered invoice.
func FileName(record parking.BillingRecord) string {
	return fmt.Sprintf("invoice_%s.pdf", record.Vehicle)
}

// PaymentRequest builds a UPI-style deep link for external display when a
// payee identifier is configured. Returns "" otherwise.
func PaymentRequest(payeeID string, record parking.BillingRecord) string {
	if payeeID == "" {
		return ""
	}

	q := url.Values{}
	q.Set("pa", payeeID)
	q.Set("pn", "Smart Parking")
	q.Set("am", strconv.FormatInt(record.Amount, 10))
	q.Set("tn", fmt.Sprintf("Parking %s slot %d", record.Vehicle, record.Slot))

	return "upi://pay?" + q.Encode()
}
