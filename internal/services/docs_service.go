package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"rentalweb/internal/booking"
	"rentalweb/internal/clock"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"
)

// DocsService renders the PDF voucher of a confirmed wizard.
type DocsService struct {
	Wizards   WizardService
	Clock     clock.Clock
	RequestID string
	Loader    func(ctx context.Context, sess domain.Session, wizardID string) (WizardView, error)
}

// GenerateVoucher returns the PDF bytes and a download filename.
func (s DocsService) GenerateVoucher(ctx context.Context, sess domain.Session, wizardID string) ([]byte, string, error) {
	load := s.Loader
	if load == nil {
		load = s.Wizards.Confirmed
	}
	view, err := load(ctx, sess, wizardID)
	if err != nil {
		return nil, "", err
	}
	if view.BookingConfirmation == nil {
		return nil, "", domain.ConflictError{Resource: "wizard", Msg: "booking is not confirmed yet"}
	}
	clk := s.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	utils.LogEvent(s.RequestID, "docs", "generate_voucher", "wizard_id="+view.ID)
	pdf, name, err := buildVoucherPDF(view, clk.Now().Format("2006-01-02 15:04"))
	if err != nil {
		return nil, "", domain.InternalError{Msg: "could not render voucher", Err: err}
	}
	return pdf, name, nil
}

func buildVoucherPDF(v WizardView, issuedAt string) ([]byte, string, error) {
	b := v.BookingConfirmation
	ref := voucherReference(v)
	currency := v.Vehicle.Currency

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Booking voucher "+ref, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING VOUCHER")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Reference : "+ref)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Issued    : "+issuedAt)
	pdf.Ln(10)

	section(pdf, "Vehicle")
	lines := []string{
		fmt.Sprintf("Vehicle        : %s", safe(v.Vehicle.Name, "-")),
		fmt.Sprintf("Daily rate     : %s", utils.FormatAmount(v.Vehicle.RatePerDay, currency)),
	}
	if d := v.Draft.Dates; d != nil {
		lines = append(lines,
			fmt.Sprintf("Pickup         : %s, %s", booking.FormatDate(d.StartDate), safe(d.PickupLocation, "-")),
			fmt.Sprintf("Return         : %s, %s", booking.FormatDate(d.EndDate), safe(d.DropoffLocation, "-")),
		)
	} else {
		lines = append(lines,
			fmt.Sprintf("Pickup         : %s, %s", safe(b.StartDate, "-"), safe(b.PickupLocation, "-")),
			fmt.Sprintf("Return         : %s, %s", safe(b.EndDate, "-"), safe(b.DropoffLocation, "-")),
		)
	}
	writeLines(pdf, tr, lines)

	section(pdf, "Driver")
	c := v.Draft.Customer
	if c == nil {
		c = b.CustomerInfo
	}
	if c == nil {
		c = &models.CustomerInfo{}
	}
	writeLines(pdf, tr, []string{
		fmt.Sprintf("Name           : %s", safe(c.FullName(), "-")),
		fmt.Sprintf("Email          : %s", safe(c.Email, "-")),
		fmt.Sprintf("Phone          : %s", safe(c.Phone, "-")),
		fmt.Sprintf("Licence        : %s", safe(c.DriverLicenseNumber, "-")),
	})

	section(pdf, "Payment")
	writeLines(pdf, tr, []string{
		fmt.Sprintf("Method         : %s", paymentLabel(v.Draft.Payment, b.PaymentMethod)),
		fmt.Sprintf("Status         : %s", safe(string(b.PaymentStatus), "-")),
		fmt.Sprintf("Booking status : %s", safe(string(b.Status), "-")),
	})

	total := b.TotalAmount.Int64()
	if p := v.PriceBreakdown; p != nil {
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 6, fmt.Sprintf("%d day(s) x %s", p.Days, utils.FormatAmount(p.RatePerDay, currency)))
		pdf.Ln(8)
		if total == 0 {
			total = p.Total
		}
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Total: "+utils.FormatAmount(total, currency))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Please present this voucher and your driving licence when collecting the vehicle.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("VOUCHER_%s_%s.pdf", safeFilenamePart(ref), safeFilenamePart(c.LastName))
	return buf.Bytes(), filename, nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, title)
	pdf.Ln(8)
}

func writeLines(pdf *gofpdf.Fpdf, tr func(string) string, lines []string) {
	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		pdf.Cell(0, 6, tr(l))
		pdf.Ln(6)
	}
	pdf.Ln(4)
}

func voucherReference(v WizardView) string {
	b := v.BookingConfirmation
	if r := strings.TrimSpace(b.Reference); r != "" {
		return r
	}
	if id := strings.TrimSpace(b.ID.String()); id != "" {
		return "BK-" + id
	}
	return "WZ-" + v.ID
}

func paymentLabel(p *booking.PaymentDetails, method models.PaymentMethod) string {
	if p != nil {
		method = p.Method
	}
	switch method {
	case models.PaymentCard:
		if p != nil && p.CardLast4 != "" {
			return "Card **** " + p.CardLast4
		}
		return "Card"
	case models.PaymentOrangeMoney:
		return "Orange Money"
	case models.PaymentWave:
		return "Wave"
	case models.PaymentBankTransfer:
		return "Bank transfer"
	}
	return safe(string(method), "-")
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

const maxFilenamePart = 40

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if r := []rune(s); len(r) > maxFilenamePart {
		s = string(r[:maxFilenamePart])
	}
	return s
}
