package services

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking documents as PDF.
type DocsService struct {
	RequestID string
}

// GenerateETicket renders the confirmation ticket shown at the entrance.
func (s DocsService) GenerateETicket(rec models.BookingRecord, spot models.ParkingSpot) ([]byte, string, error) {
	if rec.ID == "" {
		return nil, "", domain.ValidationError{Field: "id", Msg: "booking id is required"}
	}
	pdf, err := buildETicketPDF(rec, spot)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render ticket", Err: err}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "booking_id="+rec.ID)
	filename := fmt.Sprintf("ETICKET_%s_%s.pdf", safeFilenamePart(TicketCode(rec)), safeFilenamePart(shortID(rec.ID)))
	return pdf, filename, nil
}

// TicketCode is the entrance code: spot prefix, plate suffix and booking
// date, e.g. "AMB-1234-261020".
func TicketCode(rec models.BookingRecord) string {
	spot := alnumUpper(rec.SpotID)
	if len(spot) > 3 {
		spot = spot[:3]
	}
	plate := alnumUpper(rec.VehicleNumber)
	if len(plate) > 4 {
		plate = plate[len(plate)-4:]
	}
	day := strings.ReplaceAll(dateOnly(rec.Date), "-", "")
	if len(day) == 8 {
		day = day[2:]
	}
	return strings.Join([]string{safe(spot, "SPT"), safe(plate, "NA"), safe(day, "000000")}, "-")
}

func buildETicketPDF(rec models.BookingRecord, spot models.ParkingSpot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Parking E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PARKING E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	for _, s := range ticketLines(rec, spot) {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Entrance code: "+TicketCode(rec))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Show this code at the entrance. Valid only for the date and time above.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ticketLines(rec models.BookingRecord, spot models.ParkingSpot) []string {
	lines := []string{
		fmt.Sprintf("Booking ID     : %s", rec.ID),
		fmt.Sprintf("Parking Spot   : %s", safe(spot.Name, rec.SpotID)),
		fmt.Sprintf("Location       : %s", safe(spot.Location, "-")),
		fmt.Sprintf("Date           : %s", safe(dateOnly(rec.Date), "-")),
		fmt.Sprintf("Start Time     : %s", safe(timeHM(rec.StartTime), "-")),
		fmt.Sprintf("Duration       : %d hour(s)", rec.DurationHours),
		fmt.Sprintf("Vehicle        : %s (%s)", safe(strings.ToUpper(rec.VehicleNumber), "-"), rec.VehicleType),
		fmt.Sprintf("Payment        : %s", strings.ToUpper(string(rec.PaymentMethod))),
		fmt.Sprintf("Rate           : %s / hour", utils.FormatRupeeASCII(rec.HourlyRate)),
		fmt.Sprintf("Total          : %s", utils.FormatRupeeASCII(rec.TotalAmount)),
		fmt.Sprintf("Status         : %s", rec.Status),
	}
	if !rec.CreatedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("Booked At      : %s", utils.FormatDateTime(rec.CreatedAt)))
	}
	return lines
}

func alnumUpper(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func dateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

func timeHM(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 5 {
		return v[:5]
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
