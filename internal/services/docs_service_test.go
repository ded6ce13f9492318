package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/repositories"
)

func TestDocsServiceGenerateETicket(t *testing.T) {
	spot, _ := repositories.NewSpotRepository().GetByID("ambience-mall")
	rec := models.BookingRecord{
		BookingDraft: validDraft(),
		ID:           "7f1c0c0e-8f6b-4b53-9a53-4f4f0d7b4f11",
		UserEmail:    "user@example.com",
		HourlyRate:   100,
		TotalAmount:  200,
		Status:       models.StatusConfirmed,
	}

	pdf, filename, err := DocsService{}.GenerateETicket(rec, spot)
	if err != nil {
		t.Fatalf("GenerateETicket returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if !strings.HasPrefix(filename, "ETICKET_AMB-1234-261015") || !strings.HasSuffix(filename, ".pdf") {
		t.Fatalf("unexpected filename %q", filename)
	}

	if _, _, err := (DocsService{}).GenerateETicket(models.BookingRecord{}, spot); !domain.IsValidation(err) {
		t.Fatalf("expected validation error without id, got %v", err)
	}
}

func TestTicketCode(t *testing.T) {
	rec := models.BookingRecord{BookingDraft: models.BookingDraft{
		SpotID:        "cp-connaught",
		Date:          "2026-01-20",
		VehicleNumber: "mh 12 a 9",
	}}
	if got := TicketCode(rec); got != "CPC-12A9-260120" {
		t.Fatalf("TicketCode = %q", got)
	}
	if got := TicketCode(models.BookingRecord{}); got != "SPT-NA-000000" {
		t.Fatalf("empty TicketCode = %q", got)
	}
}

func TestTicketLinesIncludeBookingTime(t *testing.T) {
	rec := models.BookingRecord{BookingDraft: validDraft(), ID: "b-1"}
	for _, l := range ticketLines(rec, models.ParkingSpot{}) {
		if strings.HasPrefix(l, "Booked At") {
			t.Fatalf("zero CreatedAt should not print a booking time: %q", l)
		}
	}

	rec.CreatedAt = time.Date(2026, 10, 15, 9, 5, 0, 0, time.Local)
	lines := ticketLines(rec, models.ParkingSpot{})
	if last := lines[len(lines)-1]; last != "Booked At      : 2026-10-15 09:05:00" {
		t.Fatalf("unexpected booking time line %q", last)
	}
}
