package repositories

import (
	"database/sql"
	"testing"
	"time"

	"spacify/internal/domain"
	"spacify/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func sampleRecord(id string, created time.Time) models.BookingRecord {
	return models.BookingRecord{
		BookingDraft: models.BookingDraft{
			SpotID:        "ambience-mall",
			Date:          "2026-10-20",
			StartTime:     "10:00",
			DurationHours: 3,
			VehicleType:   models.VehicleCar,
			VehicleNumber: "dl 01 ab 1234",
			PaymentMethod: models.PaymentUPI,
		},
		ID:          id,
		UserEmail:   "user@example.com",
		HourlyRate:  100,
		TotalAmount: 300,
		CreatedAt:   created,
		Status:      models.StatusConfirmed,
	}
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_email", "spot_id", "booking_date", "start_time", "duration_hours",
		"vehicle_type", "vehicle_number", "payment_method", "hourly_rate", "total_amount", "status", "created_at",
	})
}

func TestBookingRepositoryCreateUppercasesPlate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	rec := sampleRecord("b-1", created)

	mock.ExpectExec("INSERT INTO parking_bookings").
		WithArgs("b-1", "user@example.com", "ambience-mall", "2026-10-20", "10:00", 3,
			"car", "DL 01 AB 1234", "upi", int64(100), int64(300), "confirmed", created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := (BookingRepository{DB: db}).Create(rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM parking_bookings WHERE id=").WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = (BookingRepository{DB: db}).GetByID("missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookingRepositoryListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	newer := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	mock.ExpectQuery("FROM parking_bookings").WithArgs("user@example.com").
		WillReturnRows(bookingRows().
			AddRow("b-2", "user@example.com", "cp-connaught", "2026-10-21", "09:30", 1, "bike", "DL5SAB123", "card", 100, 100, "confirmed", newer).
			AddRow("b-1", "user@example.com", "ambience-mall", "2026-10-20", "10:00", 3, "car", "DL01AB1234", "upi", 100, 300, "cancelled", older))

	list, err := (BookingRepository{DB: db}).ListByUser("user@example.com")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(list))
	}
	if list[0].ID != "b-2" || list[0].VehicleType != models.VehicleBike {
		t.Fatalf("unexpected first booking: %+v", list[0])
	}
	if list[1].Status != models.StatusCancelled || list[1].PaymentMethod != models.PaymentUPI {
		t.Fatalf("unexpected second booking: %+v", list[1])
	}
}

func TestBookingRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE parking_bookings SET status").WithArgs("cancelled", "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = (BookingRepository{DB: db}).UpdateStatus("nope", models.StatusCancelled)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryBookingRepository(t *testing.T) {
	repo := NewMemoryBookingRepository()
	base := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

	if err := repo.Create(sampleRecord("a", base)); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if err := repo.Create(sampleRecord("b", base.Add(time.Minute))); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	if err := repo.Create(sampleRecord("a", base)); !domain.IsConflict(err) {
		t.Fatalf("expected conflict on duplicate id, got %v", err)
	}

	list, _ := repo.ListByUser("user@example.com")
	if len(list) != 2 || list[0].ID != "b" {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if other, _ := repo.ListByUser("someone@else.com"); len(other) != 0 {
		t.Fatalf("expected no bookings for other user, got %d", len(other))
	}

	if err := repo.UpdateStatus("a", models.StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, err := repo.GetByID("a")
	if err != nil || got.Status != models.StatusCancelled {
		t.Fatalf("GetByID got %+v err=%v", got, err)
	}
	if _, err := repo.GetByID("zzz"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
