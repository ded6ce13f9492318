package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	intconfig "spacify/internal/config"
	intdb "spacify/internal/db"
	"spacify/internal/domain"
	"spacify/internal/domain/models"
)

const bookingTable = "parking_bookings"

const bookingColumns = `id, user_email, spot_id, booking_date, start_time, duration_hours,
	vehicle_type, vehicle_number, payment_method, hourly_rate, total_amount, status, created_at`

// BookingRepository stores confirmed bookings in MySQL.
type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r BookingRepository) EnsureTable() error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	ddl := `
CREATE TABLE IF NOT EXISTS parking_bookings (
	id VARCHAR(36) PRIMARY KEY,
	user_email VARCHAR(255) NOT NULL,
	spot_id VARCHAR(100) NOT NULL,
	booking_date VARCHAR(10) NOT NULL,
	start_time VARCHAR(5) NOT NULL,
	duration_hours INT NOT NULL,
	vehicle_type VARCHAR(20) NOT NULL,
	vehicle_number VARCHAR(20) NOT NULL,
	payment_method VARCHAR(20) NOT NULL,
	hourly_rate BIGINT NOT NULL,
	total_amount BIGINT NOT NULL,
	status VARCHAR(20) NOT NULL,
	created_at DATETIME NOT NULL,
	KEY idx_user_email (user_email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	return intdb.EnsureTable(db, bookingTable, ddl)
}

func (r BookingRepository) Create(rec models.BookingRecord) error {
	_, err := r.db().Exec(`INSERT INTO parking_bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserEmail, rec.SpotID, rec.Date, rec.StartTime, rec.DurationHours,
		string(rec.VehicleType), strings.ToUpper(rec.VehicleNumber), string(rec.PaymentMethod),
		rec.HourlyRate, rec.TotalAmount, string(rec.Status), rec.CreatedAt.UTC(),
	)
	if err != nil {
		return domain.InternalError{Msg: "failed to save booking", Err: err}
	}
	return nil
}

func (r BookingRepository) GetByID(id string) (models.BookingRecord, error) {
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM parking_bookings WHERE id=? LIMIT 1`, id)
	rec, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BookingRecord{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.BookingRecord{}, domain.InternalError{Msg: "failed to load booking", Err: err}
	}
	return rec, nil
}

func (r BookingRepository) ListByUser(email string) ([]models.BookingRecord, error) {
	rows, err := r.db().Query(`SELECT `+bookingColumns+` FROM parking_bookings
		WHERE user_email=? ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list bookings", Err: err}
	}
	defer rows.Close()

	out := []models.BookingRecord{}
	for rows.Next() {
		rec, err := scanBooking(rows)
		if err != nil {
			return nil, domain.InternalError{Msg: "failed to read booking", Err: err}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "failed to list bookings", Err: err}
	}
	return out, nil
}

func (r BookingRepository) UpdateStatus(id string, status models.BookingStatus) error {
	res, err := r.db().Exec(`UPDATE parking_bookings SET status=? WHERE id=?`, string(status), id)
	if err != nil {
		return domain.InternalError{Msg: "failed to update booking", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (models.BookingRecord, error) {
	var (
		rec                          models.BookingRecord
		vehicleType, payment, status string
	)
	err := s.Scan(
		&rec.ID,
		&rec.UserEmail,
		&rec.SpotID,
		&rec.Date,
		&rec.StartTime,
		&rec.DurationHours,
		&vehicleType,
		&rec.VehicleNumber,
		&payment,
		&rec.HourlyRate,
		&rec.TotalAmount,
		&status,
		&rec.CreatedAt,
	)
	if err != nil {
		return models.BookingRecord{}, err
	}
	rec.VehicleType = models.VehicleType(vehicleType)
	rec.PaymentMethod = models.PaymentMethod(payment)
	rec.Status = models.BookingStatus(status)
	return rec, nil
}

// MemoryBookingRepository is the default store of the demo backend.
type MemoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]models.BookingRecord
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{bookings: map[string]models.BookingRecord{}}
}

func (r *MemoryBookingRepository) Create(rec models.BookingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[rec.ID]; ok {
		return domain.ConflictError{Resource: "booking", Msg: "id already used"}
	}
	r.bookings[rec.ID] = rec
	return nil
}

func (r *MemoryBookingRepository) GetByID(id string) (models.BookingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.bookings[id]
	if !ok {
		return models.BookingRecord{}, domain.NotFoundError{Resource: "booking"}
	}
	return rec, nil
}

func (r *MemoryBookingRepository) ListByUser(email string) ([]models.BookingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.BookingRecord{}
	for _, rec := range r.bookings {
		if rec.UserEmail == email {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryBookingRepository) UpdateStatus(id string, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.bookings[id]
	if !ok {
		return domain.NotFoundError{Resource: "booking"}
	}
	rec.Status = status
	r.bookings[id] = rec
	return nil
}
