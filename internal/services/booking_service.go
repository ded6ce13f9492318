package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/utils"

	"github.com/google/uuid"
)

// Routing keys of booking events.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingStore is implemented by the MySQL and in-memory booking repositories.
type BookingStore interface {
	Create(rec models.BookingRecord) error
	GetByID(id string) (models.BookingRecord, error)
	ListByUser(email string) ([]models.BookingRecord, error)
	UpdateStatus(id string, status models.BookingStatus) error
}

// SpotLookup resolves a spot id.
type SpotLookup interface {
	GetByID(id string) (models.ParkingSpot, error)
}

// EventPublisher delivers booking events to a broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// NoopPublisher discards events.
type NoopPublisher struct{}

func (NoopPublisher) PublishJSON(context.Context, string, any) error { return nil }

// BookingEvent is the payload published for booking lifecycle changes.
type BookingEvent struct {
	Type        string               `json:"type"`
	BookingID   string               `json:"bookingId"`
	UserEmail   string               `json:"userEmail"`
	SpotID      string               `json:"spotId"`
	Date        string               `json:"date"`
	StartTime   string               `json:"startTime"`
	Duration    int                  `json:"duration"`
	TotalAmount int64                `json:"totalAmount"`
	Status      models.BookingStatus `json:"status"`
	OccurredAt  time.Time            `json:"occurredAt"`
}

// CreateBookingInput is a booking request. ID is optional; a client that
// retries a submission sends the same ID again.
type CreateBookingInput struct {
	models.BookingDraft
	ID string `json:"id"`
}

// BookingService is the booking backend behind /api/bookings.
type BookingService struct {
	Store      BookingStore
	Spots      SpotLookup
	Events     EventPublisher
	HourlyRate int64
	Now        func() time.Time
	RequestID  string
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BookingService) rate() int64 {
	if s.HourlyRate > 0 {
		return s.HourlyRate
	}
	return models.DefaultHourlyRate
}

func (s BookingService) events() EventPublisher {
	if s.Events != nil {
		return s.Events
	}
	return NoopPublisher{}
}

// Create validates and stores a booking. created is false when the request
// replays an id the same user already booked.
func (s BookingService) Create(ctx context.Context, email string, in CreateBookingInput) (rec models.BookingRecord, created bool, err error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return models.BookingRecord{}, false, domain.AuthRejectedError{Status: 401, Msg: "Authentication required"}
	}

	var errs domain.ValidationErrors
	if err := ValidateDetails(in.BookingDraft, s.now()); err != nil {
		var list domain.ValidationErrors
		if errors.As(err, &list) {
			errs = append(errs, list...)
		}
	}
	if err := ValidatePayment(in.BookingDraft); err != nil {
		var list domain.ValidationErrors
		if errors.As(err, &list) {
			errs = append(errs, list...)
		}
	}
	if strings.TrimSpace(in.SpotID) == "" {
		errs = append(errs, domain.ValidationError{Field: "spotId", Msg: "Please select a parking spot"})
	} else if s.Spots != nil {
		if _, err := s.Spots.GetByID(in.SpotID); err != nil {
			errs = append(errs, domain.ValidationError{Field: "spotId", Msg: "Unknown parking spot"})
		}
	}

	id := strings.TrimSpace(in.ID)
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			errs = append(errs, domain.ValidationError{Field: "id", Msg: "invalid booking id"})
		}
	}
	if len(errs) > 0 {
		return models.BookingRecord{}, false, errs
	}

	if id != "" {
		existing, err := s.Store.GetByID(id)
		switch {
		case err == nil && existing.UserEmail == email:
			utils.LogEvent(s.RequestID, "booking", "create", "replayed booking_id="+id)
			return existing, false, nil
		case err == nil:
			return models.BookingRecord{}, false, domain.ConflictError{Resource: "booking", Msg: "id already used"}
		case !domain.IsNotFound(err):
			return models.BookingRecord{}, false, err
		}
	} else {
		id = uuid.NewString()
	}

	draft := in.BookingDraft
	draft.VehicleNumber = strings.ToUpper(strings.TrimSpace(draft.VehicleNumber))
	rec = models.BookingRecord{
		BookingDraft: draft,
		ID:           id,
		UserEmail:    email,
		HourlyRate:   s.rate(),
		TotalAmount:  models.TotalAmount(s.rate(), draft.DurationHours),
		CreatedAt:    s.now().UTC(),
		Status:       models.StatusConfirmed,
	}
	if err := s.Store.Create(rec); err != nil {
		return models.BookingRecord{}, false, err
	}
	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("booking_id=%s spot_id=%s total=%d", rec.ID, rec.SpotID, rec.TotalAmount))
	s.publish(ctx, EventBookingConfirmed, rec)
	return rec, true, nil
}

func (s BookingService) List(email string) ([]models.BookingRecord, error) {
	return s.Store.ListByUser(utils.NormalizeEmail(email))
}

// Get returns a booking owned by email. Bookings of other users are
// reported as not found.
func (s BookingService) Get(email, id string) (models.BookingRecord, error) {
	rec, err := s.Store.GetByID(strings.TrimSpace(id))
	if err != nil {
		return models.BookingRecord{}, err
	}
	if rec.UserEmail != utils.NormalizeEmail(email) {
		return models.BookingRecord{}, domain.NotFoundError{Resource: "booking"}
	}
	return rec, nil
}

func (s BookingService) Cancel(ctx context.Context, email, id string) (models.BookingRecord, error) {
	rec, err := s.Get(email, id)
	if err != nil {
		return models.BookingRecord{}, err
	}
	if !rec.Status.CanTransition(models.StatusCancelled) {
		return models.BookingRecord{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("cannot cancel a %s booking", rec.Status),
		}
	}
	if err := s.Store.UpdateStatus(rec.ID, models.StatusCancelled); err != nil {
		return models.BookingRecord{}, err
	}
	rec.Status = models.StatusCancelled
	utils.LogEvent(s.RequestID, "booking", "cancel", "booking_id="+rec.ID)
	s.publish(ctx, EventBookingCancelled, rec)
	return rec, nil
}

// publish failures do not fail the booking operation.
func (s BookingService) publish(ctx context.Context, key string, rec models.BookingRecord) {
	evt := BookingEvent{
		Type:        key,
		BookingID:   rec.ID,
		UserEmail:   rec.UserEmail,
		SpotID:      rec.SpotID,
		Date:        rec.Date,
		StartTime:   rec.StartTime,
		Duration:    rec.DurationHours,
		TotalAmount: rec.TotalAmount,
		Status:      rec.Status,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.events().PublishJSON(ctx, key, evt); err != nil {
		utils.LogError(s.RequestID, "booking", "publish", "routing_key="+key+" booking_id="+rec.ID, err)
	}
}
