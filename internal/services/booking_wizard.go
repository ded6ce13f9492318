package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/utils"

	"github.com/google/uuid"
)

// Step is the position of a BookingWizard.
type Step int

const (
	StepDetails Step = iota + 1
	StepPayment
	StepConfirm
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepPayment:
		return "payment"
	case StepConfirm:
		return "confirm"
	case StepComplete:
		return "complete"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Submitter finalizes a booking record, e.g. a payment gateway or the backend.
type Submitter interface {
	Confirm(ctx context.Context, rec models.BookingRecord) error
}

// HistoryAppender receives completed bookings.
type HistoryAppender interface {
	Append(rec models.BookingRecord) error
}

type WizardConfig struct {
	UserEmail  string
	SpotID     string
	HourlyRate int64
	Submitter  Submitter
	History    HistoryAppender
	Now        func() time.Time
	RequestID  string
}

// BookingWizard walks a draft through details, payment and confirmation.
type BookingWizard struct {
	mu         sync.Mutex
	cfg        WizardConfig
	step       Step
	draft      models.BookingDraft
	recordID   string
	createdAt  time.Time
	record     *models.BookingRecord
	submitting bool
}

func NewBookingWizard(cfg WizardConfig) *BookingWizard {
	if cfg.HourlyRate <= 0 {
		cfg.HourlyRate = models.DefaultHourlyRate
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Submitter == nil {
		cfg.Submitter = SimulatedGateway{}
	}
	return &BookingWizard{
		cfg:   cfg,
		step:  StepDetails,
		draft: models.NewBookingDraft(cfg.SpotID),
	}
}

func (w *BookingWizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the current form state.
func (w *BookingWizard) Draft() models.BookingDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// update applies fn to the draft. A changed draft is a different booking,
// so it gets a fresh id on the next submit.
func (w *BookingWizard) update(fn func(d *models.BookingDraft)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	before := w.draft
	fn(&w.draft)
	if w.draft != before && w.record == nil {
		w.recordID = ""
		w.createdAt = time.Time{}
	}
}

func (w *BookingWizard) SetSpot(id string) {
	w.update(func(d *models.BookingDraft) { d.SpotID = strings.TrimSpace(id) })
}

func (w *BookingWizard) SetDate(date string) {
	w.update(func(d *models.BookingDraft) { d.Date = strings.TrimSpace(date) })
}

func (w *BookingWizard) SetStartTime(start string) {
	w.update(func(d *models.BookingDraft) { d.StartTime = strings.TrimSpace(start) })
}

func (w *BookingWizard) SetDuration(hours int) {
	w.update(func(d *models.BookingDraft) { d.DurationHours = hours })
}

func (w *BookingWizard) SetVehicleType(v models.VehicleType) {
	w.update(func(d *models.BookingDraft) { d.VehicleType = v })
}

func (w *BookingWizard) SetVehicleNumber(number string) {
	w.update(func(d *models.BookingDraft) { d.VehicleNumber = number })
}

func (w *BookingWizard) SetPaymentMethod(p models.PaymentMethod) {
	w.update(func(d *models.BookingDraft) { d.PaymentMethod = p })
}

// Total is the price of the current draft.
func (w *BookingWizard) Total() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return models.TotalAmount(w.cfg.HourlyRate, w.draft.DurationHours)
}

// Record returns the confirmed booking once the wizard is complete.
func (w *BookingWizard) Record() (models.BookingRecord, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.record == nil {
		return models.BookingRecord{}, false
	}
	return *w.record, true
}

// Advance validates the current step and moves forward. On the confirm
// step it submits the booking.
func (w *BookingWizard) Advance(ctx context.Context) error {
	w.mu.Lock()
	step := w.step
	draft := w.draft
	now := w.cfg.Now()
	w.mu.Unlock()

	switch step {
	case StepDetails:
		if err := ValidateDetails(draft, now); err != nil {
			return err
		}
		return w.moveFrom(StepDetails, StepPayment)
	case StepPayment:
		if err := ValidatePayment(draft); err != nil {
			return err
		}
		return w.moveFrom(StepPayment, StepConfirm)
	case StepConfirm:
		return w.Submit(ctx)
	case StepComplete:
		return domain.ValidationError{Field: "step", Msg: "booking already completed"}
	default:
		return domain.InternalError{Msg: fmt.Sprintf("unknown wizard step %d", int(step))}
	}
}

func (w *BookingWizard) moveFrom(from, to Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != from {
		return domain.ConflictError{Resource: "booking wizard", Msg: "step changed concurrently"}
	}
	w.step = to
	return nil
}

// Back returns to the previous step. It is a no-op on the first step and
// once the booking is complete.
func (w *BookingWizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepPayment:
		w.step = StepDetails
	case StepConfirm:
		w.step = StepPayment
	}
}

// Submit confirms the booking and records it in the history. A failed
// attempt leaves the wizard on the confirm step with the draft untouched;
// a retry of an unchanged draft reuses the same booking id.
func (w *BookingWizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepConfirm {
		w.mu.Unlock()
		return domain.ValidationError{Field: "step", Msg: "booking is not ready to confirm"}
	}
	if w.submitting {
		w.mu.Unlock()
		return domain.ConflictError{Resource: "booking", Msg: "submission already in progress"}
	}
	if w.recordID == "" {
		w.recordID = uuid.NewString()
		w.createdAt = w.cfg.Now().UTC()
	}
	w.submitting = true
	rec := models.BookingRecord{
		BookingDraft: w.draft,
		ID:           w.recordID,
		UserEmail:    w.cfg.UserEmail,
		HourlyRate:   w.cfg.HourlyRate,
		TotalAmount:  models.TotalAmount(w.cfg.HourlyRate, w.draft.DurationHours),
		CreatedAt:    w.createdAt,
		Status:       models.StatusConfirmed,
	}
	rec.VehicleNumber = strings.ToUpper(strings.TrimSpace(rec.VehicleNumber))
	w.mu.Unlock()

	err := w.cfg.Submitter.Confirm(ctx, rec)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		utils.LogError(w.cfg.RequestID, "booking", "submit", "booking_id="+rec.ID, err)
		return domain.SubmissionError{Err: err}
	}

	if w.cfg.History != nil {
		if herr := w.cfg.History.Append(rec); herr != nil {
			utils.LogError(w.cfg.RequestID, "booking", "history_append", "booking_id="+rec.ID, herr)
			return domain.SubmissionError{Err: fmt.Errorf("save booking: %w", herr)}
		}
	}
	w.record = &rec
	w.step = StepComplete
	utils.LogEvent(w.cfg.RequestID, "booking", "submit", fmt.Sprintf("booking_id=%s total=%d", rec.ID, rec.TotalAmount))
	return nil
}

// SimulatedGateway completes after a fixed delay. Fail, when set, decides
// the outcome of each attempt.
type SimulatedGateway struct {
	Delay time.Duration
	Fail  func(rec models.BookingRecord) error
}

func (g SimulatedGateway) Confirm(ctx context.Context, rec models.BookingRecord) error {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	if g.Fail != nil {
		return g.Fail(rec)
	}
	return nil
}

// BookingCreator is the part of the API client used to submit bookings.
type BookingCreator interface {
	CreateBooking(ctx context.Context, rec models.BookingRecord) (models.BookingRecord, error)
}

// RemoteSubmitter posts the booking to the backend.
type RemoteSubmitter struct {
	API BookingCreator
}

func (s RemoteSubmitter) Confirm(ctx context.Context, rec models.BookingRecord) error {
	if s.API == nil {
		return domain.InternalError{Msg: "booking api not configured"}
	}
	_, err := s.API.CreateBooking(ctx, rec)
	return err
}
