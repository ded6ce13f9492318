package services

import (
	"strings"
	"sync"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/storage"
)

// BookingHistory is the durable list of bookings made on this client,
// stored as a JSON array under storage.KeyUserBookings.
type BookingHistory struct {
	Store storage.Store

	mu sync.Mutex
}

func NewBookingHistory(store storage.Store) *BookingHistory {
	return &BookingHistory{Store: store}
}

func (h *BookingHistory) List() ([]models.BookingRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

func (h *BookingHistory) load() ([]models.BookingRecord, error) {
	out := []models.BookingRecord{}
	if _, err := storage.LoadJSON(h.Store, storage.KeyUserBookings, &out); err != nil {
		return nil, domain.InternalError{Msg: "failed to read booking history", Err: err}
	}
	return out, nil
}

// Append adds rec unless a booking with the same id is already present.
func (h *BookingHistory) Append(rec models.BookingRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	list, err := h.load()
	if err != nil {
		return err
	}
	for _, existing := range list {
		if existing.ID == rec.ID {
			return nil
		}
	}
	list = append(list, rec)
	if err := storage.SaveJSON(h.Store, storage.KeyUserBookings, list); err != nil {
		return domain.InternalError{Msg: "failed to save booking history", Err: err}
	}
	return nil
}

// ListForUser filters the history by owner email.
func (h *BookingHistory) ListForUser(email string) ([]models.BookingRecord, error) {
	all, err := h.List()
	if err != nil {
		return nil, err
	}
	out := make([]models.BookingRecord, 0, len(all))
	for _, rec := range all {
		if strings.EqualFold(rec.UserEmail, email) {
			out = append(out, rec)
		}
	}
	return out, nil
}
