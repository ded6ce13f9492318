package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/repositories"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

func newTestBookingService(pub EventPublisher) BookingService {
	return BookingService{
		Store:  repositories.NewMemoryBookingRepository(),
		Spots:  repositories.NewSpotRepository(),
		Events: pub,
		Now:    func() time.Time { return fixedNow },
	}
}

func TestBookingServiceCreate(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestBookingService(pub)
	draft := validDraft()
	draft.DurationHours = 4

	rec, created, err := svc.Create(context.Background(), "User@Example.com", CreateBookingInput{BookingDraft: draft})
	if err != nil || !created {
		t.Fatalf("create: created=%v err=%v", created, err)
	}
	if rec.TotalAmount != 400 || rec.HourlyRate != 100 || rec.Status != models.StatusConfirmed {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.UserEmail != "user@example.com" || rec.VehicleNumber != "DL 01 AB 1234" {
		t.Fatalf("record not normalized: %+v", rec)
	}
	if len(pub.keys) != 1 || pub.keys[0] != EventBookingConfirmed {
		t.Fatalf("expected confirmed event, got %v", pub.keys)
	}

	list, _ := svc.List("user@example.com")
	if len(list) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(list))
	}
}

func TestBookingServiceCreateIsIdempotentPerID(t *testing.T) {
	svc := newTestBookingService(nil)
	in := CreateBookingInput{BookingDraft: validDraft(), ID: "7f1c0c0e-8f6b-4b53-9a53-4f4f0d7b4f11"}

	first, created, err := svc.Create(context.Background(), "user@example.com", in)
	if err != nil || !created {
		t.Fatalf("first create: %v", err)
	}
	again, created, err := svc.Create(context.Background(), "user@example.com", in)
	if err != nil || created || again.ID != first.ID {
		t.Fatalf("replay: created=%v err=%v rec=%+v", created, err, again)
	}
	if _, _, err := svc.Create(context.Background(), "other@example.com", in); !domain.IsConflict(err) {
		t.Fatalf("reusing another user's id must conflict, got %v", err)
	}
	list, _ := svc.List("user@example.com")
	if len(list) != 1 {
		t.Fatalf("expected a single booking, got %d", len(list))
	}
}

func TestBookingServiceCreateValidation(t *testing.T) {
	svc := newTestBookingService(nil)
	draft := validDraft()
	draft.SpotID = "unknown"
	draft.PaymentMethod = "cash"
	draft.VehicleNumber = "DLABCD"

	_, _, err := svc.Create(context.Background(), "user@example.com", CreateBookingInput{BookingDraft: draft, ID: "not-a-uuid"})
	var list domain.ValidationErrors
	if !errors.As(err, &list) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, f := range []string{"spotId", "paymentMethod", "vehicleNumber", "id"} {
		if list.Field(f) == "" {
			t.Errorf("missing %s error in %v", f, list)
		}
	}

	if _, _, err := svc.Create(context.Background(), "", CreateBookingInput{BookingDraft: validDraft()}); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized without email, got %v", err)
	}
}

func TestBookingServiceGetAndCancel(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestBookingService(pub)
	rec, _, err := svc.Create(ctx, "user@example.com", CreateBookingInput{BookingDraft: validDraft()})
	if err != nil {
		t.Fatalf("create must not fail when publishing fails: %v", err)
	}

	if _, err := svc.Get("other@example.com", rec.ID); !domain.IsNotFound(err) {
		t.Fatalf("other users must not see the booking, got %v", err)
	}

	cancelled, err := svc.Cancel(ctx, "user@example.com", rec.ID)
	if err != nil || cancelled.Status != models.StatusCancelled {
		t.Fatalf("cancel got %+v err=%v", cancelled, err)
	}
	stored, _ := svc.Get("user@example.com", rec.ID)
	if stored.Status != models.StatusCancelled {
		t.Fatalf("status not stored, got %s", stored.Status)
	}
	if _, err := svc.Cancel(ctx, "user@example.com", rec.ID); !domain.IsConflict(err) {
		t.Fatalf("second cancel must conflict, got %v", err)
	}
	if len(pub.keys) != 2 || pub.keys[1] != EventBookingCancelled {
		t.Fatalf("unexpected events %v", pub.keys)
	}
}
