package repositories

import (
	"context"
	"testing"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
)

func TestMemoryUserRepositoryEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository(models.Account{ID: "1", Name: "Demo User", Email: "user@example.com"})

	acc, err := repo.GetByEmail(ctx, "USER@example.com")
	if err != nil || acc.ID != "1" {
		t.Fatalf("GetByEmail got %+v err=%v", acc, err)
	}

	err = repo.Create(ctx, models.Account{ID: "2", Email: "User@Example.com"})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "User with this email already exists" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if _, err := repo.GetByID(ctx, "1"); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := repo.GetByID(ctx, "404"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSpotRepositoryDefaults(t *testing.T) {
	repo := NewSpotRepository()
	all := repo.All()
	if len(all) != 4 {
		t.Fatalf("expected 4 spots, got %d", len(all))
	}
	all[0].Name = "mutated"
	if repo.All()[0].Name == "mutated" {
		t.Fatalf("All must return a copy")
	}

	spot, err := repo.GetByID("delhi-airport")
	if err != nil || spot.PricePerHour != 150 || spot.Availability != models.AvailabilityFewSpots {
		t.Fatalf("GetByID got %+v err=%v", spot, err)
	}
	if _, err := repo.GetByID("nowhere"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
