package services

import (
	"strings"
	"unicode/utf16"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/utils"
)

// SpotCatalog is the source of parking listings.
type SpotCatalog interface {
	All() []models.ParkingSpot
	GetByID(id string) (models.ParkingSpot, error)
}

type SpotService struct {
	Catalog SpotCatalog
}

// List applies filter to the catalog, keeping catalog order.
func (s SpotService) List(filter models.SpotFilter) ([]models.ParkingSpot, error) {
	if filter.MaxPrice < 0 {
		return nil, domain.ValidationError{Field: "maxPrice", Msg: "must not be negative"}
	}
	if filter.VehicleType != "" && !filter.VehicleType.Valid() {
		return nil, domain.ValidationError{Field: "vehicleType", Msg: "unknown vehicle type"}
	}
	out := []models.ParkingSpot{}
	for _, spot := range s.Catalog.All() {
		if matchesFilter(spot, filter) {
			out = append(out, spot)
		}
	}
	return out, nil
}

// Search is List narrowed by a free-text query on name, location and address.
func (s SpotService) Search(query string, filter models.SpotFilter) ([]models.ParkingSpot, error) {
	filter.Query = query
	return s.List(filter)
}

func (s SpotService) Get(id string) (models.ParkingSpot, error) {
	return s.Catalog.GetByID(strings.TrimSpace(id))
}

// Similar returns up to n other spots.
func (s SpotService) Similar(id string, n int) []models.ParkingSpot {
	out := []models.ParkingSpot{}
	for _, spot := range s.Catalog.All() {
		if len(out) >= n {
			break
		}
		if spot.ID != id {
			out = append(out, spot)
		}
	}
	return out
}

func matchesFilter(spot models.ParkingSpot, f models.SpotFilter) bool {
	if f.MaxPrice > 0 && spot.PricePerHour > f.MaxPrice {
		return false
	}
	if len(f.Features) > 0 && !hasAnyFeature(spot, f.Features) {
		return false
	}
	q := utils.NormalizeSpace(f.Query)
	if q != "" &&
		!utils.ContainsFold(spot.Name, q) &&
		!utils.ContainsFold(spot.Location, q) &&
		!utils.ContainsFold(spot.Address, q) {
		return false
	}
	return true
}

func hasAnyFeature(spot models.ParkingSpot, wanted []string) bool {
	for _, w := range wanted {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		for _, have := range spot.Features {
			if utils.ContainsFold(have, w) {
				return true
			}
		}
	}
	return false
}

// ReviewCount derives a stable pseudo review count in [50, 150) from a spot id.
func ReviewCount(spotID string) int {
	var h int32
	for _, c := range utf16.Encode([]rune(spotID)) {
		h = (h << 5) - h + int32(c)
	}
	r := int(h % 100)
	if r < 0 {
		r = -r
	}
	return r + 50
}
