package repositories

import (
	"spacify/internal/domain"
	"spacify/internal/domain/models"
)

// SpotRepository serves the static parking catalog.
type SpotRepository struct {
	Spots []models.ParkingSpot
}

// NewSpotRepository returns the catalog, falling back to DefaultSpots.
func NewSpotRepository(spots ...models.ParkingSpot) SpotRepository {
	if len(spots) == 0 {
		spots = DefaultSpots()
	}
	return SpotRepository{Spots: spots}
}

func (r SpotRepository) All() []models.ParkingSpot {
	out := make([]models.ParkingSpot, len(r.Spots))
	copy(out, r.Spots)
	return out
}

func (r SpotRepository) GetByID(id string) (models.ParkingSpot, error) {
	for _, s := range r.Spots {
		if s.ID == id {
			return s, nil
		}
	}
	return models.ParkingSpot{}, domain.NotFoundError{Resource: "parking spot"}
}

// DefaultSpots is the listing shown on the parking page.
func DefaultSpots() []models.ParkingSpot {
	return []models.ParkingSpot{
		{
			ID:             "ambience-mall",
			Name:           "Ambience Mall",
			Location:       "Sector 52, Gurgaon",
			Address:        "Ambience Island, NH-48, Sector 52, Gurgaon",
			PricePerHour:   100,
			Rating:         4.5,
			Distance:       "0.5 km",
			Availability:   models.AvailabilityAvailable,
			Features:       []string{"CCTV", "Covered", "EV Charging"},
			Coordinates:    models.Coordinates{Lat: 28.4595, Lng: 77.0266},
			TotalSpots:     200,
			AvailableSpots: 45,
			OpeningHours:   "24/7",
			Contact:        "+91 124 400 1234",
			Description:    "Covered mall parking with CCTV monitoring and EV charging bays.",
		},
		{
			ID:             "delhi-airport",
			Name:           "Delhi Airport",
			Location:       "Terminal 3 Parking",
			Address:        "Terminal 3, Indira Gandhi International Airport, New Delhi",
			PricePerHour:   150,
			Rating:         4.2,
			Distance:       "2.1 km",
			Availability:   models.AvailabilityFewSpots,
			Features:       []string{"CCTV", "Security", "24/7"},
			Coordinates:    models.Coordinates{Lat: 28.5562, Lng: 77.1000},
			TotalSpots:     500,
			AvailableSpots: 12,
			OpeningHours:   "24/7",
			Contact:        "+91 11 2565 0000",
			Description:    "Long-term terminal parking with round-the-clock security.",
		},
		{
			ID:             "anant-vihar",
			Name:           "Anant Vihar Station",
			Location:       "Delhi Metro",
			Address:        "Anand Vihar Metro Station, Delhi",
			PricePerHour:   85,
			Rating:         4.0,
			Distance:       "1.2 km",
			Availability:   models.AvailabilityAvailable,
			Features:       []string{"Metro Access", "Budget Friendly"},
			Coordinates:    models.Coordinates{Lat: 28.6139, Lng: 77.2090},
			TotalSpots:     150,
			AvailableSpots: 60,
			OpeningHours:   "06:00 - 23:00",
			Contact:        "+91 11 2341 7910",
			Description:    "Park-and-ride lot next to the metro entrance.",
		},
		{
			ID:             "cp-connaught",
			Name:           "Connaught Place",
			Location:       "Central Delhi",
			Address:        "Inner Circle, Connaught Place, New Delhi",
			PricePerHour:   120,
			Rating:         4.3,
			Distance:       "3.5 km",
			Availability:   models.AvailabilityAvailable,
			Features:       []string{"Central Location", "Shopping"},
			Coordinates:    models.Coordinates{Lat: 28.6315, Lng: 77.2167},
			TotalSpots:     300,
			AvailableSpots: 88,
			OpeningHours:   "08:00 - 22:00",
			Contact:        "+91 11 2336 0000",
			Description:    "Underground parking in the heart of the shopping district.",
		},
	}
}
