package models

// Availability is the coarse occupancy shown on a listing card.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityFewSpots  Availability = "few-spots"
	AvailabilityFull      Availability = "full"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ParkingSpot is a bookable parking location.
type ParkingSpot struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Location       string       `json:"location"`
	Address        string       `json:"address,omitempty"`
	PricePerHour   int64        `json:"price"`
	Rating         float64      `json:"rating"`
	Distance       string       `json:"distance"`
	Availability   Availability `json:"availability"`
	Features       []string     `json:"features"`
	Coordinates    Coordinates  `json:"coordinates"`
	TotalSpots     int          `json:"totalSpots,omitempty"`
	AvailableSpots int          `json:"availableSpots,omitempty"`
	OpeningHours   string       `json:"openingHours,omitempty"`
	Contact        string       `json:"contact,omitempty"`
	Description    string       `json:"description,omitempty"`
}

// SpotFilter narrows the listing. A zero MaxPrice means no price cap.
type SpotFilter struct {
	MaxPrice    int64       `json:"maxPrice" form:"maxPrice"`
	VehicleType VehicleType `json:"vehicleType" form:"vehicleType"`
	Features    []string    `json:"features" form:"features"`
	Query       string      `json:"query" form:"query"`
}
