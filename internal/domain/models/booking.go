package models

import "time"

// VehicleType is the kind of vehicle a spot is reserved for.
type VehicleType string

const (
	VehicleCar     VehicleType = "car"
	VehicleBike    VehicleType = "bike"
	VehicleVan     VehicleType = "van"
	VehicleScooter VehicleType = "scooter"
)

// VehicleTypes lists the selectable vehicle types in display order.
var VehicleTypes = []VehicleType{VehicleCar, VehicleBike, VehicleVan, VehicleScooter}

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleCar, VehicleBike, VehicleVan, VehicleScooter:
		return true
	}
	return false
}

// PaymentMethod is one of the payment options offered on the payment step.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentUPI    PaymentMethod = "upi"
	PaymentWallet PaymentMethod = "wallet"
)

var PaymentMethods = []PaymentMethod{PaymentCard, PaymentUPI, PaymentWallet}

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCard, PaymentUPI, PaymentWallet:
		return true
	}
	return false
}

// BookingStatus tracks a booking after it has been confirmed.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// CanTransition reports whether a booking may move from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case StatusConfirmed:
		return next == StatusActive || next == StatusCancelled
	case StatusActive:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// DurationOptions are the bookable durations in hours.
var DurationOptions = []int{1, 2, 3, 4, 6, 8, 12, 24}

// ValidDuration reports whether hours is one of DurationOptions.
func ValidDuration(hours int) bool {
	for _, d := range DurationOptions {
		if d == hours {
			return true
		}
	}
	return false
}

const (
	DefaultDurationHours = 2
	DefaultHourlyRate    = 100
)

// BookingDraft is the in-progress form state owned by the booking wizard.
type BookingDraft struct {
	SpotID        string        `json:"spotId"`
	Date          string        `json:"date"`
	StartTime     string        `json:"startTime"`
	DurationHours int           `json:"duration"`
	VehicleType   VehicleType   `json:"vehicleType"`
	VehicleNumber string        `json:"vehicleNumber"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// NewBookingDraft returns a draft with the form defaults.
func NewBookingDraft(spotID string) BookingDraft {
	return BookingDraft{
		SpotID:        spotID,
		DurationHours: DefaultDurationHours,
		VehicleType:   VehicleCar,
		PaymentMethod: PaymentCard,
	}
}

// BookingRecord is a completed booking as stored in the user's booking list.
type BookingRecord struct {
	BookingDraft
	ID          string        `json:"id"`
	UserEmail   string        `json:"userEmail"`
	HourlyRate  int64         `json:"hourlyRate"`
	TotalAmount int64         `json:"totalAmount"`
	CreatedAt   time.Time     `json:"createdAt"`
	Status      BookingStatus `json:"status"`
}

// TotalAmount prices a booking.
func TotalAmount(hourlyRate int64, durationHours int) int64 {
	return hourlyRate * int64(durationHours)
}
