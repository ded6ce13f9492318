package services

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/utils"

	"github.com/go-playground/validator/v10"
)

// Indian registration plates: state code, district, series, number.
var vehiclePlatePattern = regexp.MustCompile(`(?i)^[A-Z]{2}[ -]?\d{1,2}[ -]?[A-Z]{1,2}[ -]?\d{1,4}$`)

// ValidPlate reports whether s looks like a vehicle registration number.
func ValidPlate(s string) bool {
	return vehiclePlatePattern.MatchString(strings.TrimSpace(s))
}

// ValidateDetails checks the first wizard step. Every failing field is
// reported, so the caller can show all messages at once.
func ValidateDetails(d models.BookingDraft, now time.Time) error {
	var errs domain.ValidationErrors

	if strings.TrimSpace(d.Date) == "" {
		errs = append(errs, domain.ValidationError{Field: "date", Msg: "Please select a date"})
	} else if day, err := utils.ParseDate(d.Date); err != nil {
		errs = append(errs, domain.ValidationError{Field: "date", Msg: "Invalid date", Err: err})
	} else if utils.BeforeToday(day, now) {
		errs = append(errs, domain.ValidationError{Field: "date", Msg: "Date cannot be in the past"})
	}

	if strings.TrimSpace(d.StartTime) == "" {
		errs = append(errs, domain.ValidationError{Field: "startTime", Msg: "Please select a start time"})
	} else if _, err := utils.ParseClock(d.StartTime); err != nil {
		errs = append(errs, domain.ValidationError{Field: "startTime", Msg: "Invalid start time", Err: err})
	}

	if !models.ValidDuration(d.DurationHours) {
		errs = append(errs, domain.ValidationError{Field: "duration", Msg: "Please select a valid duration"})
	}
	if !d.VehicleType.Valid() {
		errs = append(errs, domain.ValidationError{Field: "vehicleType", Msg: "Please select a vehicle type"})
	}

	switch {
	case strings.TrimSpace(d.VehicleNumber) == "":
		errs = append(errs, domain.ValidationError{Field: "vehicleNumber", Msg: "Please enter vehicle number"})
	case !ValidPlate(d.VehicleNumber):
		errs = append(errs, domain.ValidationError{Field: "vehicleNumber", Msg: "Please enter a valid vehicle number"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidatePayment checks the payment step.
func ValidatePayment(d models.BookingDraft) error {
	if !d.PaymentMethod.Valid() {
		return domain.ValidationErrors{{Field: "paymentMethod", Msg: "Please select a payment method"}}
	}
	return nil
}

// RegisterInput is the signup form accepted by the backend.
type RegisterInput struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the login form accepted by the backend.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

var fieldMessages = map[string]string{
	"FullName.required": "Full name is required",
	"Email.required":    "Email is required",
	"Email.email":       "Please enter a valid email",
	"Password.required": "Password is required",
	"Password.min":      "Password must be at least 6 characters",
}

var fieldNames = map[string]string{
	"FullName": "fullName",
	"Email":    "email",
	"Phone":    "phone",
	"Password": "password",
}

// ValidateInput runs struct tag validation and converts the result into
// domain.ValidationErrors keyed by json field names.
func ValidateInput(v any) error {
	err := inputValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ValidationError{Msg: "invalid input", Err: err}
	}
	out := make(domain.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		name := fieldNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		msg := fieldMessages[fe.Field()+"."+fe.Tag()]
		if msg == "" {
			msg = "invalid " + name
		}
		out = append(out, domain.ValidationError{Field: name, Msg: msg, Err: fe})
	}
	return out
}
