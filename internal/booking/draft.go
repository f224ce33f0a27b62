package booking

import (
	"strings"
	"time"

	"rentalweb/internal/domain/models"
)

// VehicleRef is the vehicle the wizard books and the per-day rate used for
// pricing.
type VehicleRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RatePerDay int64  `json:"ratePerDay"`
	Currency   string `json:"currency,omitempty"`
}

// Dates is the validated output of the dates step.
type Dates struct {
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	PickupLocation  string    `json:"pickupLocation"`
	DropoffLocation string    `json:"dropoffLocation"`
}

// PaymentDetails is what the draft keeps of the payment step. The CVV is never
// kept and card numbers are reduced to their last four digits.
type PaymentDetails struct {
	Method        models.PaymentMethod `json:"method"`
	CardLast4     string               `json:"cardLast4,omitempty"`
	CardExpiry    string               `json:"cardExpiry,omitempty"`
	HolderName    string               `json:"holderName,omitempty"`
	PhoneNumber   string               `json:"phoneNumber,omitempty"`
	AccountNumber string               `json:"accountNumber,omitempty"`
	BankName      string               `json:"bankName,omitempty"`
}

// Draft accumulates step outputs until the booking is submitted.
type Draft struct {
	Dates        *Dates               `json:"dates,omitempty"`
	Customer     *models.CustomerInfo `json:"customer,omitempty"`
	Payment      *PaymentDetails      `json:"payment,omitempty"`
	Confirmation *models.Booking      `json:"bookingConfirmation,omitempty"`
}

func (d Draft) clone() Draft {
	out := Draft{}
	if d.Dates != nil {
		v := *d.Dates
		out.Dates = &v
	}
	if d.Customer != nil {
		v := *d.Customer
		out.Customer = &v
	}
	if d.Payment != nil {
		v := *d.Payment
		out.Payment = &v
	}
	if d.Confirmation != nil {
		v := *d.Confirmation
		out.Confirmation = &v
	}
	return out
}

// DatesInput is the raw dates form.
type DatesInput struct {
	StartDate       string `json:"startDate" validate:"required"`
	EndDate         string `json:"endDate" validate:"required"`
	PickupLocation  string `json:"pickupLocation" validate:"required"`
	DropoffLocation string `json:"dropoffLocation" validate:"required"`
}

func (in DatesInput) trimmed() DatesInput {
	return DatesInput{
		StartDate:       strings.TrimSpace(in.StartDate),
		EndDate:         strings.TrimSpace(in.EndDate),
		PickupLocation:  strings.TrimSpace(in.PickupLocation),
		DropoffLocation: strings.TrimSpace(in.DropoffLocation),
	}
}

// CustomerInput is the raw customer form. Its fields mirror
// models.CustomerInfo so it converts directly.
type CustomerInput struct {
	FirstName           string `json:"firstName" validate:"required,min=2"`
	LastName            string `json:"lastName" validate:"required,min=2"`
	Email               string `json:"email" validate:"required,email"`
	Phone               string `json:"phone" validate:"required,min=8"`
	DateOfBirth         string `json:"dateOfBirth" validate:"required"`
	Address             string `json:"address" validate:"required,min=5"`
	City                string `json:"city" validate:"required"`
	DriverLicenseNumber string `json:"driverLicenseNumber" validate:"required,min=5"`
	DriverLicenseExpiry string `json:"driverLicenseExpiry"`
}

func (in CustomerInput) trimmed() CustomerInput {
	return CustomerInput{
		FirstName:           strings.TrimSpace(in.FirstName),
		LastName:            strings.TrimSpace(in.LastName),
		Email:               strings.TrimSpace(in.Email),
		Phone:               strings.TrimSpace(in.Phone),
		DateOfBirth:         strings.TrimSpace(in.DateOfBirth),
		Address:             strings.TrimSpace(in.Address),
		City:                strings.TrimSpace(in.City),
		DriverLicenseNumber: strings.TrimSpace(in.DriverLicenseNumber),
		DriverLicenseExpiry: strings.TrimSpace(in.DriverLicenseExpiry),
	}
}

// PaymentInput is the raw payment form. Which fields are required depends on
// Method.
type PaymentInput struct {
	Method        models.PaymentMethod `json:"method" validate:"required,oneof=card orange_money wave bank_transfer"`
	CardNumber    string               `json:"cardNumber" validate:"required_if=Method card"`
	CardExpiry    string               `json:"cardExpiry" validate:"required_if=Method card"`
	CVV           string               `json:"cvv" validate:"required_if=Method card"`
	HolderName    string               `json:"holderName" validate:"required_if=Method card,required_if=Method bank_transfer"`
	PhoneNumber   string               `json:"phoneNumber" validate:"required_if=Method orange_money,required_if=Method wave"`
	AccountNumber string               `json:"accountNumber" validate:"required_if=Method bank_transfer"`
	BankName      string               `json:"bankName"`
}

func (in PaymentInput) trimmed() PaymentInput {
	return PaymentInput{
		Method:        models.PaymentMethod(strings.ToLower(strings.TrimSpace(string(in.Method)))),
		CardNumber:    strings.ReplaceAll(strings.TrimSpace(in.CardNumber), " ", ""),
		CardExpiry:    strings.TrimSpace(in.CardExpiry),
		CVV:           strings.TrimSpace(in.CVV),
		HolderName:    strings.TrimSpace(in.HolderName),
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		BankName:      strings.TrimSpace(in.BankName),
	}
}

// details keeps only the fields relevant to the chosen method.
func (in PaymentInput) details() PaymentDetails {
	out := PaymentDetails{Method: in.Method}
	switch {
	case in.Method == models.PaymentCard:
		out.CardLast4 = lastN(in.CardNumber, 4)
		out.CardExpiry = in.CardExpiry
		out.HolderName = in.HolderName
	case in.Method.MobileMoney():
		out.PhoneNumber = in.PhoneNumber
	case in.Method == models.PaymentBankTransfer:
		out.HolderName = in.HolderName
		out.AccountNumber = in.AccountNumber
		out.BankName = in.BankName
	}
	return out
}

func lastN(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
