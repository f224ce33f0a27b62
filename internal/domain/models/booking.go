package models

type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentOrangeMoney  PaymentMethod = "orange_money"
	PaymentWave         PaymentMethod = "wave"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// MobileMoney reports whether the method is paid from a phone wallet.
func (m PaymentMethod) MobileMoney() bool {
	return m == PaymentOrangeMoney || m == PaymentWave
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingActive, BookingCancelled},
	BookingActive:    {BookingCompleted},
}

// CanTransition reports whether an admin may move a booking from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Known reports whether s is one of the booking statuses above.
func (s BookingStatus) Known() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingActive, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// CustomerInfo is the renter as captured by the wizard.
type CustomerInfo struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	DateOfBirth         string `json:"dateOfBirth"`
	Address             string `json:"address"`
	City                string `json:"city"`
	DriverLicenseNumber string `json:"driverLicenseNumber"`
	DriverLicenseExpiry string `json:"driverLicenseExpiry,omitempty"`
}

func (c CustomerInfo) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Booking is the API's booking record.
type Booking struct {
	ID              FlexID        `json:"id"`
	Reference       string        `json:"reference,omitempty"`
	VehicleID       FlexID        `json:"vehicleId"`
	Vehicle         *Vehicle      `json:"vehicle,omitempty"`
	StartDate       string        `json:"startDate"`
	EndDate         string        `json:"endDate"`
	PickupLocation  string        `json:"pickupLocation"`
	DropoffLocation string        `json:"dropoffLocation"`
	TotalAmount     Amount        `json:"totalAmount"`
	Status          BookingStatus `json:"status,omitempty"`
	PaymentMethod   PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentStatus   PaymentStatus `json:"paymentStatus,omitempty"`
	CustomerInfo    *CustomerInfo `json:"customerInfo,omitempty"`
	CreatedAt       string        `json:"createdAt,omitempty"`
}

// CreateBookingRequest is the POST /bookings body.
type CreateBookingRequest struct {
	VehicleID       string        `json:"vehicleId"`
	StartDate       string        `json:"startDate"`
	EndDate         string        `json:"endDate"`
	PickupLocation  string        `json:"pickupLocation"`
	DropoffLocation string        `json:"dropoffLocation"`
	TotalAmount     int64         `json:"totalAmount"`
	CustomerInfo    CustomerInfo  `json:"customerInfo"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
}

// BookingFilter narrows admin booking listings.
type BookingFilter struct {
	Status    BookingStatus
	VehicleID string
	Page      int
	PageSize  int
}
