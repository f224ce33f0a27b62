package services

import (
	"context"

	"rentalweb/internal/domain/models"
)

// VehicleAPI is the part of the rental API that serves the fleet.
type VehicleAPI interface {
	GetVehicle(ctx context.Context, id string) (models.Vehicle, error)
	ListVehicles(ctx context.Context, f models.VehicleFilter) ([]models.Vehicle, error)
	CreateVehicle(ctx context.Context, p models.VehiclePayload) (models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, p models.VehiclePayload) (models.Vehicle, error)
	SetVehicleAvailability(ctx context.Context, id string, available bool) (models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
}

// BookingAPI is the part of the rental API that serves bookings.
type BookingAPI interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest, idempotencyKey string) (models.Booking, error)
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	ListBookings(ctx context.Context, f models.BookingFilter) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error)
}

// AccountAPI is the part of the rental API that serves accounts.
type AccountAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResult, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}
