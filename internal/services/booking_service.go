package services

import (
	"context"
	"fmt"
	"strings"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"
)

// BookingService backs the admin bookings screen.
type BookingService struct {
	API       BookingAPI
	RequestID string
}

func (s BookingService) ctx(ctx context.Context, sess domain.Session) context.Context {
	return apiclient.WithRequestID(apiclient.WithToken(ctx, sess.APIToken), s.RequestID)
}

func (s BookingService) List(ctx context.Context, sess domain.Session, f models.BookingFilter) ([]models.Booking, error) {
	f.Status = models.BookingStatus(strings.ToLower(strings.TrimSpace(string(f.Status))))
	if f.Status != "" && !f.Status.Known() {
		return nil, domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", f.Status)}
	}
	p := domain.Pagination{Page: f.Page, PageSize: f.PageSize}.Normalize()
	f.Page, f.PageSize = p.Page, p.PageSize
	list, err := s.API.ListBookings(s.ctx(ctx, sess), f)
	if err != nil {
		return nil, apiclient.ToDomain(err, "booking")
	}
	return list, nil
}

func (s BookingService) Get(ctx context.Context, sess domain.Session, id string) (models.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "is required"}
	}
	b, err := s.API.GetBooking(s.ctx(ctx, sess), id)
	if err != nil {
		return models.Booking{}, apiclient.ToDomain(err, "booking")
	}
	return b, nil
}

// UpdateStatus moves a booking along its lifecycle. Only the transitions
// allowed by BookingStatus.CanTransition are forwarded to the API.
func (s BookingService) UpdateStatus(ctx context.Context, sess domain.Session, id string, next models.BookingStatus) (models.Booking, error) {
	next = models.BookingStatus(strings.ToLower(strings.TrimSpace(string(next))))
	if !next.Known() {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", next)}
	}
	current, err := s.Get(ctx, sess, id)
	if err != nil {
		return models.Booking{}, err
	}
	if current.Status == next {
		return current, nil
	}
	if !current.Status.CanTransition(next) {
		return models.Booking{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("cannot move booking from %s to %s", current.Status, next),
		}
	}
	b, err := s.API.UpdateBookingStatus(s.ctx(ctx, sess), id, next)
	if err != nil {
		return models.Booking{}, apiclient.ToDomain(err, "booking")
	}
	if b.Status == "" {
		b.Status = next
	}
	utils.LogEvent(s.RequestID, "bookings", "update_status",
		fmt.Sprintf("booking_id=%s from=%s to=%s by=%s", id, current.Status, next, sess.UserID))
	return b, nil
}
