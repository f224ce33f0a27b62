package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"rentalweb/internal/domain/models"
)

func bookingPath(id string) string {
	return "/bookings/" + url.PathEscape(strings.TrimSpace(id))
}

// CreateBooking calls POST /bookings. A non-empty idempotencyKey is sent as
// the Idempotency-Key header.
func (c *Client) CreateBooking(ctx context.Context, req models.CreateBookingRequest, idempotencyKey string) (models.Booking, error) {
	var b models.Booking
	cl := call{op: "create_booking", method: http.MethodPost, path: "/bookings", body: req, out: &b}
	if idempotencyKey != "" {
		cl.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	err := c.do(ctx, cl)
	return b, err
}

func (c *Client) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	err := c.do(ctx, call{op: "get_booking", method: http.MethodGet, path: bookingPath(id), out: &b})
	return b, err
}

func (c *Client) ListBookings(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if s := strings.TrimSpace(f.VehicleID); s != "" {
		q.Set("vehicleId", s)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("limit", strconv.Itoa(f.PageSize))
	}
	list := []models.Booking{}
	err := c.do(ctx, call{op: "list_bookings", method: http.MethodGet, path: "/bookings", query: q, out: &list})
	return list, err
}

// UpdateBookingStatus calls PATCH /bookings/{id}/status.
func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	var b models.Booking
	body := map[string]string{"status": string(status)}
	err := c.do(ctx, call{op: "update_booking_status", method: http.MethodPatch, path: bookingPath(id) + "/status", body: body, out: &b})
	return b, err
}
