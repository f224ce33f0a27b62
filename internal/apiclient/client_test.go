package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestGetVehicle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/vehicles/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected bearer token, got %q", got)
		}
		_, _ = io.WriteString(w, `{"data":{"id":42,"name":"Hyundai Tucson","pricePerDay":"15000.0","available":true}}`)
	})

	ctx := WithToken(context.Background(), "tok-1")
	v, err := c.GetVehicle(ctx, "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID != "42" || v.PricePerDay != 15000 || !v.IsAvailable() {
		t.Fatalf("unexpected vehicle %+v", v)
	}
}

func TestListVehiclesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "suv" || q.Get("available") != "true" || q.Get("location") != "Dakar" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `[{"id":"a","name":"A","pricePerDay":10000},{"id":"b","name":"B","pricePerDay":12000}]`)
	})
	avail := true
	list, err := c.ListVehicles(context.Background(), models.VehicleFilter{Category: "suv", Location: "Dakar", Available: &avail})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[1].PricePerDay != 12000 {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestCreateBooking(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/bookings" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "wiz-1" {
			t.Errorf("expected idempotency key, got %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		for _, k := range []string{"vehicleId", "startDate", "endDate", "pickupLocation", "dropoffLocation", "totalAmount", "customerInfo", "paymentMethod", "paymentStatus"} {
			if _, ok := body[k]; !ok {
				t.Errorf("missing %s in body", k)
			}
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"bk-1","reference":"RW-1","status":"pending","totalAmount":45000}`)
	})

	b, err := c.CreateBooking(context.Background(), models.CreateBookingRequest{
		VehicleID:     "42",
		StartDate:     "2025-09-01",
		EndDate:       "2025-09-04",
		TotalAmount:   45000,
		PaymentMethod: models.PaymentWave,
		PaymentStatus: models.PaymentPaid,
	}, "wiz-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID != "bk-1" || b.TotalAmount != 45000 {
		t.Fatalf("unexpected booking %+v", b)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message":"vehicle is not available for these dates"}`)
	})

	_, err := c.CreateBooking(context.Background(), models.CreateBookingRequest{}, "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Message != "vehicle is not available for these dates" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if !domain.IsValidation(ToDomain(err, "booking")) {
		t.Fatalf("expected 422 to map to a validation error")
	}
}

func TestToDomain(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", &APIError{Status: 404, Message: "x"}, domain.IsNotFound},
		{"conflict", &APIError{Status: 409, Message: "x"}, domain.IsConflict},
		{"unauthorized", &APIError{Status: 401, Message: "x"}, domain.IsUnauthorized},
		{"server error", &APIError{Status: 500, Message: "boom"}, domain.IsSubmission},
		{"network", errors.New("dial tcp: connection refused"), domain.IsSubmission},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToDomain(tc.err, "vehicle"); !tc.check(got) {
				t.Fatalf("unexpected mapping %T: %v", got, got)
			}
		})
	}
}

func TestErrorWithoutMessageFallsBackToStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `<html>bad gateway</html>`)
	})
	_, err := c.GetVehicle(context.Background(), "1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestObserver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var ops []string
	var statuses []int
	c, err := New(srv.URL, WithObserver(func(op string, status int, _ time.Duration) {
		ops = append(ops, op)
		statuses = append(statuses, status)
	}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := c.DeleteVehicle(context.Background(), "7"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(ops) != 1 || ops[0] != "delete_vehicle" || statuses[0] != http.StatusNoContent {
		t.Fatalf("unexpected observations %v %v", ops, statuses)
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	if _, err := New("ftp://example.com"); err == nil {
		t.Fatalf("expected scheme error")
	}
	c, err := New("")
	if err != nil || c.base.String() != DefaultBaseURL {
		t.Fatalf("expected default base url, got %v %v", c, err)
	}
}
