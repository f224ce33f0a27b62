package services

import (
	"context"
	"sort"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/booking"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"
)

const (
	reportPageSize = 100
	// reportMaxPages bounds one analytics run to 50k rows per listing.
	reportMaxPages = 500
)

type VehicleCount struct {
	VehicleID string `json:"vehicleId"`
	Name      string `json:"name,omitempty"`
	Bookings  int    `json:"bookings"`
	Revenue   int64  `json:"revenue"`
}

// Summary is the admin analytics dashboard.
type Summary struct {
	TotalBookings     int                          `json:"totalBookings"`
	ByStatus          map[models.BookingStatus]int `json:"byStatus"`
	Revenue           int64                        `json:"revenue"`
	Currency          string                       `json:"currency,omitempty"`
	AverageRentalDays float64                      `json:"averageRentalDays"`
	TopVehicles       []VehicleCount               `json:"topVehicles"`
	FleetSize         int                          `json:"fleetSize"`
	VehiclesInUse     int                          `json:"vehiclesInUse"`
	FleetUtilisation  float64                      `json:"fleetUtilisation"`
}

type ReportsService struct {
	Bookings  BookingAPI
	Vehicles  VehicleAPI
	Currency  string
	TopN      int
	RequestID string
}

// Summary aggregates bookings and fleet state into the dashboard figures.
func (s ReportsService) Summary(ctx context.Context, sess domain.Session) (Summary, error) {
	ctx = apiclient.WithRequestID(apiclient.WithToken(ctx, sess.APIToken), s.RequestID)
	bookings, err := collectPages(s.RequestID, "bookings", func(page int) ([]models.Booking, error) {
		return s.Bookings.ListBookings(ctx, models.BookingFilter{Page: page, PageSize: reportPageSize})
	})
	if err != nil {
		return Summary{}, apiclient.ToDomain(err, "booking")
	}
	fleet, err := collectPages(s.RequestID, "vehicles", func(page int) ([]models.Vehicle, error) {
		return s.Vehicles.ListVehicles(ctx, models.VehicleFilter{Page: page, PageSize: reportPageSize})
	})
	if err != nil {
		return Summary{}, apiclient.ToDomain(err, "vehicle")
	}
	topN := s.TopN
	if topN <= 0 {
		topN = 5
	}
	out := Summarize(bookings, fleet, topN)
	out.Currency = s.Currency
	return out, nil
}

// collectPages walks a listing until a page comes back short. An API that
// ignores paging answers everything at once, which also ends the walk.
func collectPages[T any](requestID, what string, fetch func(page int) ([]T, error)) ([]T, error) {
	var all []T
	for page := 1; page <= reportMaxPages; page++ {
		items, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) != reportPageSize {
			return all, nil
		}
	}
	utils.LogEventf(requestID, "reports", "summary", "stopped reading %s after %d pages", what, reportMaxPages)
	return all, nil
}

// Summarize is the pure aggregation behind Summary. Cancelled bookings count
// towards the status totals but not towards revenue or rental days.
func Summarize(bookings []models.Booking, fleet []models.Vehicle, topN int) Summary {
	out := Summary{
		TotalBookings: len(bookings),
		ByStatus:      map[models.BookingStatus]int{},
		TopVehicles:   []VehicleCount{},
		FleetSize:     len(fleet),
	}

	names := map[string]string{}
	for _, v := range fleet {
		names[v.ID.String()] = v.DisplayName()
		if !v.IsAvailable() {
			out.VehiclesInUse++
		}
	}

	perVehicle := map[string]*VehicleCount{}
	var days, dated int
	for _, b := range bookings {
		status := b.Status
		if status == "" {
			status = models.BookingPending
		}
		out.ByStatus[status]++
		if status == models.BookingCancelled {
			continue
		}
		out.Revenue += b.TotalAmount.Int64()

		if start, ok := booking.ParseDate(b.StartDate); ok {
			if end, ok := booking.ParseDate(b.EndDate); ok && end.After(start) {
				days += booking.RentalDays(start, end)
				dated++
			}
		}

		id := b.VehicleID.String()
		if id == "" && b.Vehicle != nil {
			id = b.Vehicle.ID.String()
		}
		if id == "" {
			continue
		}
		vc, ok := perVehicle[id]
		if !ok {
			vc = &VehicleCount{VehicleID: id, Name: names[id]}
			if vc.Name == "" && b.Vehicle != nil {
				vc.Name = b.Vehicle.DisplayName()
			}
			perVehicle[id] = vc
		}
		vc.Bookings++
		vc.Revenue += b.TotalAmount.Int64()
	}

	if dated > 0 {
		out.AverageRentalDays = float64(days) / float64(dated)
	}
	if out.FleetSize > 0 {
		out.FleetUtilisation = float64(out.VehiclesInUse) / float64(out.FleetSize)
	}

	for _, vc := range perVehicle {
		out.TopVehicles = append(out.TopVehicles, *vc)
	}
	sort.Slice(out.TopVehicles, func(i, j int) bool {
		a, b := out.TopVehicles[i], out.TopVehicles[j]
		if a.Bookings != b.Bookings {
			return a.Bookings > b.Bookings
		}
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.VehicleID < b.VehicleID
	})
	if len(out.TopVehicles) > topN {
		out.TopVehicles = out.TopVehicles[:topN]
	}
	return out
}
