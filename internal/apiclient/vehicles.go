package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"rentalweb/internal/domain/models"
)

func vehiclePath(id string) string {
	return "/vehicles/" + url.PathEscape(strings.TrimSpace(id))
}

// GetVehicle calls GET /vehicles/{id}.
func (c *Client) GetVehicle(ctx context.Context, id string) (models.Vehicle, error) {
	var v models.Vehicle
	err := c.do(ctx, call{op: "get_vehicle", method: http.MethodGet, path: vehiclePath(id), out: &v})
	return v, err
}

// ListVehicles calls GET /vehicles with the filter as query parameters.
func (c *Client) ListVehicles(ctx context.Context, f models.VehicleFilter) ([]models.Vehicle, error) {
	q := url.Values{}
	if s := strings.TrimSpace(f.Query); s != "" {
		q.Set("q", s)
	}
	if s := strings.TrimSpace(f.Category); s != "" {
		q.Set("category", s)
	}
	if s := strings.TrimSpace(f.Location); s != "" {
		q.Set("location", s)
	}
	if f.Available != nil {
		q.Set("available", strconv.FormatBool(*f.Available))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("limit", strconv.Itoa(f.PageSize))
	}
	list := []models.Vehicle{}
	err := c.do(ctx, call{op: "list_vehicles", method: http.MethodGet, path: "/vehicles", query: q, out: &list})
	return list, err
}

func (c *Client) CreateVehicle(ctx context.Context, p models.VehiclePayload) (models.Vehicle, error) {
	var v models.Vehicle
	err := c.do(ctx, call{op: "create_vehicle", method: http.MethodPost, path: "/vehicles", body: p, out: &v})
	return v, err
}

func (c *Client) UpdateVehicle(ctx context.Context, id string, p models.VehiclePayload) (models.Vehicle, error) {
	var v models.Vehicle
	err := c.do(ctx, call{op: "update_vehicle", method: http.MethodPut, path: vehiclePath(id), body: p, out: &v})
	return v, err
}

// SetVehicleAvailability calls PATCH /vehicles/{id} with {"available": ...}.
func (c *Client) SetVehicleAvailability(ctx context.Context, id string, available bool) (models.Vehicle, error) {
	var v models.Vehicle
	body := map[string]bool{"available": available}
	err := c.do(ctx, call{op: "patch_vehicle", method: http.MethodPatch, path: vehiclePath(id), body: body, out: &v})
	return v, err
}

func (c *Client) DeleteVehicle(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "delete_vehicle", method: http.MethodDelete, path: vehiclePath(id)})
}
