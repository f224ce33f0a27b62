package services

import (
	"context"
	"fmt"
	"strings"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"
	"rentalweb/internal/validation"
)

// VehicleService serves the public catalogue and the admin fleet screens.
type VehicleService struct {
	API       VehicleAPI
	RequestID string
}

func (s VehicleService) ctx(ctx context.Context, sess domain.Session) context.Context {
	return apiclient.WithRequestID(apiclient.WithToken(ctx, sess.APIToken), s.RequestID)
}

func (s VehicleService) List(ctx context.Context, sess domain.Session, f models.VehicleFilter) ([]models.Vehicle, error) {
	p := domain.Pagination{Page: f.Page, PageSize: f.PageSize}.Normalize()
	f.Page, f.PageSize = p.Page, p.PageSize
	list, err := s.API.ListVehicles(s.ctx(ctx, sess), f)
	if err != nil {
		return nil, apiclient.ToDomain(err, "vehicle")
	}
	return list, nil
}

func (s VehicleService) Get(ctx context.Context, sess domain.Session, id string) (models.Vehicle, error) {
	if strings.TrimSpace(id) == "" {
		return models.Vehicle{}, domain.ValidationError{Field: "id", Msg: "is required"}
	}
	v, err := s.API.GetVehicle(s.ctx(ctx, sess), id)
	if err != nil {
		return models.Vehicle{}, apiclient.ToDomain(err, "vehicle")
	}
	return v, nil
}

func (s VehicleService) Create(ctx context.Context, sess domain.Session, p models.VehiclePayload) (models.Vehicle, error) {
	p = trimVehicle(p)
	if err := validation.Struct(p); err != nil {
		return models.Vehicle{}, err
	}
	v, err := s.API.CreateVehicle(s.ctx(ctx, sess), p)
	if err != nil {
		return models.Vehicle{}, apiclient.ToDomain(err, "vehicle")
	}
	utils.LogEvent(s.RequestID, "vehicles", "create", fmt.Sprintf("vehicle_id=%s by=%s", v.ID, sess.UserID))
	return v, nil
}

func (s VehicleService) Update(ctx context.Context, sess domain.Session, id string, p models.VehiclePayload) (models.Vehicle, error) {
	if strings.TrimSpace(id) == "" {
		return models.Vehicle{}, domain.ValidationError{Field: "id", Msg: "is required"}
	}
	p = trimVehicle(p)
	if err := validation.Struct(p); err != nil {
		return models.Vehicle{}, err
	}
	v, err := s.API.UpdateVehicle(s.ctx(ctx, sess), id, p)
	if err != nil {
		return models.Vehicle{}, apiclient.ToDomain(err, "vehicle")
	}
	utils.LogEvent(s.RequestID, "vehicles", "update", fmt.Sprintf("vehicle_id=%s by=%s", id, sess.UserID))
	return v, nil
}

// SetAvailability is the admin quick toggle.
func (s VehicleService) SetAvailability(ctx context.Context, sess domain.Session, id string, available bool) (models.Vehicle, error) {
	v, err := s.API.SetVehicleAvailability(s.ctx(ctx, sess), id, available)
	if err != nil {
		return models.Vehicle{}, apiclient.ToDomain(err, "vehicle")
	}
	utils.LogEvent(s.RequestID, "vehicles", "availability", fmt.Sprintf("vehicle_id=%s available=%t", id, available))
	return v, nil
}

func (s VehicleService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if err := s.API.DeleteVehicle(s.ctx(ctx, sess), id); err != nil {
		return apiclient.ToDomain(err, "vehicle")
	}
	utils.LogEvent(s.RequestID, "vehicles", "delete", fmt.Sprintf("vehicle_id=%s by=%s", id, sess.UserID))
	return nil
}

func trimVehicle(p models.VehiclePayload) models.VehiclePayload {
	p.Name = strings.TrimSpace(p.Name)
	p.Brand = strings.TrimSpace(p.Brand)
	p.Model = strings.TrimSpace(p.Model)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	p.Transmission = strings.ToLower(strings.TrimSpace(p.Transmission))
	p.FuelType = strings.TrimSpace(p.FuelType)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Location = strings.TrimSpace(p.Location)
	p.PlateNumber = strings.ToUpper(strings.TrimSpace(p.PlateNumber))
	return p
}
