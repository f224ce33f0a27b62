package models

// Vehicle is a catalogue entry as served by the rental API.
type Vehicle struct {
	ID           FlexID `json:"id"`
	Name         string `json:"name"`
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         int    `json:"year,omitempty"`
	Category     string `json:"category,omitempty"`
	PricePerDay  Amount `json:"pricePerDay"`
	Seats        int    `json:"seats,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	FuelType     string `json:"fuelType,omitempty"`
	Available    *bool  `json:"available,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Location     string `json:"location,omitempty"`
	PlateNumber  string `json:"plateNumber,omitempty"`
}

// IsAvailable treats a missing "available" field as available; only an
// explicit false blocks the vehicle.
func (v Vehicle) IsAvailable() bool {
	return v.Available == nil || *v.Available
}

// DisplayName prefers "Brand Model" over the free-form name.
func (v Vehicle) DisplayName() string {
	switch {
	case v.Brand != "" && v.Model != "":
		return v.Brand + " " + v.Model
	case v.Name != "":
		return v.Name
	default:
		return "Vehicle " + v.ID.String()
	}
}

// VehiclePayload is the admin create/update body.
type VehiclePayload struct {
	Name         string `json:"name" validate:"required,min=2"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year" validate:"omitempty,gte=1950,lte=2100"`
	Category     string `json:"category" validate:"required"`
	PricePerDay  int64  `json:"pricePerDay" validate:"gt=0"`
	Seats        int    `json:"seats" validate:"omitempty,gte=1,lte=60"`
	Transmission string `json:"transmission" validate:"omitempty,oneof=manual automatic"`
	FuelType     string `json:"fuelType"`
	Available    *bool  `json:"available,omitempty"`
	ImageURL     string `json:"imageUrl" validate:"omitempty,url"`
	Location     string `json:"location"`
	PlateNumber  string `json:"plateNumber"`
}

// VehicleFilter narrows catalogue listings.
type VehicleFilter struct {
	Query     string
	Category  string
	Location  string
	Available *bool
	Page      int
	PageSize  int
}
