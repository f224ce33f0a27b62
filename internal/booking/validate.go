package booking

import (
	"fmt"
	"time"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/validation"
)

// MinDriverAge is the youngest renter accepted by the customer step.
const MinDriverAge = 18

// MaxRentalDays is the longest rental the dates step accepts.
const MaxRentalDays = 365

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate accepts a calendar date or a local/zoned date-time.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t as a calendar date when it has no clock component.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format("2006-01-02T15:04")
}

// ValidateDates checks the dates contract: all fields present and the
// return strictly after the pickup.
func ValidateDates(in DatesInput) (Dates, error) {
	in = in.trimmed()
	fields := domain.FieldErrors{}
	if err := validation.Struct(in); err != nil {
		f, ok := domain.AsFieldErrors(err)
		if !ok {
			return Dates{}, err
		}
		fields = f
	}

	start, startOK := time.Time{}, false
	if in.StartDate != "" {
		if start, startOK = ParseDate(in.StartDate); !startOK {
			fields.Add("startDate", "must be a valid date")
		}
	}
	end, endOK := time.Time{}, false
	if in.EndDate != "" {
		if end, endOK = ParseDate(in.EndDate); !endOK {
			fields.Add("endDate", "must be a valid date")
		}
	}
	if startOK && endOK {
		switch {
		case !end.After(start):
			fields.Add("endDate", "must be after the start date")
		case end.Sub(start) > MaxRentalDays*day:
			fields.Add("endDate", fmt.Sprintf("rental cannot exceed %d days", MaxRentalDays))
		}
	}
	if err := fields.OrNil(); err != nil {
		return Dates{}, err
	}
	return Dates{
		StartDate:       start,
		EndDate:         end,
		PickupLocation:  in.PickupLocation,
		DropoffLocation: in.DropoffLocation,
	}, nil
}

// ValidateCustomer checks the customer contract. now anchors the minimum age.
func ValidateCustomer(in CustomerInput, now time.Time) (models.CustomerInfo, error) {
	in = in.trimmed()
	fields := domain.FieldErrors{}
	if err := validation.Struct(in); err != nil {
		f, ok := domain.AsFieldErrors(err)
		if !ok {
			return models.CustomerInfo{}, err
		}
		fields = f
	}

	if in.DateOfBirth != "" {
		dob, ok := ParseDate(in.DateOfBirth)
		switch {
		case !ok:
			fields.Add("dateOfBirth", "must be a valid date")
		case dob.After(now):
			fields.Add("dateOfBirth", "must be in the past")
		case ageAt(dob, now) < MinDriverAge:
			fields.Add("dateOfBirth", "renter must be at least 18 years old")
		}
	}
	if in.DriverLicenseExpiry != "" {
		if _, ok := ParseDate(in.DriverLicenseExpiry); !ok {
			fields.Add("driverLicenseExpiry", "must be a valid date")
		}
	}
	if err := fields.OrNil(); err != nil {
		return models.CustomerInfo{}, err
	}
	return models.CustomerInfo(in), nil
}

// ValidatePayment checks the payment contract for the chosen method.
func ValidatePayment(in PaymentInput) (PaymentInput, error) {
	in = in.trimmed()
	if err := validation.Struct(in); err != nil {
		return PaymentInput{}, err
	}
	return in, nil
}

func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
