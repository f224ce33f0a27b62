package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/booking"
	"rentalweb/internal/clock"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/metrics"
	"rentalweb/internal/repositories"
	"rentalweb/internal/utils"
)

// ErrWizardBusy is returned when another request is already working on the
// same wizard.
var ErrWizardBusy = errors.New("wizard is busy with another request")

// WizardService binds booking controllers to wizard IDs and performs the
// side effects of leaving the payment step.
type WizardService struct {
	Store        repositories.WizardRepository
	Locker       repositories.Locker
	Vehicles     VehicleAPI
	Bookings     BookingAPI
	Clock        clock.Clock
	PaymentDelay time.Duration
	Currency     string
	RequestID    string
	NewID        func() string
}

// WizardDraft is the client-facing part of the draft.
type WizardDraft struct {
	Dates    *booking.Dates          `json:"dates,omitempty"`
	Customer *models.CustomerInfo    `json:"customer,omitempty"`
	Payment  *booking.PaymentDetails `json:"payment,omitempty"`
}

// WizardView is what the wizard endpoints answer with.
type WizardView struct {
	ID                  string                  `json:"id"`
	Step                booking.Step            `json:"step"`
	Completed           []booking.Step          `json:"completed"`
	Vehicle             booking.VehicleRef      `json:"vehicle"`
	Draft               WizardDraft             `json:"draft"`
	PriceBreakdown      *booking.PriceBreakdown `json:"priceBreakdown,omitempty"`
	BookingConfirmation *models.Booking         `json:"bookingConfirmation,omitempty"`
	CreatedAt           time.Time               `json:"createdAt"`
	UpdatedAt           time.Time               `json:"updatedAt"`
}

func (s WizardService) clock() clock.Clock {
	if s.Clock != nil {
		return s.Clock
	}
	return clock.NewSystem()
}

func (s WizardService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s WizardService) apiContext(ctx context.Context, sess domain.Session) context.Context {
	ctx = apiclient.WithToken(ctx, sess.APIToken)
	return apiclient.WithRequestID(ctx, s.RequestID)
}

// Start opens a wizard for vehicleID, seeding the rate from the API.
func (s WizardService) Start(ctx context.Context, sess domain.Session, vehicleID string) (WizardView, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return WizardView{}, domain.ValidationError{Field: "vehicleId", Msg: "is required"}
	}
	v, err := s.Vehicles.GetVehicle(s.apiContext(ctx, sess), vehicleID)
	if err != nil {
		return WizardView{}, apiclient.ToDomain(err, "vehicle")
	}
	if !v.IsAvailable() {
		return WizardView{}, domain.ConflictError{Resource: "vehicle", Msg: "vehicle is not available for booking"}
	}

	ref := booking.VehicleRef{
		ID:         v.ID.String(),
		Name:       v.DisplayName(),
		RatePerDay: v.PricePerDay.Int64(),
		Currency:   s.Currency,
	}
	if ref.ID == "" {
		ref.ID = vehicleID
	}
	ctl := booking.NewController(ref, booking.WithClock(s.clock()))

	now := s.clock().Now()
	rec := repositories.WizardRecord{
		ID:        s.newID(),
		OwnerID:   sess.UserID,
		Snapshot:  ctl.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Save(ctx, rec); err != nil {
		return WizardView{}, domain.InternalError{Msg: "could not store wizard", Err: err}
	}
	metrics.WizardStarted()
	utils.LogEventf(s.RequestID, "wizard", "start", "wizard_id=%s vehicle_id=%s", rec.ID, ref.ID)
	return viewOf(rec, ctl), nil
}

// Get returns the current state of a wizard.
func (s WizardService) Get(ctx context.Context, sess domain.Session, id string) (WizardView, error) {
	rec, ctl, err := s.load(ctx, sess, id)
	if err != nil {
		return WizardView{}, err
	}
	return viewOf(rec, ctl), nil
}

func (s WizardService) SubmitDates(ctx context.Context, sess domain.Session, id string, in booking.DatesInput) (WizardView, error) {
	return s.mutate(ctx, sess, id, "submit_dates", func(_ context.Context, ctl *booking.Controller) error {
		return ctl.SubmitDates(in)
	})
}

func (s WizardService) SubmitCustomer(ctx context.Context, sess domain.Session, id string, in booking.CustomerInput) (WizardView, error) {
	return s.mutate(ctx, sess, id, "submit_customer", func(_ context.Context, ctl *booking.Controller) error {
		return ctl.SubmitCustomer(in)
	})
}

func (s WizardService) ConfirmSummary(ctx context.Context, sess domain.Session, id string) (WizardView, error) {
	return s.mutate(ctx, sess, id, "confirm_summary", func(_ context.Context, ctl *booking.Controller) error {
		_, err := ctl.ConfirmSummary()
		return err
	})
}

// SubmitPayment runs the simulated payment then creates the booking. The
// wizard ID doubles as the idempotency key of the booking POST.
func (s WizardService) SubmitPayment(ctx context.Context, sess domain.Session, id string, in booking.PaymentInput) (WizardView, error) {
	view, err := s.mutate(ctx, sess, id, "submit_payment", func(ctx context.Context, ctl *booking.Controller) error {
		return ctl.SubmitPayment(ctx, in, s.submitter(sess, id))
	})
	if err == nil && view.BookingConfirmation != nil {
		metrics.BookingCreated(string(view.BookingConfirmation.PaymentMethod))
		utils.LogEventf(s.RequestID, "wizard", "booking_created", "wizard_id=%s booking_id=%s", id, view.BookingConfirmation.ID)
	}
	return view, err
}

func (s WizardService) Back(ctx context.Context, sess domain.Session, id string) (WizardView, error) {
	return s.mutate(ctx, sess, id, "back", func(_ context.Context, ctl *booking.Controller) error {
		return ctl.Back()
	})
}

func (s WizardService) GoTo(ctx context.Context, sess domain.Session, id, step string) (WizardView, error) {
	target, err := booking.ParseStep(step)
	if err != nil {
		return WizardView{}, domain.ValidationError{Field: "step", Msg: err.Error()}
	}
	return s.mutate(ctx, sess, id, "goto", func(_ context.Context, ctl *booking.Controller) error {
		return ctl.GoTo(target)
	})
}

// RefreshRate re-reads the vehicle and updates the referenced rate. The price
// in the returned view follows the new rate.
func (s WizardService) RefreshRate(ctx context.Context, sess domain.Session, id string) (WizardView, error) {
	return s.mutate(ctx, sess, id, "refresh_rate", func(ctx context.Context, ctl *booking.Controller) error {
		v, err := s.Vehicles.GetVehicle(s.apiContext(ctx, sess), ctl.Vehicle().ID)
		if err != nil {
			return apiclient.ToDomain(err, "vehicle")
		}
		return ctl.SetRate(v.PricePerDay.Int64())
	})
}

// Abandon discards the wizard and its draft.
func (s WizardService) Abandon(ctx context.Context, sess domain.Session, id string) error {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	if _, _, err := s.load(ctx, sess, id); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return domain.InternalError{Msg: "could not delete wizard", Err: err}
	}
	utils.LogEvent(s.RequestID, "wizard", "abandon", "wizard_id="+id)
	return nil
}

// Confirmed returns the stored state of a wizard that reached confirmation.
func (s WizardService) Confirmed(ctx context.Context, sess domain.Session, id string) (WizardView, error) {
	rec, ctl, err := s.load(ctx, sess, id)
	if err != nil {
		return WizardView{}, err
	}
	if !ctl.Confirmed() {
		return WizardView{}, domain.ConflictError{Resource: "wizard", Msg: "booking is not confirmed yet", Err: booking.ErrWrongStep}
	}
	return viewOf(rec, ctl), nil
}

func (s WizardService) mutate(ctx context.Context, sess domain.Session, id, action string, fn func(context.Context, *booking.Controller) error) (WizardView, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return WizardView{}, err
	}
	defer unlock()

	rec, ctl, err := s.load(ctx, sess, id)
	if err != nil {
		return WizardView{}, err
	}
	from := ctl.Step()
	if err := fn(ctx, ctl); err != nil {
		outcome := metrics.OutcomeRejected
		if domain.IsSubmission(err) || domain.IsInternal(err) {
			outcome = metrics.OutcomeFailed
		}
		metrics.WizardTransition(from.String(), outcome)
		utils.LogEventf(s.RequestID, "wizard", action, "wizard_id=%s step=%s error=%v", id, from, err)
		return WizardView{}, err
	}

	rec.Snapshot = ctl.Snapshot()
	rec.UpdatedAt = s.clock().Now()
	if err := s.Store.Save(ctx, rec); err != nil {
		return WizardView{}, domain.InternalError{Msg: "could not store wizard", Err: err}
	}

	outcome := metrics.OutcomeAdvanced
	if ctl.Step() < from {
		outcome = metrics.OutcomeBack
	}
	metrics.WizardTransition(from.String(), outcome)
	return viewOf(rec, ctl), nil
}

func (s WizardService) lock(ctx context.Context, id string) (func(), error) {
	unlock, ok, err := s.Locker.TryLock(ctx, id)
	if err != nil {
		return nil, domain.InternalError{Msg: "could not lock wizard", Err: err}
	}
	if !ok {
		return nil, domain.ConflictError{Resource: "wizard", Msg: ErrWizardBusy.Error(), Err: ErrWizardBusy}
	}
	return unlock, nil
}

// load fetches and restores a wizard. Wizards owned by another user look
// missing rather than forbidden.
func (s WizardService) load(ctx context.Context, sess domain.Session, id string) (repositories.WizardRecord, *booking.Controller, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return repositories.WizardRecord{}, nil, domain.NotFoundError{Resource: "wizard"}
	}
	rec, err := s.Store.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return rec, nil, domain.NotFoundError{Resource: "wizard", Err: err}
	}
	if err != nil {
		return rec, nil, domain.InternalError{Msg: "could not load wizard", Err: err}
	}
	if rec.OwnerID != "" && rec.OwnerID != sess.UserID && !sess.IsAdmin() {
		return rec, nil, domain.NotFoundError{Resource: "wizard"}
	}
	ctl, err := booking.Restore(rec.Snapshot, booking.WithClock(s.clock()))
	if err != nil {
		return rec, nil, domain.InternalError{Msg: "stored wizard is corrupt", Err: err}
	}
	return rec, ctl, nil
}

func (s WizardService) submitter(sess domain.Session, wizardID string) booking.Submitter {
	return booking.SubmitterFunc(func(ctx context.Context, sub booking.Submission) (models.Booking, error) {
		if err := s.simulatePayment(ctx); err != nil {
			return models.Booking{}, err
		}
		req := models.CreateBookingRequest{
			VehicleID:       sub.Vehicle.ID,
			StartDate:       booking.FormatDate(sub.Dates.StartDate),
			EndDate:         booking.FormatDate(sub.Dates.EndDate),
			PickupLocation:  sub.Dates.PickupLocation,
			DropoffLocation: sub.Dates.DropoffLocation,
			TotalAmount:     sub.Price.Total,
			CustomerInfo:    sub.Customer,
			PaymentMethod:   sub.Payment.Method,
			PaymentStatus:   paymentStatusFor(sub.Payment.Method),
		}
		b, err := s.Bookings.CreateBooking(s.apiContext(ctx, sess), req, wizardID)
		if err != nil {
			return models.Booking{}, submissionError(err)
		}
		fillConfirmation(&b, req)
		return b, nil
	})
}

// simulatePayment waits PaymentDelay or until ctx is done.
func (s WizardService) simulatePayment(ctx context.Context) error {
	if s.PaymentDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.PaymentDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func paymentStatusFor(m models.PaymentMethod) models.PaymentStatus {
	if m == models.PaymentBankTransfer {
		return models.PaymentPending
	}
	return models.PaymentPaid
}

// submissionError turns any booking POST failure into the message shown on
// the payment step.
func submissionError(err error) error {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return domain.SubmissionError{Msg: apiErr.Message, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.SubmissionError{Msg: "payment was interrupted, please try again", Err: err}
	}
	return domain.SubmissionError{Msg: "rental API is unreachable, please try again", Err: err}
}

// fillConfirmation completes a sparse API answer with what was sent.
func fillConfirmation(b *models.Booking, req models.CreateBookingRequest) {
	if b.VehicleID == "" {
		b.VehicleID = models.FlexID(req.VehicleID)
	}
	if b.StartDate == "" {
		b.StartDate = req.StartDate
	}
	if b.EndDate == "" {
		b.EndDate = req.EndDate
	}
	if b.PickupLocation == "" {
		b.PickupLocation = req.PickupLocation
	}
	if b.DropoffLocation == "" {
		b.DropoffLocation = req.DropoffLocation
	}
	if b.TotalAmount == 0 {
		b.TotalAmount = models.Amount(req.TotalAmount)
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = req.PaymentMethod
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = req.PaymentStatus
	}
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	if b.CustomerInfo == nil {
		c := req.CustomerInfo
		b.CustomerInfo = &c
	}
}

func viewOf(rec repositories.WizardRecord, ctl *booking.Controller) WizardView {
	d := ctl.Draft()
	v := WizardView{
		ID:                  rec.ID,
		Step:                ctl.Step(),
		Completed:           ctl.Completed(),
		Vehicle:             ctl.Vehicle(),
		Draft:               WizardDraft{Dates: d.Dates, Customer: d.Customer, Payment: d.Payment},
		BookingConfirmation: d.Confirmation,
		CreatedAt:           rec.CreatedAt,
		UpdatedAt:           rec.UpdatedAt,
	}
	if p, ok := ctl.Price(); ok {
		v.PriceBreakdown = &p
	}
	return v
}
