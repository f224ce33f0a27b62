package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/booking"
	"rentalweb/internal/clock"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/repositories"
)

var testNow = time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)

// fakeRentalAPI serves the handful of endpoints the wizard calls.
type fakeRentalAPI struct {
	mu          sync.Mutex
	rate        int64
	available   bool
	noFlag      bool
	failBooking string
	posts       []map[string]any
	keys        []string
	hold        chan struct{}
	entered     chan struct{}
}

func (f *fakeRentalAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/vehicles/"):
		f.mu.Lock()
		rate, avail, noFlag := f.rate, f.available, f.noFlag
		f.mu.Unlock()
		v := map[string]any{"id": 42, "brand": "Hyundai", "model": "Tucson", "pricePerDay": rate}
		if !noFlag {
			v["available"] = avail
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
	case r.Method == http.MethodPost && r.URL.Path == "/api/bookings":
		if f.entered != nil {
			f.entered <- struct{}{}
		}
		if f.hold != nil {
			<-f.hold
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.posts = append(f.posts, body)
		f.keys = append(f.keys, r.Header.Get("Idempotency-Key"))
		fail := f.failBooking
		f.mu.Unlock()
		if fail != "" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"message":"`+fail+`"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"bk-1","reference":"RW-2025-0001","status":"confirmed","totalAmount":45000}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeRentalAPI) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

func newWizardService(t *testing.T, api *fakeRentalAPI) WizardService {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL + "/api")
	if err != nil {
		t.Fatalf("api client: %v", err)
	}
	clk := clock.NewFixed(testNow)
	return WizardService{
		Store:    repositories.NewMemoryWizardRepository(time.Hour, clk),
		Locker:   repositories.NewMemoryLocker(time.Minute, clk),
		Vehicles: client,
		Bookings: client,
		Clock:    clk,
		Currency: "XOF",
	}
}

func datesForm() booking.DatesInput {
	return booking.DatesInput{
		StartDate:       "2025-09-01",
		EndDate:         "2025-09-04",
		PickupLocation:  "Dakar Plateau",
		DropoffLocation: "Aéroport AIBD",
	}
}

func customerForm() booking.CustomerInput {
	return booking.CustomerInput{
		FirstName:           "Awa",
		LastName:            "Ndiaye",
		Email:               "awa.ndiaye@example.sn",
		Phone:               "+221771234567",
		DateOfBirth:         "1990-05-20",
		Address:             "12 Rue Carnot",
		City:                "Dakar",
		DriverLicenseNumber: "SN-998877",
	}
}

func cardForm() booking.PaymentInput {
	return booking.PaymentInput{
		Method:     models.PaymentCard,
		CardNumber: "4111 1111 1111 1111",
		CardExpiry: "12/27",
		CVV:        "123",
		HolderName: "AWA NDIAYE",
	}
}

// wizardAtPayment walks a fresh wizard up to the payment step.
func wizardAtPayment(t *testing.T, svc WizardService, sess domain.Session) string {
	t.Helper()
	ctx := context.Background()
	view, err := svc.Start(ctx, sess, "42")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.SubmitDates(ctx, sess, view.ID, datesForm()); err != nil {
		t.Fatalf("dates: %v", err)
	}
	if _, err := svc.SubmitCustomer(ctx, sess, view.ID, customerForm()); err != nil {
		t.Fatalf("customer: %v", err)
	}
	if _, err := svc.ConfirmSummary(ctx, sess, view.ID); err != nil {
		t.Fatalf("summary: %v", err)
	}
	return view.ID
}

func TestWizardService_FullFlow(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true}
	svc := newWizardService(t, api)
	ctx := context.Background()
	sess := domain.Session{UserID: "u-1", Role: domain.RoleCustomer}

	id := wizardAtPayment(t, svc, sess)
	view, err := svc.Get(ctx, sess, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Step != booking.StepPayment || view.PriceBreakdown == nil || view.PriceBreakdown.Total != 45000 {
		t.Fatalf("unexpected view before payment: %+v", view)
	}

	view, err = svc.SubmitPayment(ctx, sess, id, cardForm())
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if view.Step != booking.StepConfirmation || view.BookingConfirmation == nil {
		t.Fatalf("expected confirmation, got %+v", view)
	}
	if view.BookingConfirmation.Reference != "RW-2025-0001" {
		t.Fatalf("unexpected confirmation %+v", view.BookingConfirmation)
	}

	if api.postCount() != 1 || api.keys[0] != id {
		t.Fatalf("expected one POST keyed by wizard id, got %d %v", api.postCount(), api.keys)
	}
	body := api.posts[0]
	if body["totalAmount"].(float64) != 45000 || body["paymentStatus"] != "paid" || body["vehicleId"] != "42" {
		t.Fatalf("unexpected booking body %v", body)
	}
	if body["startDate"] != "2025-09-01" || body["endDate"] != "2025-09-04" {
		t.Fatalf("unexpected booking dates %v", body)
	}

	raw, _ := json.Marshal(view)
	if strings.Contains(string(raw), "4111111111111111") || strings.Contains(string(raw), `"cvv"`) {
		t.Fatalf("card secrets leaked into view: %s", raw)
	}
	if view.Draft.Payment == nil || view.Draft.Payment.CardLast4 != "1111" {
		t.Fatalf("expected masked card, got %+v", view.Draft.Payment)
	}

	if _, err := svc.Back(ctx, sess, id); !domain.IsConflict(err) {
		t.Fatalf("expected terminal wizard to refuse back, got %v", err)
	}
}

func TestWizardService_BankTransferIsPending(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true}
	svc := newWizardService(t, api)
	sess := domain.Session{}
	id := wizardAtPayment(t, svc, sess)

	_, err := svc.SubmitPayment(context.Background(), sess, id, booking.PaymentInput{
		Method:        models.PaymentBankTransfer,
		HolderName:    "Awa Ndiaye",
		AccountNumber: "SN012 01001 000123456789 45",
	})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if api.posts[0]["paymentStatus"] != "pending" || api.posts[0]["paymentMethod"] != "bank_transfer" {
		t.Fatalf("unexpected body %v", api.posts[0])
	}
}

func TestWizardService_FailedBookingStaysOnPayment(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true, failBooking: "vehicle already booked for these dates"}
	svc := newWizardService(t, api)
	ctx := context.Background()
	sess := domain.Session{}
	id := wizardAtPayment(t, svc, sess)

	_, err := svc.SubmitPayment(ctx, sess, id, cardForm())
	if !domain.IsSubmission(err) {
		t.Fatalf("expected submission error, got %v", err)
	}
	if err.Error() != "vehicle already booked for these dates" {
		t.Fatalf("expected API message, got %q", err.Error())
	}

	view, _ := svc.Get(ctx, sess, id)
	if view.Step != booking.StepPayment || view.BookingConfirmation != nil || view.Draft.Payment != nil {
		t.Fatalf("failed submission must leave the wizard on payment: %+v", view)
	}

	api.mu.Lock()
	api.failBooking = ""
	api.mu.Unlock()
	view, err = svc.SubmitPayment(ctx, sess, id, cardForm())
	if err != nil || view.Step != booking.StepConfirmation {
		t.Fatalf("expected retry to succeed, got %v %+v", err, view)
	}
	if api.keys[0] != api.keys[1] {
		t.Fatalf("retries must reuse the idempotency key, got %v", api.keys)
	}
}

func TestWizardService_InvalidDatesAreNotStored(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true}
	svc := newWizardService(t, api)
	ctx := context.Background()
	sess := domain.Session{}
	view, _ := svc.Start(ctx, sess, "42")

	in := datesForm()
	in.EndDate = in.StartDate
	_, err := svc.SubmitDates(ctx, sess, view.ID, in)
	fields, ok := domain.AsFieldErrors(err)
	if !ok || fields["endDate"] == "" {
		t.Fatalf("expected endDate field error, got %v", err)
	}
	got, _ := svc.Get(ctx, sess, view.ID)
	if got.Step != booking.StepDates || got.Draft.Dates != nil {
		t.Fatalf("rejected dates must not be stored: %+v", got)
	}
}

func TestWizardService_BackKeepsData(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true}
	svc := newWizardService(t, api)
	ctx := context.Background()
	sess := domain.Session{}
	id := wizardAtPayment(t, svc, sess)

	view, err := svc.GoTo(ctx, sess, id, "dates")
	if err != nil {
		t.Fatalf("goto: %v", err)
	}
	if view.Step != booking.StepDates || view.Draft.Dates == nil || view.Draft.Customer == nil {
		t.Fatalf("going back must keep captured data: %+v", view)
	}
	if view.Draft.Dates.PickupLocation != "Dakar Plateau" {
		t.Fatalf("unexpected dates %+v", view.Draft.Dates)
	}
	if _, err := svc.GoTo(ctx, sess, id, "payment"); !domain.IsConflict(err) {
		t.Fatalf("expected skip-ahead to be refused, got %v", err)
	}
	if _, err := svc.GoTo(ctx, sess, id, "nowhere"); !domain.IsValidation(err) {
		t.Fatalf("expected unknown step to be a validation error, got %v", err)
	}
}

func TestWizardService_RefreshRateRecomputesPrice(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true}
	svc := newWizardService(t, api)
	ctx := context.Background()
	sess := domain.Session{}
	id := wizardAtPayment(t, svc, sess)

	api.mu.Lock()
	api.rate = 20000
	api.mu.Unlock()

	view, err := svc.RefreshRate(ctx, sess, id)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if view.Vehicle.RatePerDay != 20000 || view.PriceBreakdown.Total != 60000 {
		t.Fatalf("expected price to follow the new rate, got %+v", view.PriceBreakdown)
	}
}

func TestWizardService_Ownership(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true}
	svc := newWizardService(t, api)
	ctx := context.Background()
	owner := domain.Session{UserID: "u-1", Role: domain.RoleCustomer}
	view, _ := svc.Start(ctx, owner, "42")

	other := domain.Session{UserID: "u-2", Role: domain.RoleCustomer}
	if _, err := svc.Get(ctx, other, view.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected another user to see not found, got %v", err)
	}
	if _, err := svc.Get(ctx, domain.Session{}, view.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected anonymous visitor to see not found, got %v", err)
	}
	admin := domain.Session{UserID: "admin", Role: domain.RoleAdmin}
	if _, err := svc.Get(ctx, admin, view.ID); err != nil {
		t.Fatalf("expected admin to read the wizard, got %v", err)
	}
}

func TestWizardService_StartRejectsUnavailableVehicle(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: false}
	svc := newWizardService(t, api)
	if _, err := svc.Start(context.Background(), domain.Session{}, "42"); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := svc.Start(context.Background(), domain.Session{}, " "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWizardService_StartAcceptsVehicleWithoutAvailabilityFlag(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, noFlag: true}
	svc := newWizardService(t, api)
	view, err := svc.Start(context.Background(), domain.Session{}, "42")
	if err != nil {
		t.Fatalf("expected the wizard to start, got %v", err)
	}
	if view.Vehicle.RatePerDay != 15000 {
		t.Fatalf("unexpected vehicle %+v", view.Vehicle)
	}
}

func TestWizardService_Abandon(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true}
	svc := newWizardService(t, api)
	ctx := context.Background()
	view, _ := svc.Start(ctx, domain.Session{}, "42")

	if err := svc.Abandon(ctx, domain.Session{}, view.ID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if _, err := svc.Get(ctx, domain.Session{}, view.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected abandoned wizard to be gone, got %v", err)
	}
}

func TestWizardService_BusyWizard(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true}
	svc := newWizardService(t, api)
	ctx := context.Background()
	view, _ := svc.Start(ctx, domain.Session{}, "42")

	unlock, ok, _ := svc.Locker.TryLock(ctx, view.ID)
	if !ok {
		t.Fatalf("expected to take the lock")
	}
	_, err := svc.SubmitDates(ctx, domain.Session{}, view.ID, datesForm())
	if !errors.Is(err, ErrWizardBusy) || !domain.IsConflict(err) {
		t.Fatalf("expected busy conflict, got %v", err)
	}
	unlock()
	if _, err := svc.SubmitDates(ctx, domain.Session{}, view.ID, datesForm()); err != nil {
		t.Fatalf("expected dates after unlock, got %v", err)
	}
}

func TestWizardService_ConcurrentPaymentPostsOnce(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true}
	svc := newWizardService(t, api)
	ctx := context.Background()
	sess := domain.Session{}
	id := wizardAtPayment(t, svc, sess)

	api.hold = make(chan struct{})
	api.entered = make(chan struct{}, 2)

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.SubmitPayment(ctx, sess, id, cardForm())
		firstErr <- err
	}()
	<-api.entered

	_, err := svc.SubmitPayment(ctx, sess, id, cardForm())
	if !errors.Is(err, ErrWizardBusy) {
		t.Fatalf("expected second submit to be refused, got %v", err)
	}
	close(api.hold)
	if err := <-firstErr; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if n := api.postCount(); n != 1 {
		t.Fatalf("expected exactly one booking POST, got %d", n)
	}
}

func TestWizardService_PaymentDelayHonoursCancellation(t *testing.T) {
	api := &fakeRentalAPI{rate: 15000, available: true}
	svc := newWizardService(t, api)
	svc.PaymentDelay = time.Hour
	sess := domain.Session{}
	id := wizardAtPayment(t, svc, sess)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := svc.SubmitPayment(ctx, sess, id, cardForm())
	if !domain.IsSubmission(err) {
		t.Fatalf("expected submission error, got %v", err)
	}
	if api.postCount() != 0 {
		t.Fatalf("no booking may be posted when payment is interrupted")
	}
	view, _ := svc.Get(context.Background(), sess, id)
	if view.Step != booking.StepPayment {
		t.Fatalf("expected wizard to stay on payment, got %s", view.Step)
	}
}
