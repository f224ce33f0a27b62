package booking

import (
	"context"
	"errors"
	"fmt"

	"rentalweb/internal/clock"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

var (
	ErrTerminal    = errors.New("booking already confirmed")
	ErrFirstStep   = errors.New("already at the first step")
	ErrWrongStep   = errors.New("step is not the current step")
	ErrNotVisited  = errors.New("step has not been visited")
	ErrNoRate      = errors.New("vehicle has no daily rate")
	ErrNoSubmitter = errors.New("no booking submitter configured")
)

// Submission is everything the booking-creation call needs.
type Submission struct {
	Vehicle  VehicleRef
	Dates    Dates
	Customer models.CustomerInfo
	Payment  PaymentInput
	Price    PriceBreakdown
}

// Submitter creates the booking once payment details are accepted. A returned
// error leaves the wizard on the payment step.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (models.Booking, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, sub Submission) (models.Booking, error)

func (f SubmitterFunc) Submit(ctx context.Context, sub Submission) (models.Booking, error) {
	return f(ctx, sub)
}

type Option func(*Controller)

// WithClock sets the clock used for the minimum driver age.
func WithClock(c clock.Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// Controller drives one booking wizard. It is not safe for concurrent use;
// callers serialise access per wizard.
type Controller struct {
	step      Step
	completed [stepCount]bool
	vehicle   VehicleRef
	draft     Draft
	clock     clock.Clock
}

// NewController starts an empty wizard on the dates step.
func NewController(vehicle VehicleRef, opts ...Option) *Controller {
	c := &Controller{
		step:    StepDates,
		vehicle: vehicle,
		clock:   clock.NewSystem(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Step() Step { return c.step }

func (c *Controller) Vehicle() VehicleRef { return c.vehicle }

// Draft returns a copy of the captured data.
func (c *Controller) Draft() Draft { return c.draft.clone() }

// Completed lists completed steps in wizard order.
func (c *Controller) Completed() []Step {
	out := make([]Step, 0, stepCount)
	for _, s := range Steps() {
		if c.completed[s] {
			out = append(out, s)
		}
	}
	return out
}

func (c *Controller) IsCompleted(s Step) bool {
	return s.Valid() && c.completed[s]
}

// Confirmed reports whether the terminal step has been reached.
func (c *Controller) Confirmed() bool {
	return c.step.Terminal() && c.draft.Confirmation != nil
}

// Price derives the breakdown from the current dates and rate. ok is false
// until both are usable.
func (c *Controller) Price() (PriceBreakdown, bool) {
	if c.draft.Dates == nil {
		return PriceBreakdown{}, false
	}
	p, err := ComputePrice(*c.draft.Dates, c.vehicle.RatePerDay)
	if err != nil {
		return PriceBreakdown{}, false
	}
	p.Currency = c.vehicle.Currency
	return p, true
}

// SetRate replaces the referenced per-day rate. The price follows on the next
// Price call.
func (c *Controller) SetRate(rate int64) error {
	if c.step.Terminal() {
		return conflict(ErrTerminal)
	}
	if rate <= 0 {
		return domain.ValidationError{Field: "pricePerDay", Msg: "must be greater than 0", Err: ErrNoRate}
	}
	c.vehicle.RatePerDay = rate
	return nil
}

// SubmitDates validates the dates form and moves on to the customer step.
// A rejected form leaves the wizard untouched.
func (c *Controller) SubmitDates(in DatesInput) error {
	if err := c.expect(StepDates); err != nil {
		return err
	}
	dates, err := ValidateDates(in)
	if err != nil {
		return err
	}
	c.draft.Dates = &dates
	c.advance()
	return nil
}

// SubmitCustomer validates the customer form and moves on to the summary.
func (c *Controller) SubmitCustomer(in CustomerInput) error {
	if err := c.expect(StepCustomer); err != nil {
		return err
	}
	customer, err := ValidateCustomer(in, c.clock.Now())
	if err != nil {
		return err
	}
	c.draft.Customer = &customer
	c.advance()
	return nil
}

// ConfirmSummary accepts the summary once a price can be derived.
func (c *Controller) ConfirmSummary() (PriceBreakdown, error) {
	if err := c.expect(StepSummary); err != nil {
		return PriceBreakdown{}, err
	}
	if c.vehicle.RatePerDay <= 0 {
		return PriceBreakdown{}, domain.ValidationError{Field: "pricePerDay", Msg: ErrNoRate.Error(), Err: ErrNoRate}
	}
	price, ok := c.Price()
	if !ok {
		return PriceBreakdown{}, domain.ValidationError{Field: "dates", Msg: "dates are incomplete"}
	}
	c.advance()
	return price, nil
}

// SubmitPayment validates the payment form and hands the booking to sub.
// Only on success does the wizard reach the confirmation step; otherwise it
// stays on payment with no confirmation recorded.
func (c *Controller) SubmitPayment(ctx context.Context, in PaymentInput, sub Submitter) error {
	if err := c.expect(StepPayment); err != nil {
		return err
	}
	if sub == nil {
		return domain.InternalError{Msg: ErrNoSubmitter.Error(), Err: ErrNoSubmitter}
	}
	payment, err := ValidatePayment(in)
	if err != nil {
		return err
	}
	if c.draft.Dates == nil || c.draft.Customer == nil {
		return domain.InternalError{Msg: "draft is missing dates or customer"}
	}
	price, ok := c.Price()
	if !ok {
		return domain.ValidationError{Field: "pricePerDay", Msg: ErrNoRate.Error(), Err: ErrNoRate}
	}

	confirmation, err := sub.Submit(ctx, Submission{
		Vehicle:  c.vehicle,
		Dates:    *c.draft.Dates,
		Customer: *c.draft.Customer,
		Payment:  payment,
		Price:    price,
	})
	if err != nil {
		if domain.IsSubmission(err) {
			return err
		}
		return domain.SubmissionError{Msg: "booking could not be created: " + err.Error(), Err: err}
	}

	details := payment.details()
	c.draft.Payment = &details
	c.draft.Confirmation = &confirmation
	c.advance()
	c.completed[StepConfirmation] = true
	return nil
}

// Back returns to the previous step without discarding anything.
func (c *Controller) Back() error {
	switch {
	case c.step.Terminal():
		return conflict(ErrTerminal)
	case c.step == StepDates:
		return conflict(ErrFirstStep)
	}
	c.step = c.step.prev()
	return nil
}

// GoTo jumps back to an earlier, already visited step. Moving forward is only
// possible by submitting the current step.
func (c *Controller) GoTo(target Step) error {
	if !target.Valid() {
		return domain.ValidationError{Field: "step", Msg: fmt.Sprintf("unknown step %d", int(target))}
	}
	if c.step.Terminal() {
		return conflict(ErrTerminal)
	}
	if target == c.step {
		return nil
	}
	if target > c.step {
		return domain.ConflictError{Resource: "wizard", Msg: fmt.Sprintf("cannot skip ahead to %s", target), Err: ErrNotVisited}
	}
	c.step = target
	return nil
}

func (c *Controller) expect(s Step) error {
	if c.step.Terminal() {
		return conflict(ErrTerminal)
	}
	if c.step != s {
		return domain.ConflictError{
			Resource: "wizard",
			Msg:      fmt.Sprintf("current step is %s, not %s", c.step, s),
			Err:      ErrWrongStep,
		}
	}
	return nil
}

func (c *Controller) advance() {
	c.completed[c.step] = true
	c.step = c.step.next()
}

func conflict(err error) error {
	return domain.ConflictError{Resource: "wizard", Msg: err.Error(), Err: err}
}
