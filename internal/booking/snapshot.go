package booking

import "fmt"

// Snapshot is the serialisable state of a Controller. Derived values such as
// the price are not part of it.
type Snapshot struct {
	Step      Step       `json:"step"`
	Completed []Step     `json:"completed"`
	Vehicle   VehicleRef `json:"vehicle"`
	Draft     Draft      `json:"draft"`
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Step:      c.step,
		Completed: c.Completed(),
		Vehicle:   c.vehicle,
		Draft:     c.draft.clone(),
	}
}

// Restore rebuilds a controller, rejecting snapshots no sequence of
// transitions could have produced.
func Restore(s Snapshot, opts ...Option) (*Controller, error) {
	if !s.Step.Valid() {
		return nil, fmt.Errorf("snapshot: invalid step %d", int(s.Step))
	}
	c := NewController(s.Vehicle, opts...)
	c.step = s.Step
	c.draft = s.Draft.clone()
	for _, done := range s.Completed {
		if !done.Valid() {
			return nil, fmt.Errorf("snapshot: invalid completed step %d", int(done))
		}
		c.completed[done] = true
	}
	// every step before the current one has been completed
	for st := StepDates; st < s.Step; st++ {
		if !c.completed[st] {
			return nil, fmt.Errorf("snapshot: step %s precedes %s but is not completed", st, s.Step)
		}
	}
	if c.completed[StepDates] && c.draft.Dates == nil {
		return nil, fmt.Errorf("snapshot: dates completed without data")
	}
	if c.completed[StepCustomer] && c.draft.Customer == nil {
		return nil, fmt.Errorf("snapshot: customer completed without data")
	}
	if s.Step.Terminal() && c.draft.Confirmation == nil {
		return nil, fmt.Errorf("snapshot: confirmation step without booking confirmation")
	}
	return c, nil
}
