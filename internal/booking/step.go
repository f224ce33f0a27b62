package booking

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Step is one stage of the booking wizard. Steps are ordered; the zero value
// is the first step.
type Step int

const (
	StepDates Step = iota
	StepCustomer
	StepSummary
	StepPayment
	StepConfirmation

	stepCount = int(StepConfirmation) + 1
)

var stepNames = [stepCount]string{"dates", "customer", "summary", "payment", "confirmation"}

// Steps lists every step in wizard order.
func Steps() []Step {
	return []Step{StepDates, StepCustomer, StepSummary, StepPayment, StepConfirmation}
}

func (s Step) Valid() bool {
	return s >= StepDates && s <= StepConfirmation
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Terminal reports whether no transition leaves s.
func (s Step) Terminal() bool { return s == StepConfirmation }

func (s Step) next() Step { return s + 1 }

func (s Step) prev() Step { return s - 1 }

// ParseStep maps a step name (case-insensitive) back to its Step.
func ParseStep(name string) (Step, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("unknown step %q", name)
}

func (s Step) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid step %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *Step) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseStep(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
