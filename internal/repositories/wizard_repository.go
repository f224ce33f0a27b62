package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentalweb/internal/booking"
)

// ErrNotFound is returned when a wizard is unknown or has expired.
var ErrNotFound = errors.New("wizard not found")

// WizardRecord is what a store keeps for one wizard between requests.
type WizardRecord struct {
	ID        string           `json:"id"`
	OwnerID   string           `json:"ownerId,omitempty"`
	Snapshot  booking.Snapshot `json:"snapshot"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// WizardRepository keeps wizard snapshots for a bounded idle time. Save
// refreshes the expiry.
type WizardRepository interface {
	Get(ctx context.Context, id string) (WizardRecord, error)
	Save(ctx context.Context, rec WizardRecord) error
	Delete(ctx context.Context, id string) error
}

// Locker hands out short-lived exclusive locks keyed by wizard ID. ok is
// false when someone else holds the lock.
type Locker interface {
	TryLock(ctx context.Context, key string) (unlock func(), ok bool, err error)
}

func wizardKey(id string) string {
	return "rentalweb:wizard:" + strings.TrimSpace(id)
}

func lockKey(id string) string {
	return "rentalweb:wizard-lock:" + strings.TrimSpace(id)
}
