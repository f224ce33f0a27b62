package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"rentalweb/internal/clock"
)

type memoryEntry struct {
	rec       WizardRecord
	expiresAt time.Time
}

// MemoryWizardRepository is the default store when no Redis is configured.
type MemoryWizardRepository struct {
	TTL   time.Duration
	Clock clock.Clock

	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryWizardRepository(ttl time.Duration, clk clock.Clock) *MemoryWizardRepository {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &MemoryWizardRepository{TTL: ttl, Clock: clk, entries: map[string]memoryEntry{}}
}

func (r *MemoryWizardRepository) Get(_ context.Context, id string) (WizardRecord, error) {
	id = strings.TrimSpace(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return WizardRecord{}, ErrNotFound
	}
	if !e.expiresAt.After(r.Clock.Now()) {
		delete(r.entries, id)
		return WizardRecord{}, ErrNotFound
	}
	return e.rec, nil
}

func (r *MemoryWizardRepository) Save(_ context.Context, rec WizardRecord) error {
	rec.ID = strings.TrimSpace(rec.ID)
	if rec.ID == "" {
		return ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = map[string]memoryEntry{}
	}
	r.entries[rec.ID] = memoryEntry{rec: rec, expiresAt: r.Clock.Now().Add(r.TTL)}
	return nil
}

func (r *MemoryWizardRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, strings.TrimSpace(id))
	return nil
}

// Sweep drops expired wizards and returns how many were removed.
func (r *MemoryWizardRepository) Sweep() int {
	now := r.Clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		if !e.expiresAt.After(now) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *MemoryWizardRepository) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// MemoryLocker is a process-local Locker. Locks expire after TTL so a
// crashed request cannot wedge a wizard.
type MemoryLocker struct {
	TTL   time.Duration
	Clock clock.Clock

	mu    sync.Mutex
	held  map[string]time.Time
	owner map[string]uint64
	seq   uint64
}

func NewMemoryLocker(ttl time.Duration, clk clock.Clock) *MemoryLocker {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &MemoryLocker{TTL: ttl, Clock: clk, held: map[string]time.Time{}, owner: map[string]uint64{}}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string) (func(), bool, error) {
	key = lockKey(key)
	now := l.Clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]time.Time{}
		l.owner = map[string]uint64{}
	}
	if exp, ok := l.held[key]; ok && exp.After(now) {
		return nil, false, nil
	}
	l.seq++
	token := l.seq
	l.held[key] = now.Add(l.TTL)
	l.owner[key] = token

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.owner[key] == token {
				delete(l.held, key)
				delete(l.owner, key)
			}
		})
	}
	return unlock, true, nil
}
