package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisWizardRepository stores wizard records as JSON with SET ... EX.
type RedisWizardRepository struct {
	Client *redis.Client
	TTL    time.Duration
}

func (r RedisWizardRepository) Get(ctx context.Context, id string) (WizardRecord, error) {
	raw, err := r.Client.Get(ctx, wizardKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return WizardRecord{}, ErrNotFound
	}
	if err != nil {
		return WizardRecord{}, fmt.Errorf("get wizard %s: %w", id, err)
	}
	var rec WizardRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return WizardRecord{}, fmt.Errorf("decode wizard %s: %w", id, err)
	}
	return rec, nil
}

func (r RedisWizardRepository) Save(ctx context.Context, rec WizardRecord) error {
	if rec.ID == "" {
		return ErrNotFound
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode wizard %s: %w", rec.ID, err)
	}
	if err := r.Client.Set(ctx, wizardKey(rec.ID), data, r.TTL).Err(); err != nil {
		return fmt.Errorf("save wizard %s: %w", rec.ID, err)
	}
	return nil
}

func (r RedisWizardRepository) Delete(ctx context.Context, id string) error {
	if err := r.Client.Del(ctx, wizardKey(id)).Err(); err != nil {
		return fmt.Errorf("delete wizard %s: %w", id, err)
	}
	return nil
}

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker takes locks with SETNX so several web instances share them.
type RedisLocker struct {
	Client *redis.Client
	TTL    time.Duration
}

func (l RedisLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	k := lockKey(key)
	token := uuid.NewString()
	acquired, err := l.Client.SetNX(ctx, k, token, l.TTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("lock wizard %s: %w", key, err)
	}
	if !acquired {
		return nil, false, nil
	}
	unlock := func() {
		// the request context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.Client, []string{k}, token).Err()
	}
	return unlock, true, nil
}
