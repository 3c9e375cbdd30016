package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/redis/go-redis/v9"
)

const (
	// Key suffixes for Redis
	savedAtSuffix    = ":saved_at"
	quarantineSuffix = ":quarantine"
)

// RedisConfig holds configuration for the Redis snapshot repository
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client

	// Key holds the snapshot document; related keys share it as a prefix
	Key string

	Clock clock.Clock
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	key    string
	clock  clock.Clock
}

// NewRedis creates a new Redis-backed snapshot repository
func NewRedis(cfg *RedisConfig) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.Key == "" {
		return nil, errors.New("snapshot key cannot be empty")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	return &redisRepository{
		client: cfg.RedisClient,
		key:    cfg.Key,
		clock:  c,
	}, nil
}

// SaveSnapshot writes the document and its save time in one transaction
func (r *redisRepository) SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error {
	if input == nil || len(input.Data) == 0 {
		return ErrNilInput
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key, input.Data, 0)
	pipe.Set(ctx, r.key+savedAtSuffix, r.clock.Now().UTC().Format(time.RFC3339Nano), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads the document
func (r *redisRepository) LoadSnapshot(ctx context.Context, input *LoadSnapshotInput) (*LoadSnapshotOutput, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &LoadSnapshotOutput{}, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return &LoadSnapshotOutput{Data: data, Found: true}, nil
}

// QuarantineRecord appends the record to the quarantine list
func (r *redisRepository) QuarantineRecord(ctx context.Context, input *QuarantineRecordInput) error {
	if input == nil {
		return ErrNilInput
	}

	entry, err := json.Marshal(&QuarantinedRecord{
		Kind:          input.Kind,
		Reason:        input.Reason,
		Record:        validRaw(input.Record),
		QuarantinedAt: r.clock.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal quarantined record: %w", err)
	}

	if err := r.client.RPush(ctx, r.key+quarantineSuffix, entry).Err(); err != nil {
		return fmt.Errorf("failed to quarantine record: %w", err)
	}

	return nil
}

// ListQuarantined reads the whole quarantine list
func (r *redisRepository) ListQuarantined(ctx context.Context, input *ListQuarantinedInput) (*ListQuarantinedOutput, error) {
	entries, err := r.client.LRange(ctx, r.key+quarantineSuffix, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list quarantine: %w", err)
	}

	out := &ListQuarantinedOutput{}
	for _, entry := range entries {
		var rec QuarantinedRecord
		if err := json.Unmarshal([]byte(entry), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quarantined record: %w", err)
		}
		out.Records = append(out.Records, &rec)
	}

	return out, nil
}

// validRaw keeps unparsable bytes as a JSON string so the entry itself
// always marshals
func validRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`null`)
	}
	if json.Valid(raw) {
		return raw
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
