package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"category/extractor/internal/domain"

	"github.com/redis/go-redis/v9"
)

type JobStore interface {
	Save(ctx context.Context, job *domain.Job) error
	Get(ctx context.Context, id string) (*domain.Job, error)
}

type redisJobStore struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

// NewRedisJobStore keeps job records for ttl after their last update.
// A zero ttl keeps them forever.
func NewRedisJobStore(redisClient *redis.Client, ttl time.Duration) JobStore {
	return &redisJobStore{
		redisClient: redisClient,
		keyPrefix:   "extractor:job:",
		ttl:         ttl,
	}
}

func (s *redisJobStore) Save(ctx context.Context, job *domain.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}

	if err := s.redisClient.Set(ctx, s.keyPrefix+job.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

func (s *redisJobStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	val, err := s.redisClient.Get(ctx, s.keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}

	var job domain.Job
	if err := json.Unmarshal(val, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", id, err)
	}

	return &job, nil
}
