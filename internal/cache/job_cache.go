package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"taskflow/internal/jobs"

	"github.com/redis/go-redis/v9"
)

const (
	keyJob = "job:"
	// activeTTL bounds how long a job left behind by a crashed process stays
	// visible.
	activeTTL = time.Hour
)

// JobCache stores job snapshots in Redis. Terminal jobs expire through the
// key TTL.
type JobCache struct {
	rdb *redis.Client
}

// NewJobCache returns a new JobCache.
func NewJobCache(rdb *redis.Client) *JobCache {
	return &JobCache{rdb: rdb}
}

// Put stores a running job.
func (c *JobCache) Put(ctx context.Context, j jobs.Job) error {
	return c.set(ctx, j, activeTTL)
}

// Finish stores a terminal job that expires after ttl.
func (c *JobCache) Finish(ctx context.Context, j jobs.Job, ttl time.Duration) error {
	return c.set(ctx, j, ttl)
}

// Get returns the job with id, or false on a miss.
func (c *JobCache) Get(ctx context.Context, id string) (jobs.Job, bool, error) {
	b, err := c.rdb.Get(ctx, keyJob+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return jobs.Job{}, false, nil
	}
	if err != nil {
		return jobs.Job{}, false, err
	}
	var j jobs.Job
	if err := json.Unmarshal(b, &j); err != nil {
		return jobs.Job{}, false, err
	}
	return j, true, nil
}

func (c *JobCache) set(ctx context.Context, j jobs.Job, ttl time.Duration) error {
	b, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyJob+j.ID, b, ttl).Err()
}
