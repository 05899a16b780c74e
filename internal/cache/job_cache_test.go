package cache

import (
	"context"
	"testing"
	"time"

	"taskflow/internal/jobs"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/assert/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *JobCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewJobCache(rdb)
}

func TestJobCacheRoundTrip(t *testing.T) {
	_, c := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "job_missing")
	assert.Equal(t, err, nil)
	assert.Equal(t, ok, false)

	j := jobs.Job{ID: "job_1", Type: "export", Status: jobs.StatusProcessing, Progress: 40, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	assert.Equal(t, c.Put(ctx, j), nil)

	got, ok, err := c.Get(ctx, "job_1")
	assert.Equal(t, err, nil)
	assert.Equal(t, ok, true)
	assert.Equal(t, got, j)
}

func TestJobCacheFinishedJobsExpire(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	j := jobs.Job{ID: "job_2", Type: "export", Status: jobs.StatusCompleted, Progress: 100}
	assert.Equal(t, c.Finish(ctx, j, 5*time.Second), nil)
	assert.Equal(t, mr.TTL("job:job_2"), 5*time.Second)

	mr.FastForward(6 * time.Second)
	_, ok, err := c.Get(ctx, "job_2")
	assert.Equal(t, err, nil)
	assert.Equal(t, ok, false)
}

func TestJobCacheWithRunner(t *testing.T) {
	_, c := newTestCache(t)
	r := jobs.NewRunner(c, jobs.Options{Tick: time.Millisecond, Retention: time.Minute}, nil)
	defer r.Close()

	id, err := r.Enqueue(context.Background(), "reindex")
	assert.Equal(t, err, nil)

	deadline := time.Now().Add(2 * time.Second)
	for {
		j, err := r.Status(context.Background(), id)
		assert.Equal(t, err, nil)
		if j.Status == jobs.StatusCompleted {
			assert.Equal(t, j.Progress, 100)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete, last status %s", j.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
