package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobboard-backend/internal/models"
)

const jobsKey = "jobs:all"

// JobsCache keeps the all-jobs listing in Redis for a short TTL. Every write
// to a job invalidates it; a miss or a Redis failure just falls through to
// the database.
type JobsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func New(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*JobsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("successfully connected to Redis")

	return &JobsCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (c *JobsCache) Close() error {
	return c.client.Close()
}

func (c *JobsCache) GetJobs(ctx context.Context) ([]models.Job, bool) {
	data, err := c.client.Get(ctx, jobsKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Error("failed to read jobs cache", zap.Error(err))
		return nil, false
	}

	var jobs []models.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		c.logger.Error("failed to unmarshal cached jobs", zap.Error(err))
		return nil, false
	}

	return jobs, true
}

func (c *JobsCache) SetJobs(ctx context.Context, jobs []models.Job) {
	data, err := json.Marshal(jobs)
	if err != nil {
		c.logger.Error("failed to marshal jobs for cache", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, jobsKey, data, c.ttl).Err(); err != nil {
		c.logger.Error("failed to set jobs cache", zap.Error(err))
	}
}

func (c *JobsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, jobsKey).Err(); err != nil {
		c.logger.Error("failed to invalidate jobs cache", zap.Error(err))
	}
}
