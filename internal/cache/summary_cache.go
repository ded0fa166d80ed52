package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"grading-service/internal/models"
)

const summaryTTL = 2 * time.Minute

// SummaryCache keeps recently computed per-user point summaries in Redis.
// Summaries are full scans of the points collection, so the cache only has to
// absorb repeated dashboard reads; every write path invalidates.
type SummaryCache struct {
	client *redis.Client
}

func NewSummaryCache(redisURL string) (*SummaryCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &SummaryCache{client: client}, nil
}

func summaryKey(studentID string) string {
	return "grading:summary:" + studentID
}

func (c *SummaryCache) Get(ctx context.Context, studentID string) (*models.PointSummary, bool) {
	raw, err := c.client.Get(ctx, summaryKey(studentID)).Bytes()
	if err != nil {
		return nil, false
	}
	var summary models.PointSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

func (c *SummaryCache) Set(ctx context.Context, summary models.PointSummary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	c.client.Set(ctx, summaryKey(summary.StudentID), raw, summaryTTL)
}

func (c *SummaryCache) Invalidate(ctx context.Context, studentID string) {
	c.client.Del(ctx, summaryKey(studentID))
}

func (c *SummaryCache) Close() {
	_ = c.client.Close()
}
