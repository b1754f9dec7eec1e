package fulfillment

import (
	"context"
	"encoding/json"
	"time"

	"kaizen/internal/logger"
	"kaizen/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "fulfillments"
	failedQueueKey = "fulfillments:failed"
)

// Job is the payload handed to the external fulfillment collaborator
// for non-currency wheel prizes. The ledger record is written first;
// this queue only carries the delivery side-effect.
type Job struct {
	UserID    int       `json:"user_id"`
	PrizeType string    `json:"prize_type"`
	Label     string    `json:"label"`
	Value     int64     `json:"value"`
	Created   time.Time `json:"created"`
}

// Publisher is the narrow interface the economy service depends on.
type Publisher interface {
	Publish(ctx context.Context, job Job) error
}

type Service struct {
	redis *redis.Client
}

func New(redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
	}
}

// NewWithClient is used by tests to inject a mock client.
func NewWithClient(client *redis.Client) *Service {
	return &Service{redis: client}
}

func (s *Service) Publish(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal fulfillment job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue fulfillment for user %d: %v", job.UserID, err)
		return err
	}

	logger.Infof("Fulfillment queued: %s for user %d", job.Label, job.UserID)
	return nil
}

// Start periodically reports queue depth. The external collaborator
// drains the queue; this process only observes it.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Fulfillment service started")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Fulfillment service stopped")
			return
		case <-ticker.C:
			metrics.FulfillmentQueueLength.Set(float64(s.QueueLength(ctx)))
		}
	}
}

// MarkFailed parks a payload the collaborator reported as
// undeliverable so it can be inspected and replayed by hand.
func (s *Service) MarkFailed(ctx context.Context, job Job, reason string) {
	failed := map[string]interface{}{
		"job":    job,
		"reason": reason,
		"time":   time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(ctx, failedQueueKey, data)
	logger.Errorf("Fulfillment moved to failed queue: user %d prize %s", job.UserID, job.Label)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
