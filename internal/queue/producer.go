package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"school-management-api/internal/config"
	"school-management-api/internal/model"

	"github.com/go-redis/redis/v8"
)

type Producer struct {
	client *redis.Client
	cfg    *config.Config
}

func NewProducer(redisClient *RedisClient, cfg *config.Config) *Producer {
	return &Producer{
		client: redisClient.Client(),
		cfg:    cfg,
	}
}

func (p *Producer) EnqueueEmail(ctx context.Context, job model.EmailJob) error {
	return p.push(ctx, p.cfg.Redis.EmailQueue, job)
}

// DeadLetter parks a job that ran out of attempts.
func (p *Producer) DeadLetter(ctx context.Context, job model.EmailJob) error {
	return p.push(ctx, p.DLQName(), job)
}

func (p *Producer) DLQName() string {
	return p.cfg.Redis.EmailQueue + p.cfg.Redis.DLQSuffix
}

func (p *Producer) push(ctx context.Context, queueName string, job model.EmailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := p.client.LPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to push to %s: %w", queueName, err)
	}
	return nil
}
