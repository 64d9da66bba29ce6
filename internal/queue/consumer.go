package queue

import (
	"context"
	"time"

	"school-management-api/internal/config"
	"school-management-api/internal/logger"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

type Consumer struct {
	client      *redis.Client
	cfg         *config.Config
	pollTimeout time.Duration
	retryDelay  time.Duration
	pushTimeout time.Duration
	log         zerolog.Logger
}

type MessageHandler func(ctx context.Context, data []byte) error

func NewConsumer(redisClient *RedisClient, cfg *config.Config) *Consumer {
	return &Consumer{
		client:      redisClient.Client(),
		cfg:         cfg,
		pollTimeout: 5 * time.Second,
		retryDelay:  time.Second,
		pushTimeout: 5 * time.Second,
		log:         logger.Get(),
	}
}

func (c *Consumer) ConsumeEmailQueue(ctx context.Context, handler MessageHandler) error {
	return c.consume(ctx, c.cfg.Redis.EmailQueue, handler)
}

// consume blocks until ctx is cancelled. Messages the handler rejects are
// moved to the queue's DLQ untouched.
func (c *Consumer) consume(ctx context.Context, queueName string, handler MessageHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			result, err := c.client.BRPop(ctx, c.pollTimeout, queueName).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.log.Error().Err(err).Str("queue", queueName).Msg("Failed to consume message")
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(c.retryDelay):
				}
				continue
			}

			if len(result) < 2 {
				continue
			}

			message := result[1]
			if err := handler(ctx, []byte(message)); err != nil {
				c.log.Error().Err(err).Str("queue", queueName).Msg("Failed to process message")
				c.deadLetter(queueName+c.cfg.Redis.DLQSuffix, message)
			}
		}
	}
}

// deadLetter outlives ctx; the message has already been popped.
func (c *Consumer) deadLetter(dlqName, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.pushTimeout)
	defer cancel()

	if err := c.client.LPush(ctx, dlqName, message).Err(); err != nil {
		c.log.Error().Err(err).Str("dlq", dlqName).Msg("Failed to move message to DLQ")
	}
}
