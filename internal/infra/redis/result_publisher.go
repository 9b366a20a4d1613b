package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"olympiad-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultResultsChannel is where completed attempts are announced.
const DefaultResultsChannel = "olympiad:results"

// ResultPublisher announces completed attempts on a Redis pub/sub channel
// for the profile store to consume.
type ResultPublisher struct {
	client  *redis.Client
	channel string
}

func NewResultPublisher(client *redis.Client, channel string) *ResultPublisher {
	if channel == "" {
		channel = DefaultResultsChannel
	}
	return &ResultPublisher{client: client, channel: channel}
}

func (p *ResultPublisher) Publish(ctx context.Context, record domain.ResultRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}

func (p *ResultPublisher) Channel() string { return p.channel }
