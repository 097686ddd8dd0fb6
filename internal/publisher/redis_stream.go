package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream carrying refresh notifications consumed by the websocket fan-out.
const RefreshStream = "stats.refresh.cbb"

// RefreshEvent describes a completed feed refresh.
type RefreshEvent struct {
	Year        int       `json:"year"`
	GameLines   int       `json:"game_lines"`
	SeasonLines int       `json:"season_lines"`
	TeamResults int       `json:"team_results"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// RedisStreamPublisher publishes refresh events to a Redis stream.
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a publisher from an existing client.
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// NewRedisPublisher creates a publisher with its own connection.
func NewRedisPublisher(redisURL string) (*RedisStreamPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStreamPublisher{
		client: client,
	}, nil
}

// Close closes the Redis connection.
func (rsp *RedisStreamPublisher) Close() error {
	return rsp.client.Close()
}

// PublishRefresh publishes a refresh event to the stream.
func (rsp *RedisStreamPublisher) PublishRefresh(ctx context.Context, event RefreshEvent) error {
	if event.RefreshedAt.IsZero() {
		event.RefreshedAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: RefreshStream,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": event.RefreshedAt.Unix(),
		},
	}).Err()
}
