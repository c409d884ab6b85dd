package publisher

import (
	"context"
	"encoding/base64"
	"math/rand/v2"
	"strconv"

	"github.com/redis/go-redis/v9"

	scrapeerrors "travelscraper/offerworker/pkg/errors"
)

// RedisOptions configures the stream publisher
type RedisOptions struct {
	Addr            string
	DB              int
	StreamPrefix    string
	StreamCount     int
	StreamMaxLength int
}

// RedisPublisher writes messages to a set of Redis streams
type RedisPublisher struct {
	client          *redis.Client
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisPublisher creates a publisher with its own client
func NewRedisPublisher(opts RedisOptions) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: opts.Addr,
		DB:   opts.DB,
	})
	return NewRedisPublisherWithClient(client, opts)
}

// NewRedisPublisherWithClient creates a publisher over an existing client
func NewRedisPublisherWithClient(client *redis.Client, opts RedisOptions) *RedisPublisher {
	count := opts.StreamCount
	if count < 1 {
		count = 1
	}
	return &RedisPublisher{
		client:          client,
		streamPrefix:    opts.StreamPrefix,
		streamCount:     count,
		streamMaxLength: opts.StreamMaxLength,
	}
}

// Ping checks the connection
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return scrapeerrors.NewPublisher("redis ping", err)
	}
	return nil
}

// Stream returns the name of stream i
func (p *RedisPublisher) Stream(i int) string {
	return p.streamPrefix + ":" + strconv.Itoa(i)
}

// Publish base64 encodes the message and adds it to a randomly chosen
// stream (prefix:0 .. prefix:N-1)
func (p *RedisPublisher) Publish(ctx context.Context, key string, message []byte) error {
	encoded := base64.StdEncoding.EncodeToString(message)
	stream := p.Stream(rand.IntN(p.streamCount))

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{key: encoded},
	}).Err()
	if err != nil {
		return scrapeerrors.NewPublisher("xadd "+stream, err)
	}
	return nil
}

// TrimStreams trims every stream with the prefix to the configured length
func (p *RedisPublisher) TrimStreams(ctx context.Context) error {
	if p.streamMaxLength <= 0 {
		return nil
	}

	iter := p.client.Scan(ctx, 0, p.streamPrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		stream := iter.Val()
		if err := p.client.XTrimMaxLen(ctx, stream, int64(p.streamMaxLength)).Err(); err != nil {
			return scrapeerrors.NewPublisher("xtrim "+stream, err)
		}
	}
	if err := iter.Err(); err != nil {
		return scrapeerrors.NewPublisher("scan streams", err)
	}
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
