package razorpay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher parks the pending-checkout payload where the client
// can poll for it while its place-order request is held open.
type RedisPublisher struct {
	Conn *redis.Client
	TTL  time.Duration
}

func NewRedisPublisher(conn *redis.Client) *RedisPublisher {
	return &RedisPublisher{Conn: conn, TTL: 15 * time.Minute}
}

func pendingKey(buyerID string) string { return "pay:pending:" + buyerID }

func (p *RedisPublisher) Publish(ctx context.Context, buyerID string, pc PendingCheckout) error {
	data, err := json.Marshal(pc)
	if err != nil {
		return err
	}
	return p.Conn.Set(ctx, pendingKey(buyerID), data, p.TTL).Err()
}

// Fetch returns the buyer's pending checkout, if any.
func (p *RedisPublisher) Fetch(ctx context.Context, buyerID string) (*PendingCheckout, error) {
	data, err := p.Conn.Get(ctx, pendingKey(buyerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pc PendingCheckout
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, err
	}
	return &pc, nil
}
