package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Decision struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucket refills continuously at capacity/window and charges one token
// per call. State lives in a hash so every API replica shares the budget.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_per_ms = tonumber(ARGV[2])
local now_ms = tonumber(ARGV[3])
local ttl_ms = tonumber(ARGV[4])

local data = redis.call("HMGET", key, "tokens", "timestamp")
local tokens = tonumber(data[1]) or capacity
local timestamp = tonumber(data[2]) or now_ms

local elapsed = math.max(0, now_ms - timestamp)
tokens = math.min(capacity, tokens + (elapsed * refill_per_ms))

local allowed = 0
local retry_after_ms = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
else
  retry_after_ms = math.ceil((1 - tokens) / refill_per_ms)
end

redis.call("HMSET", key, "tokens", tokens, "timestamp", now_ms)
redis.call("PEXPIRE", key, ttl_ms)

return {allowed, math.floor(tokens), retry_after_ms}
`)

// ClientLimiter enforces one Policy per client address.
type ClientLimiter struct {
	client      redis.UniversalClient
	policy      Policy
	refillPerMS float64
	now         func() time.Time
}

func NewClientLimiter(client redis.UniversalClient, policy Policy) (*ClientLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if err := policy.validate(); err != nil {
		return nil, fmt.Errorf("rate limit policy %q: %w", policy.Name, err)
	}

	windowMS := max(1, policy.Window.Milliseconds())
	return &ClientLimiter{
		client:      client,
		policy:      policy,
		refillPerMS: float64(policy.Capacity) / float64(windowMS),
		now:         time.Now,
	}, nil
}

func (l *ClientLimiter) Policy() Policy {
	return l.policy
}

// Allow charges one request from addr against the policy budget.
func (l *ClientLimiter) Allow(ctx context.Context, addr string) (Decision, error) {
	key := keyPrefix + ":" + l.policy.Name + ":" + ClientKey(addr)
	raw, err := tokenBucket.Run(
		ctx,
		l.client,
		[]string{key},
		l.policy.Capacity,
		l.refillPerMS,
		l.now().UTC().UnixMilli(),
		(2 * l.policy.Window).Milliseconds(),
	).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("run token bucket script: %w", err)
	}

	values, ok := raw.([]any)
	if !ok || len(values) != 3 {
		return Decision{}, fmt.Errorf("invalid token bucket response")
	}
	parsed := make([]int64, len(values))
	for i, v := range values {
		if parsed[i], err = toInt64(v); err != nil {
			return Decision{}, fmt.Errorf("parse token bucket value %d: %w", i, err)
		}
	}

	return Decision{
		Allowed:    parsed[0] == 1,
		Limit:      int64(l.policy.Capacity),
		Remaining:  parsed[1],
		RetryAfter: time.Duration(parsed[2]) * time.Millisecond,
	}, nil
}

func toInt64(in any) (int64, error) {
	switch v := in.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", in)
	}
}
