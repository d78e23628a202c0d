package redisstore

import "context"

// NoopLimiter always allows; used when Redis is disabled.
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true}, nil
}
