package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"psy-consensus/internal/consensus"
	"psy-consensus/internal/domain"
)

// ErrJudgeRateLimited se devuelve cuando un juez supero su cupo en la ventana actual.
var ErrJudgeRateLimited = errors.New("judge rate limited")

const redisJudgeAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

// JudgeRateLimiter limita llamadas por juez (modelo) en una ventana fija.
type JudgeRateLimiter interface {
	Allow(ctx context.Context, judgeID string) bool
}

type redisJudgeRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

func NewRedisJudgeRateLimiter(client *redis.Client, window time.Duration, max int) JudgeRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisJudgeRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "judge:rl:",
	}
}

func (l *redisJudgeRateLimiter) Allow(ctx context.Context, judgeID string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(judgeID))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	redisKey := l.prefix + normalizedKey
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisJudgeAllowScript, []string{redisKey}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}

type rateLimitedJudge struct {
	next    consensus.JudgeInvoker
	limiter JudgeRateLimiter
}

// NewRateLimitedJudge corta la llamada con ErrJudgeRateLimited cuando el limitador la rechaza.
// Para el escalador eso es un puntaje faltante mas.
func NewRateLimitedJudge(next consensus.JudgeInvoker, limiter JudgeRateLimiter) consensus.JudgeInvoker {
	if limiter == nil {
		return next
	}
	return &rateLimitedJudge{next: next, limiter: limiter}
}

func (r *rateLimitedJudge) Invoke(ctx context.Context, judgeID string, item domain.Item) (consensus.JudgeVerdict, error) {
	if !r.limiter.Allow(ctx, judgeID) {
		return consensus.JudgeVerdict{}, ErrJudgeRateLimited
	}
	return r.next.Invoke(ctx, judgeID, item)
}
