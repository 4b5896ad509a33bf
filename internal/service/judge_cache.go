package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"psy-consensus/internal/consensus"
	"psy-consensus/internal/domain"
)

type judgeCacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// cachedJudge guarda en Redis los veredictos por (juez, item, respuesta).
// Si Redis falla se consulta al juez igual.
type cachedJudge struct {
	next   consensus.JudgeInvoker
	client judgeCacheClient
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewCachedJudge envuelve next con cache. Sin cliente Redis devuelve next tal cual.
func NewCachedJudge(next consensus.JudgeInvoker, client *redis.Client, ttl time.Duration, logger *zap.Logger) consensus.JudgeInvoker {
	if client == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedJudge{
		next:   next,
		client: client,
		ttl:    ttl,
		prefix: "judge:v1:",
		logger: logger,
	}
}

func (c *cachedJudge) Invoke(ctx context.Context, judgeID string, item domain.Item) (consensus.JudgeVerdict, error) {
	key := c.prefix + judgeCacheKey(judgeID, item)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var v consensus.JudgeVerdict
		if jsonErr := json.Unmarshal([]byte(cached), &v); jsonErr == nil && len(v.Scores) > 0 {
			return v, nil
		}
		c.logger.Warn("judge cache entry corrupt", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("judge cache get failed", zap.String("judge_id", judgeID), zap.Error(err))
	}

	v, err := c.next.Invoke(ctx, judgeID, item)
	if err != nil {
		return v, err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("judge cache set failed", zap.String("judge_id", judgeID), zap.Error(err))
	}
	return v, nil
}

// judgeCacheKey depende solo de lo que ve el juez. La inversion no cambia el puntaje crudo.
func judgeCacheKey(judgeID string, item domain.Item) string {
	parts := []string{judgeID, item.ID, string(item.PrimaryTrait), item.Context, item.AnswerText}
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
