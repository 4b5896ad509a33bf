package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"psy-consensus/internal/config"
	"psy-consensus/internal/consensus"
	"psy-consensus/internal/llm"
)

// BuildResolver arma el pool de jueces a partir de la configuracion:
// un cliente LLM por modelo, limitado por Redis y con cache de veredictos.
// Sin Redis los jueces se consultan directo.
func BuildResolver(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (*consensus.Resolver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, "", logger).WithTemperature(cfg.JudgeTemperature)

	judges := NewLLMJudge(logger)
	for _, model := range cfg.JudgeModels {
		judges.Register(model, base.WithModel(model))
	}

	var invoker consensus.JudgeInvoker = judges
	invoker = NewRateLimitedJudge(invoker, NewRedisJudgeRateLimiter(redisClient, cfg.JudgeRateWin, cfg.JudgeRateMax))
	invoker = NewCachedJudge(invoker, redisClient, cfg.JudgeCacheTTL, logger)

	escalator, err := consensus.NewEscalator(invoker, judges.JudgeIDs(), cfg.EscalationPolicy(), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("judge panel ready",
		zap.Strings("judges", judges.JudgeIDs()),
		zap.Int("max_judges_per_item", escalator.Policy().MaxJudges()),
		zap.Bool("redis", redisClient != nil),
	)
	return consensus.NewResolver(escalator, logger), nil
}
