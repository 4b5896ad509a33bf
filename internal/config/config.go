package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"

	"psy-consensus/internal/consensus"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	LLMAPIKey   string `env:"LLM_API_KEY,required,notEmpty"`
	LLMBaseURL  string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`

	// JudgeModels es el pool de jueces en orden de consulta; cada modelo es un juez.
	JudgeModels      []string      `env:"JUDGE_MODELS" envSeparator:"," envDefault:"gpt-4o-mini,gpt-4o,gpt-4.1-mini,gpt-4.1,o4-mini,gpt-4.1-nano,gpt-5-mini" validate:"min=1,dive,required"`
	JudgeTemperature float64       `env:"JUDGE_TEMPERATURE" envDefault:"0" validate:"gte=0,lte=2"`
	InitialPanelSize int           `env:"INITIAL_PANEL_SIZE" envDefault:"3" validate:"gte=1"`
	EscalationJudges int           `env:"ESCALATION_JUDGES" envDefault:"2" validate:"gte=1"`
	MaxEscalations   int           `env:"MAX_ESCALATION_ROUNDS" envDefault:"2" validate:"gte=0"`
	JudgeTimeout     time.Duration `env:"JUDGE_TIMEOUT" envDefault:"60s" validate:"gte=0"`
	Concurrency      int           `env:"RESOLVE_CONCURRENCY" envDefault:"8" validate:"gte=1"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	JudgeCacheTTL  time.Duration `env:"JUDGE_CACHE_TTL" envDefault:"720h"`
	JudgeRateWin   time.Duration `env:"JUDGE_RATE_WINDOW" envDefault:"1m"`
	JudgeRateMax   int           `env:"JUDGE_RATE_MAX" envDefault:"60" validate:"gte=1"`
	JWTSecret      string        `env:"API_JWT_SECRET"`
	JWTTTL         time.Duration `env:"API_JWT_TTL" envDefault:"24h"`
	LogDevelopment bool          `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa rangos y que el pool alcance al menos para el panel inicial.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(c.JudgeModels) < c.InitialPanelSize {
		return fmt.Errorf("invalid config: %d judge models for an initial panel of %d", len(c.JudgeModels), c.InitialPanelSize)
	}
	return nil
}

// EscalationPolicy traduce la configuración a la política del escalador.
func (c *Config) EscalationPolicy() consensus.Policy {
	return consensus.Policy{
		InitialPanelSize: c.InitialPanelSize,
		JudgesPerRound:   c.EscalationJudges,
		MaxRounds:        c.MaxEscalations,
		JudgeTimeout:     c.JudgeTimeout,
	}
}
