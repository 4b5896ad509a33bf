package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "k")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.JudgeModels) != 7 {
		t.Fatalf("expected 7 default judges, got %v", cfg.JudgeModels)
	}
	p := cfg.EscalationPolicy()
	if p.InitialPanelSize != 3 || p.JudgesPerRound != 2 || p.MaxRounds != 2 || p.JudgeTimeout != 60*time.Second {
		t.Fatalf("unexpected policy %+v", p)
	}
	if p.MaxJudges() != len(cfg.JudgeModels) {
		t.Fatalf("default pool should cover the full budget")
	}
	if cfg.JudgeCacheTTL != 720*time.Hour {
		t.Fatalf("unexpected cache ttl %s", cfg.JudgeCacheTTL)
	}
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without LLM_API_KEY")
	}
}

func TestLoadConfigJudgeList(t *testing.T) {
	t.Setenv("LLM_API_KEY", "k")
	t.Setenv("JUDGE_MODELS", "a,b,c,d")
	t.Setenv("MAX_ESCALATION_ROUNDS", "1")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.JudgeModels) != 4 || cfg.JudgeModels[3] != "d" {
		t.Fatalf("unexpected judges %v", cfg.JudgeModels)
	}
	if cfg.EscalationPolicy().MaxRounds != 1 {
		t.Fatalf("expected 1 escalation round")
	}
}

func TestValidateRejectsSmallPool(t *testing.T) {
	t.Setenv("LLM_API_KEY", "k")
	t.Setenv("JUDGE_MODELS", "a,b")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when pool is smaller than the initial panel")
	}
}

func TestValidateRejectsBadRanges(t *testing.T) {
	t.Setenv("LLM_API_KEY", "k")
	t.Setenv("RESOLVE_CONCURRENCY", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for zero concurrency")
	}
}
