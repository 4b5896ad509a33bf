package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"psy-consensus/internal/config"
	"psy-consensus/internal/domain"
)

func TestBuildResolverAgainstFakeProvider(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		content := `{"evidence":"ok","scores":{"openness":5,"conscientiousness":3,"extraversion":3,"agreeableness":3,"neuroticism":3}}`
		resp := map[string]any{"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	cfg := &config.Config{
		LLMBaseURL:       srv.URL,
		LLMAPIKey:        "k",
		JudgeModels:      []string{"m1", "m2", "m3", "m4", "m5"},
		InitialPanelSize: 3,
		EscalationJudges: 2,
		MaxEscalations:   1,
		Concurrency:      2,
	}

	resolver, err := BuildResolver(cfg, nil, nil)
	if err != nil {
		t.Fatalf("build resolver: %v", err)
	}

	res, err := resolver.Resolve(context.Background(), domain.Item{ID: "q1", PrimaryTrait: domain.TraitOpenness, AnswerText: "me gusta aprender"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.AdjustedFinalScores.Openness != 5 || res.Resolution != domain.ResolutionAgreement {
		t.Fatalf("unexpected resolution %+v", res)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected only the initial panel to be called, got %d", calls.Load())
	}
	if len(res.JudgesUsed) != 3 || res.JudgesUsed[0] != "m1" {
		t.Fatalf("unexpected judges %v", res.JudgesUsed)
	}
}

func TestBuildResolverRequiresJudges(t *testing.T) {
	if _, err := BuildResolver(&config.Config{}, nil, nil); err == nil {
		t.Fatalf("expected error with empty judge pool")
	}
}
