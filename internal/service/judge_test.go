package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"psy-consensus/internal/domain"
	"psy-consensus/internal/llm"
)

func TestLLMJudgeInvoke(t *testing.T) {
	mock := &llm.MockClient{Response: "```json\n{\"evidence\":\"me encantan las fiestas\",\"scores\":{\"extraversion\":5,\"openness\":\"3\"}}\n```"}
	judge := NewLLMJudge(nil).Register("gpt-a", mock)

	item := domain.Item{
		ID:           "q1",
		PrimaryTrait: domain.TraitExtraversion,
		Context:      "Te gustan las reuniones grandes?",
		AnswerText:   "Me encantan las fiestas.",
	}
	v, err := judge.Invoke(context.Background(), "gpt-a", item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Evidence != "me encantan las fiestas" {
		t.Fatalf("unexpected evidence %q", v.Evidence)
	}
	if v.Scores["extraversion"] != float64(5) || v.Scores["openness"] != "3" {
		t.Fatalf("unexpected scores %+v", v.Scores)
	}
	if mock.Calls() != 1 {
		t.Fatalf("expected one llm call, got %d", mock.Calls())
	}
	prompt := mock.Prompts[0]
	for _, want := range []string{"extraversion", "Te gustan las reuniones grandes?", "Me encantan las fiestas."} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestLLMJudgeInvokeErrors(t *testing.T) {
	item := domain.Item{ID: "q1", AnswerText: "no se"}

	tests := []struct {
		name    string
		client  *llm.MockClient
		judgeID string
		wantErr error
	}{
		{name: "unknown judge", client: &llm.MockClient{}, judgeID: "ghost", wantErr: ErrUnknownJudge},
		{name: "not json", client: &llm.MockClient{Response: "no puedo evaluar esto"}, judgeID: "j", wantErr: ErrJudgeOutput},
		{name: "no scores", client: &llm.MockClient{Response: `{"evidence":"x"}`}, judgeID: "j", wantErr: ErrJudgeOutput},
		{name: "broken json", client: &llm.MockClient{Response: `{"scores": {"openness": }}`}, judgeID: "j", wantErr: ErrJudgeOutput},
		{name: "llm down", client: &llm.MockClient{Err: llm.ErrEmptyResponse}, judgeID: "j", wantErr: llm.ErrEmptyResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			judge := NewLLMJudge(nil).Register("j", tc.client)
			_, err := judge.Invoke(context.Background(), tc.judgeID, item)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseJudgeOutputAcceptsTraitScoresKey(t *testing.T) {
	v, err := parseJudgeOutput(`Claro, aqui va: {"trait_scores": {"neuroticism": 1}, "evidence": " calma "} fin`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Scores["neuroticism"] != float64(1) || v.Evidence != "calma" {
		t.Fatalf("unexpected verdict %+v", v)
	}
}

func TestLLMJudgeRegisterKeepsOrder(t *testing.T) {
	judge := NewLLMJudge(nil).
		Register("b", &llm.MockClient{}).
		Register("a", &llm.MockClient{}).
		Register("b", &llm.MockClient{}).
		Register(" ", &llm.MockClient{})

	ids := judge.JudgeIDs()
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Fatalf("unexpected judge ids %v", ids)
	}
}

func TestParseJudgeOutputSkipsEchoedFormat(t *testing.T) {
	raw := "Entendido, el formato es {\"evidence\": \"...\"}.\n```json\n{\"evidence\": \"evita la gente\", \"scores\": {\"extraversion\": 1}}\n```"
	v, err := parseJudgeOutput(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Scores["extraversion"] != float64(1) || v.Evidence != "evita la gente" {
		t.Fatalf("unexpected verdict %+v", v)
	}
}
