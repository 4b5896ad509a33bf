package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"psy-consensus/internal/consensus"
	"psy-consensus/internal/domain"
)

func TestTypeCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"type", "5", "5", "5", "5", "5"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out.String()) != "ENFJ" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestParseTotalsRejectsOutOfRange(t *testing.T) {
	if _, err := parseTotals([]string{"3", "3", "6", "3", "3"}); err == nil {
		t.Fatalf("expected error for 6")
	}
	if _, err := parseTotals([]string{"3", "3", "x", "3", "3"}); err == nil {
		t.Fatalf("expected error for non-integer")
	}
}

func TestLoadRequest(t *testing.T) {
	dir := t.TempDir()
	battery := filepath.Join(dir, "items.yaml")
	answers := filepath.Join(dir, "answers.json")
	if err := os.WriteFile(battery, []byte("items:\n  - item_id: q1\n    primary_trait: A\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(answers, []byte(`{"subject_id":"s1","answers":{"q1":"Ayudo a todos"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	req, err := loadRequest(battery, answers, "")
	if err != nil {
		t.Fatalf("load request: %v", err)
	}
	if req.SubjectID != "s1" || len(req.Items) != 1 || req.Items[0].PrimaryTrait != domain.TraitAgreeableness {
		t.Fatalf("unexpected request %+v", req)
	}

	req, err = loadRequest(battery, answers, "override")
	if err != nil || req.SubjectID != "override" {
		t.Fatalf("expected subject override, got %+v err=%v", req, err)
	}
}

func TestRenderReport(t *testing.T) {
	res := domain.ItemResolution{
		ItemID:              "q1",
		PrimaryTrait:        domain.TraitExtraversion,
		DrivingTrait:        domain.TraitExtraversion,
		IsReversed:          true,
		RawFinalScores:      domain.Big5Profile{Openness: 3, Conscientiousness: 3, Extraversion: 1, Agreeableness: 3, Neuroticism: 3},
		AdjustedFinalScores: domain.Big5Profile{Openness: 3, Conscientiousness: 3, Extraversion: 5, Agreeableness: 3, Neuroticism: 3},
		JudgesUsed:          []string{"a", "b", "c"},
		ReliabilityByTrait:  map[domain.Trait]float64{domain.TraitExtraversion: 1},
		Resolution:          domain.ResolutionAgreement,
	}
	report := domain.Report{ID: "r1", SubjectID: "s1", Resolutions: []domain.ItemResolution{res}}
	report.Aggregate = consensus.Aggregate(report.Resolutions)

	var out bytes.Buffer
	if err := renderReport(&out, report); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"q1", "agreement", "extraversion", "Tipo: ESTP", "Confiabilidad global"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestQuestionsCommandDefaultBattery(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"questions"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "15 preguntas") || !strings.Contains(out.String(), "neuroticism") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}
