package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestTraitUnmarshalJSONCanonicalizes(t *testing.T) {
	tests := []struct {
		in   string
		want Trait
	}{
		{in: `"Openness"`, want: TraitOpenness},
		{in: `"O"`, want: TraitOpenness},
		{in: `" neuroticism "`, want: TraitNeuroticism},
		{in: `"e"`, want: TraitExtraversion},
		{in: `""`, want: ""},
		{in: `null`, want: ""},
		{in: `" curiosity "`, want: "curiosity"},
	}
	for _, tc := range tests {
		var got Trait
		if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("unmarshal %s: expected %q, got %q", tc.in, tc.want, got)
		}
	}

	var bad Trait
	if err := json.Unmarshal([]byte(`5`), &bad); err == nil {
		t.Fatalf("expected error for non-string trait")
	}
}

func TestTraitUnmarshalYAMLCanonicalizes(t *testing.T) {
	var it Item
	if err := yaml.Unmarshal([]byte("item_id: q1\nprimary_trait: Agreeableness\n"), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.PrimaryTrait != TraitAgreeableness {
		t.Fatalf("expected agreeableness, got %q", it.PrimaryTrait)
	}
}

func TestItemFromJSONKeepsDeclaredTrait(t *testing.T) {
	var it Item
	body := `{"item_id":"q1","primary_trait":"Openness","answer_text":"pruebo cosas nuevas"}`
	if err := json.Unmarshal([]byte(body), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := it.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !it.HasPrimaryTrait() || it.PrimaryTrait != TraitOpenness {
		t.Fatalf("expected openness as primary trait, got %q", it.PrimaryTrait)
	}
}

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{name: "ok", item: Item{ID: "a", PrimaryTrait: TraitOpenness, AnswerText: "x"}},
		{name: "no trait", item: Item{ID: "a", AnswerText: "x"}},
		{name: "unknown trait", item: Item{ID: "a", PrimaryTrait: "curiosity", AnswerText: "x"}, wantErr: true},
		{name: "non canonical trait", item: Item{ID: "a", PrimaryTrait: "Openness", AnswerText: "x"}, wantErr: true},
		{name: "no id", item: Item{AnswerText: "x"}, wantErr: true},
		{name: "blank answer", item: Item{ID: "a", AnswerText: " \n"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.item.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidItem) {
					t.Fatalf("expected ErrInvalidItem, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
