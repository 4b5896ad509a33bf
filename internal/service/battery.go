package service

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"psy-consensus/internal/domain"
)

//go:embed batteries/ocean15.yaml
var defaultBatteryYAML []byte

// Battery es el cuestionario: items sin respuesta.
type Battery struct {
	Name  string        `yaml:"name"`
	Items []domain.Item `yaml:"items"`
}

// AnswerSheet son las respuestas de un sujeto, indexadas por item_id.
type AnswerSheet struct {
	SubjectID string            `json:"subject_id"`
	Answers   map[string]string `json:"answers"`
}

// LoadBattery lee una bateria YAML. El rasgo primario acepta nombre completo o inicial OCEAN;
// sin rasgo el item aporta a los cinco por igual y un rasgo desconocido es error.
func LoadBattery(r io.Reader) (Battery, error) {
	var b Battery
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return Battery{}, fmt.Errorf("decode battery: %w", err)
	}
	if len(b.Items) == 0 {
		return Battery{}, fmt.Errorf("%w: battery has no items", domain.ErrInvalidItem)
	}

	seen := make(map[string]struct{}, len(b.Items))
	for i := range b.Items {
		it := &b.Items[i]
		it.ID = strings.TrimSpace(it.ID)
		if it.ID == "" {
			return Battery{}, fmt.Errorf("%w: battery item %d has no item_id", domain.ErrInvalidItem, i)
		}
		if _, dup := seen[it.ID]; dup {
			return Battery{}, fmt.Errorf("%w: duplicate item id %q", domain.ErrInvalidItem, it.ID)
		}
		seen[it.ID] = struct{}{}
		if it.PrimaryTrait != "" && !it.HasPrimaryTrait() {
			return Battery{}, fmt.Errorf("%w: item %q: unknown primary trait %q", domain.ErrInvalidItem, it.ID, it.PrimaryTrait)
		}
	}
	return b, nil
}

// DefaultBattery devuelve el cuestionario OCEAN de 15 preguntas, tres por rasgo.
func DefaultBattery() Battery {
	b, err := LoadBattery(bytes.NewReader(defaultBatteryYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded battery: %v", err))
	}
	return b
}

// Questions devuelve el texto de cada pregunta en orden.
func (b Battery) Questions() []string {
	out := make([]string, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, it.Context)
	}
	return out
}

// LoadAnswers lee una hoja de respuestas JSON.
func LoadAnswers(r io.Reader) (AnswerSheet, error) {
	var sheet AnswerSheet
	if err := json.NewDecoder(r).Decode(&sheet); err != nil {
		return AnswerSheet{}, fmt.Errorf("decode answers: %w", err)
	}
	return sheet, nil
}

// MergeAnswers arma los items evaluables. Todo item de la bateria necesita respuesta
// y no se aceptan respuestas para items inexistentes.
func MergeAnswers(b Battery, sheet AnswerSheet) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(b.Items))
	used := 0
	for _, it := range b.Items {
		answer, ok := sheet.Answers[it.ID]
		if !ok || strings.TrimSpace(answer) == "" {
			return nil, fmt.Errorf("%w: item %q has no answer", domain.ErrInvalidItem, it.ID)
		}
		it.AnswerText = answer
		items = append(items, it)
		used++
	}
	if used != len(sheet.Answers) {
		for id := range sheet.Answers {
			if !batteryHas(b, id) {
				return nil, fmt.Errorf("%w: answer for unknown item %q", domain.ErrInvalidItem, id)
			}
		}
	}
	return items, nil
}

func batteryHas(b Battery, id string) bool {
	for _, it := range b.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}
