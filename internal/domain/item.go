package domain

import (
	"fmt"
	"strings"
)

// Item es una pregunta de la bateria junto con la respuesta a evaluar.
// Es inmutable una vez cargado.
type Item struct {
	ID           string `json:"item_id" yaml:"item_id" validate:"required"`
	PrimaryTrait Trait  `json:"primary_trait" yaml:"primary_trait"`
	IsReversed   bool   `json:"is_reversed" yaml:"is_reversed"`
	Context      string `json:"context,omitempty" yaml:"context"`
	AnswerText   string `json:"answer_text" yaml:"answer_text,omitempty" validate:"required"`
}

// Validate verifica los campos obligatorios del item.
// Sin rasgo primario el item aporta a los cinco rasgos por igual; un rasgo declarado
// que no es uno de los cinco es error.
func (i Item) Validate() error {
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("%w: item %q: %v", ErrInvalidItem, i.ID, err)
	}
	if err := i.validateTrait(); err != nil {
		return err
	}
	if strings.TrimSpace(i.AnswerText) == "" {
		return fmt.Errorf("%w: item %q: empty answer", ErrInvalidItem, i.ID)
	}
	return nil
}

func (i Item) validateTrait() error {
	if i.PrimaryTrait != "" && !i.PrimaryTrait.Valid() {
		return fmt.Errorf("%w: item %q: unknown primary trait %q", ErrInvalidItem, i.ID, i.PrimaryTrait)
	}
	return nil
}

// HasPrimaryTrait indica si el rasgo primario declarado es uno de los cinco.
func (i Item) HasPrimaryTrait() bool { return i.PrimaryTrait.Valid() }

// ValidateItems valida cada item y la unicidad de IDs dentro del reporte.
func ValidateItems(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: duplicate item id %q", ErrInvalidItem, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

// JudgeScore es la opinion de un juez para un item, ya normalizada a {1,3,5}.
type JudgeScore struct {
	JudgeID string      `json:"judge_id"`
	Round   int         `json:"round"`
	Scores  Big5Profile `json:"trait_scores"`
	// Substituted lista los rasgos que llegaron ausentes o no numericos y se fijaron en 3.
	Substituted []Trait `json:"substituted,omitempty"`
	Evidence    string  `json:"evidence,omitempty"`
}
