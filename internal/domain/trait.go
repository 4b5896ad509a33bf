package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Trait identifica una de las cinco dimensiones del modelo Big Five.
type Trait string

const (
	TraitOpenness          Trait = "openness"
	TraitConscientiousness Trait = "conscientiousness"
	TraitExtraversion      Trait = "extraversion"
	TraitAgreeableness     Trait = "agreeableness"
	TraitNeuroticism       Trait = "neuroticism"
)

// Niveles permitidos para un puntaje resuelto.
const (
	ScoreLow     = 1
	ScoreNeutral = 3
	ScoreHigh    = 5
)

// ScaleMidpoint es el punto medio de la escala 1-5.
const ScaleMidpoint = 3.0

var allTraits = []Trait{
	TraitOpenness,
	TraitConscientiousness,
	TraitExtraversion,
	TraitAgreeableness,
	TraitNeuroticism,
}

// AllTraits devuelve los cinco rasgos en orden canonico (OCEAN).
func AllTraits() []Trait {
	out := make([]Trait, len(allTraits))
	copy(out, allTraits)
	return out
}

// Valid indica si el rasgo es uno de los cinco conocidos.
func (t Trait) Valid() bool {
	for _, known := range allTraits {
		if t == known {
			return true
		}
	}
	return false
}

func (t Trait) String() string { return string(t) }

// ParseTrait acepta el nombre completo o la inicial OCEAN, sin importar mayusculas.
func ParseTrait(s string) (Trait, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return "", false
	}
	for _, t := range allTraits {
		if norm == string(t) || (len(norm) == 1 && norm[0] == string(t)[0]) {
			return t, true
		}
	}
	return "", false
}

// UnmarshalJSON acepta las mismas formas que ParseTrait y guarda el nombre canonico.
// Un valor que no se reconoce se conserva tal cual para que Item.Validate lo rechace.
func (t *Trait) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("trait: %w", err)
	}
	*t = canonicalTrait(s)
	return nil
}

// UnmarshalYAML hace lo mismo que UnmarshalJSON para las baterias.
func (t *Trait) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("trait: %w", err)
	}
	*t = canonicalTrait(s)
	return nil
}

func canonicalTrait(s string) Trait {
	if parsed, ok := ParseTrait(s); ok {
		return parsed
	}
	return Trait(strings.TrimSpace(s))
}

// IsLevel indica si v es uno de los niveles permitidos {1,3,5}.
func IsLevel(v int) bool {
	return v == ScoreLow || v == ScoreNeutral || v == ScoreHigh
}

// Big5Profile guarda un valor entero por rasgo. Siempre tiene los cinco campos.
type Big5Profile struct {
	Openness          int `json:"openness"`
	Conscientiousness int `json:"conscientiousness"`
	Extraversion      int `json:"extraversion"`
	Agreeableness     int `json:"agreeableness"`
	Neuroticism       int `json:"neuroticism"`
}

// NeutralProfile devuelve un perfil con todos los rasgos en el nivel neutral.
func NeutralProfile() Big5Profile {
	return Big5Profile{
		Openness:          ScoreNeutral,
		Conscientiousness: ScoreNeutral,
		Extraversion:      ScoreNeutral,
		Agreeableness:     ScoreNeutral,
		Neuroticism:       ScoreNeutral,
	}
}

// Get devuelve el valor del rasgo; 0 si el rasgo no existe.
func (p Big5Profile) Get(t Trait) int {
	switch t {
	case TraitOpenness:
		return p.Openness
	case TraitConscientiousness:
		return p.Conscientiousness
	case TraitExtraversion:
		return p.Extraversion
	case TraitAgreeableness:
		return p.Agreeableness
	case TraitNeuroticism:
		return p.Neuroticism
	}
	return 0
}

// Set asigna el valor del rasgo. Rasgos desconocidos se ignoran.
func (p *Big5Profile) Set(t Trait, v int) {
	switch t {
	case TraitOpenness:
		p.Openness = v
	case TraitConscientiousness:
		p.Conscientiousness = v
	case TraitExtraversion:
		p.Extraversion = v
	case TraitAgreeableness:
		p.Agreeableness = v
	case TraitNeuroticism:
		p.Neuroticism = v
	}
}
