package consensus

import "psy-consensus/internal/domain"

// typeAxis compara una combinacion lineal de desvios respecto del punto medio.
// Positivo -> high, cero o negativo -> low.
type typeAxis struct {
	high, low byte
	weights   map[domain.Trait]float64
}

var typeAxes = []typeAxis{
	{high: 'E', low: 'I', weights: map[domain.Trait]float64{domain.TraitExtraversion: 1}},
	{high: 'N', low: 'S', weights: map[domain.Trait]float64{domain.TraitOpenness: 1}},
	{high: 'F', low: 'T', weights: map[domain.Trait]float64{domain.TraitAgreeableness: 0.7, domain.TraitNeuroticism: 0.3}},
	{high: 'J', low: 'P', weights: map[domain.Trait]float64{domain.TraitConscientiousness: 0.7, domain.TraitOpenness: -0.3}},
}

// CategoricalType deriva el codigo de cuatro letras a partir de los totales redondeados.
func CategoricalType(totals domain.Big5Profile) string {
	code := make([]byte, 0, len(typeAxes))
	for _, axis := range typeAxes {
		var score float64
		for _, t := range domain.AllTraits() {
			if w, ok := axis.weights[t]; ok {
				score += w * (float64(totals.Get(t)) - domain.ScaleMidpoint)
			}
		}
		if score > 0 {
			code = append(code, axis.high)
		} else {
			code = append(code, axis.low)
		}
	}
	return string(code)
}
