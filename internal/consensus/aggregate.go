package consensus

import (
	"math"

	"psy-consensus/internal/domain"
)

// Pesos por item: 0.7 al rasgo primario y 0.075 a cada uno de los otros cuatro.
// Sin rasgo primario conocido, 0.2 a cada rasgo.
const (
	primaryWeight   = 0.7
	secondaryWeight = 0.075
	fallbackWeight  = 0.2
)

// TraitWeights devuelve los cinco pesos de un item; siempre suman 1.0.
func TraitWeights(primary domain.Trait) map[domain.Trait]float64 {
	weights := make(map[domain.Trait]float64, 5)
	for _, t := range domain.AllTraits() {
		switch {
		case !primary.Valid():
			weights[t] = fallbackWeight
		case t == primary:
			weights[t] = primaryWeight
		default:
			weights[t] = secondaryWeight
		}
	}
	return weights
}

// Aggregate reduce todas las resoluciones de un reporte a totales por rasgo,
// tipo categorico y confiabilidad. Es una funcion pura y deterministica.
// Debe llamarse solo cuando todas las resoluciones existen.
func Aggregate(resolutions []domain.ItemResolution) domain.ReportAggregate {
	raw := WeightedTotals(resolutions)

	var totals domain.Big5Profile
	for _, t := range domain.AllTraits() {
		totals.Set(t, roundTotal(raw[t]))
	}

	confidence := ReportConfidence(resolutions)
	return domain.ReportAggregate{
		TraitTotals:         totals,
		RawTotals:           raw,
		CategoricalType:     CategoricalType(totals),
		OverallReliability:  confidence.Overall,
		PerTraitReliability: confidence.PerTrait,
		DegradedItems:       confidence.DegradedItems,
	}
}

// WeightedTotals es la media ponderada sin redondear de cada rasgo.
// Un rasgo sin aportes queda en el punto medio de la escala.
func WeightedTotals(resolutions []domain.ItemResolution) map[domain.Trait]float64 {
	sums := make(map[domain.Trait]float64, 5)
	weightSums := make(map[domain.Trait]float64, 5)

	for _, res := range resolutions {
		weights := TraitWeights(res.PrimaryTrait)
		for _, t := range domain.AllTraits() {
			w := weights[t]
			sums[t] += w * float64(res.AdjustedFinalScores.Get(t))
			weightSums[t] += w
		}
	}

	totals := make(map[domain.Trait]float64, 5)
	for _, t := range domain.AllTraits() {
		if weightSums[t] == 0 {
			totals[t] = domain.ScaleMidpoint
			continue
		}
		totals[t] = sums[t] / weightSums[t]
	}
	return totals
}

// roundTotal redondea al entero mas cercano dentro de [1,5].
func roundTotal(v float64) int {
	r := int(math.Round(v))
	if r < domain.ScoreLow {
		return domain.ScoreLow
	}
	if r > domain.ScoreHigh {
		return domain.ScoreHigh
	}
	return r
}
