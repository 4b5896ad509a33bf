package consensus

import "psy-consensus/internal/domain"

// ConfidenceReport resume la confiabilidad del reporte terminado.
type ConfidenceReport struct {
	PerTrait      map[domain.Trait]float64 `json:"per_trait"`
	Overall       float64                  `json:"overall"`
	DegradedItems []string                 `json:"degraded_items,omitempty"`
}

// ReportConfidence pondera la confiabilidad de cada item con los mismos pesos del agregado.
// Overall es el promedio por item de su confiabilidad ponderada (los pesos suman 1).
func ReportConfidence(resolutions []domain.ItemResolution) ConfidenceReport {
	report := ConfidenceReport{PerTrait: make(map[domain.Trait]float64, 5)}
	if len(resolutions) == 0 {
		for _, t := range domain.AllTraits() {
			report.PerTrait[t] = 0
		}
		return report
	}

	sums := make(map[domain.Trait]float64, 5)
	weightSums := make(map[domain.Trait]float64, 5)
	var overall float64

	for _, res := range resolutions {
		weights := TraitWeights(res.PrimaryTrait)
		for _, t := range domain.AllTraits() {
			w := weights[t]
			rel := res.ReliabilityByTrait[t]
			sums[t] += w * rel
			weightSums[t] += w
			overall += w * rel
		}
		if res.Degraded() {
			report.DegradedItems = append(report.DegradedItems, res.ItemID)
		}
	}

	for _, t := range domain.AllTraits() {
		if weightSums[t] > 0 {
			report.PerTrait[t] = sums[t] / weightSums[t]
		}
	}
	report.Overall = overall / float64(len(resolutions))
	return report
}
