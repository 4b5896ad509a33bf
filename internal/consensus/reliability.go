package consensus

import (
	"math"
	"sort"

	"psy-consensus/internal/domain"
)

// Ponderacion de la confiabilidad: 60% dispersion invertida, 40% proporcion de la moda.
const (
	dispersionWeight = 0.6
	modeRatioWeight  = 0.4
	// maxStdDev es la desviacion poblacional maxima posible en la escala 1-5.
	maxStdDev = 2.0
)

// AssessReliability calcula confiabilidad y severidad para los puntajes de un rasgo.
// Es total: con menos de 2 puntajes la confiabilidad es 0.
func AssessReliability(trait domain.Trait, scores []int) domain.TraitDispute {
	dispute := domain.TraitDispute{
		Trait:    trait,
		Scores:   append([]int(nil), scores...),
		Severity: classifySeverity(scores),
	}
	if len(scores) < 2 {
		return dispute
	}

	consistency := 1 - math.Min(stdDev(scores)/maxStdDev, 1)
	reliability := dispersionWeight*consistency + modeRatioWeight*modeRatio(scores)
	dispute.Reliability = clamp01(reliability)
	return dispute
}

// classifySeverity: low si rango<=1 y desvio<=0.5; high si rango>2 o desvio>1; si no, medium.
func classifySeverity(scores []int) domain.Severity {
	if len(scores) == 0 {
		return domain.SeverityLow
	}
	r := scoreRange(scores)
	sd := stdDev(scores)
	switch {
	case r <= 1 && sd <= 0.5:
		return domain.SeverityLow
	case r > 2 || sd > 1.0:
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}

func mean(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += float64(s)
	}
	return sum / float64(len(scores))
}

// stdDev es la desviacion estandar poblacional.
func stdDev(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	m := mean(scores)
	var acc float64
	for _, s := range scores {
		d := float64(s) - m
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(scores)))
}

func scoreRange(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return hi - lo
}

func modeRatio(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	best := 0
	for _, c := range tally(scores) {
		if c > best {
			best = c
		}
	}
	return float64(best) / float64(len(scores))
}

func tally(scores []int) map[int]int {
	counts := make(map[int]int, 3)
	for _, s := range scores {
		counts[s]++
	}
	return counts
}

// median devuelve la mediana; con cantidad par promedia los dos centrales.
func median(scores []int) float64 {
	if len(scores) == 0 {
		return domain.ScaleMidpoint
	}
	sorted := append([]int(nil), scores...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// medianLevel es la mediana llevada a {1,3,5}.
func medianLevel(scores []int) int {
	return NormalizeValue(median(scores))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
