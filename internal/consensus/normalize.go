package consensus

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"psy-consensus/internal/domain"
)

// NormalizeValue lleva un valor numerico al nivel permitido mas cercano:
// <=2 -> 1, <=4 -> 3, resto -> 5.
func NormalizeValue(v float64) int {
	switch {
	case v <= 2:
		return domain.ScoreLow
	case v <= 4:
		return domain.ScoreNeutral
	default:
		return domain.ScoreHigh
	}
}

// NormalizeScore acepta cualquier valor devuelto por un juez y nunca falla.
// Si el valor falta o no es numerico devuelve 3 y substituted=true.
func NormalizeScore(raw any) (level int, substituted bool) {
	v, ok := toFloat(raw)
	if !ok {
		return domain.ScoreNeutral, true
	}
	return NormalizeValue(v), false
}

func toFloat(raw any) (float64, bool) {
	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int32:
		v = float64(x)
	case int64:
		v = float64(x)
	case uint:
		v = float64(x)
	case uint32:
		v = float64(x)
	case uint64:
		v = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// NormalizeJudgeScore convierte la salida cruda de un juez en un JudgeScore valido.
// Las claves se comparan sin importar mayusculas; los rasgos ausentes quedan en 3.
func NormalizeJudgeScore(judgeID string, round int, raw map[string]any, evidence string) domain.JudgeScore {
	lowered := make(map[string]any, len(raw))
	for k, v := range raw {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}

	score := domain.JudgeScore{
		JudgeID:  judgeID,
		Round:    round,
		Evidence: evidence,
	}
	for _, t := range domain.AllTraits() {
		level, substituted := NormalizeScore(lowered[string(t)])
		score.Scores.Set(t, level)
		if substituted {
			score.Substituted = append(score.Substituted, t)
		}
	}
	return score
}
