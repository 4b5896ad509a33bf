package consensus

import (
	"fmt"

	"psy-consensus/internal/domain"
)

// ReverseScore invierte un puntaje normalizado si el item es inverso (1<->5, 3 fijo).
// Aplicarla dos veces es la identidad. Valores fuera de {1,3,5} devuelven ErrScoreDomain.
func ReverseScore(score int, reversed bool) (int, error) {
	if !domain.IsLevel(score) {
		return 0, fmt.Errorf("%w: got %d", domain.ErrScoreDomain, score)
	}
	if !reversed {
		return score, nil
	}
	return domain.ScoreLow + domain.ScoreHigh - score, nil
}
