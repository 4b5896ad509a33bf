package consensus

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"psy-consensus/internal/domain"
)

// Resolver es el punto de entrada por item: escala la disputa, normaliza e invierte.
type Resolver struct {
	escalator *Escalator
	logger    *zap.Logger
}

func NewResolver(escalator *Escalator, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{escalator: escalator, logger: logger}
}

// Resolve produce la ItemResolution de un item. No modifica el item.
func (r *Resolver) Resolve(ctx context.Context, item domain.Item) (domain.ItemResolution, error) {
	if err := item.Validate(); err != nil {
		return domain.ItemResolution{}, err
	}

	out := r.escalator.Run(ctx, item)

	res := domain.ItemResolution{
		ItemID:             item.ID,
		IsReversed:         item.IsReversed,
		RoundsUsed:         out.RoundsUsed,
		JudgesUsed:         out.JudgesUsed,
		FailedJudges:       out.FailedJudges,
		ReliabilityByTrait: make(map[domain.Trait]float64, 5),
		Resolution:         out.Reason,
		DrivingTrait:       out.DrivingTrait,
		Substitutions:      substitutions(out.Scores),
	}
	if item.HasPrimaryTrait() {
		res.PrimaryTrait = item.PrimaryTrait
	}

	for _, t := range domain.AllTraits() {
		scores := traitScores(out.Scores, t)
		var raw int
		var reliability float64
		switch {
		case t == out.DrivingTrait:
			raw = out.Final
			reliability = out.Dispute.Reliability
		case len(scores) == 0:
			raw = domain.ScoreNeutral
		default:
			// Los rasgos no primarios viajan con los jueces invocados; sin escalamiento propio.
			raw = medianLevel(scores)
			reliability = AssessReliability(t, scores).Reliability
		}

		adjusted, err := ReverseScore(raw, item.IsReversed)
		if err != nil {
			return domain.ItemResolution{}, fmt.Errorf("reverse %s for item %s: %w", t, item.ID, err)
		}
		res.RawFinalScores.Set(t, raw)
		res.AdjustedFinalScores.Set(t, adjusted)
		res.ReliabilityByTrait[t] = reliability
	}

	return res, nil
}

// ResolveAll resuelve items en paralelo (a lo sumo concurrency a la vez) y devuelve
// las resoluciones en el mismo orden que los items. Los items no comparten estado.
func (r *Resolver) ResolveAll(ctx context.Context, items []domain.Item, concurrency int) ([]domain.ItemResolution, error) {
	if err := domain.ValidateItems(items); err != nil {
		return nil, err
	}

	results := make([]domain.ItemResolution, len(items))
	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, item := range items {
		g.Go(func() error {
			res, err := r.Resolve(ctx, item)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Info("items resolved", zap.Int("count", len(results)))
	return results, nil
}

// substitutions devuelve los rasgos sustituidos por algun juez, en orden canonico.
func substitutions(scores []domain.JudgeScore) []domain.Trait {
	seen := make(map[domain.Trait]bool)
	for _, s := range scores {
		for _, t := range s.Substituted {
			seen[t] = true
		}
	}
	var out []domain.Trait
	for _, t := range domain.AllTraits() {
		if seen[t] {
			out = append(out, t)
		}
	}
	return out
}
