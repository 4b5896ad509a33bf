package consensus

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"psy-consensus/internal/domain"
)

func newTestResolver(t *testing.T, judges JudgeInvoker) *Resolver {
	t.Helper()
	e, err := NewEscalator(judges, sevenJudges, DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)
	return NewResolver(e, zap.NewNop())
}

func TestResolveReversedItemEndToEnd(t *testing.T) {
	judges := newScriptedJudges().
		trait("j1", domain.TraitExtraversion, 1).
		trait("j2", domain.TraitExtraversion, 3).
		trait("j3", domain.TraitExtraversion, 5).
		trait("j4", domain.TraitExtraversion, 1).
		trait("j5", domain.TraitExtraversion, 1).
		fail("j6").
		fail("j7")

	res, err := newTestResolver(t, judges).Resolve(context.Background(), testItem("rev-1", domain.TraitExtraversion, true))
	require.NoError(t, err)

	assert.Equal(t, 1, res.RawFinalScores.Extraversion)
	assert.Equal(t, 5, res.AdjustedFinalScores.Extraversion)
	assert.Equal(t, 2, res.RoundsUsed)
	assert.Equal(t, domain.ResolutionBudgetExhausted, res.Resolution)
	assert.Equal(t, domain.TraitExtraversion, res.PrimaryTrait)
	assert.True(t, res.IsReversed)

	// Los otros rasgos son mediana de lo recolectado (todo 3) e invertir 3 no cambia nada.
	assert.Equal(t, 3, res.AdjustedFinalScores.Openness)
	assert.Equal(t, 3, res.AdjustedFinalScores.Neuroticism)
	assert.InDelta(t, 1.0, res.ReliabilityByTrait[domain.TraitOpenness], 1e-9)

	for _, trait := range domain.AllTraits() {
		assert.True(t, domain.IsLevel(res.AdjustedFinalScores.Get(trait)), "trait %s", trait)
	}
}

func TestResolveNonPrimaryTraitsUseMedian(t *testing.T) {
	judges := newScriptedJudges()
	judges.verdicts["j1"] = JudgeVerdict{Scores: map[string]any{"openness": 5, "neuroticism": 1, "agreeableness": 4.5}}
	judges.verdicts["j2"] = JudgeVerdict{Scores: map[string]any{"openness": 5, "neuroticism": 1, "agreeableness": 5}}
	judges.verdicts["j3"] = JudgeVerdict{Scores: map[string]any{"openness": 5, "neuroticism": 5, "agreeableness": 1}}

	res, err := newTestResolver(t, judges).Resolve(context.Background(), testItem("med-1", domain.TraitOpenness, true))
	require.NoError(t, err)

	assert.Equal(t, domain.ResolutionAgreement, res.Resolution)
	assert.Equal(t, 5, res.RawFinalScores.Openness)
	assert.Equal(t, 1, res.AdjustedFinalScores.Openness)
	assert.Equal(t, 1, res.RawFinalScores.Neuroticism)
	assert.Equal(t, 5, res.AdjustedFinalScores.Neuroticism)
	assert.Equal(t, 5, res.RawFinalScores.Agreeableness)
	assert.Equal(t, []domain.Trait{domain.TraitConscientiousness, domain.TraitExtraversion}, res.Substitutions)
	assert.Equal(t, 0, res.RoundsUsed)
}

func TestResolveDegradedItem(t *testing.T) {
	res, err := newTestResolver(t, newScriptedJudges()).Resolve(context.Background(), testItem("dead-1", domain.TraitNeuroticism, true))
	require.NoError(t, err)

	assert.True(t, res.Degraded())
	assert.Equal(t, domain.NeutralProfile(), res.AdjustedFinalScores)
	for _, trait := range domain.AllTraits() {
		assert.Zero(t, res.ReliabilityByTrait[trait])
	}
	assert.Len(t, res.FailedJudges, len(sevenJudges))
}

func TestResolveRejectsInvalidItem(t *testing.T) {
	r := newTestResolver(t, newScriptedJudges())

	_, err := r.Resolve(context.Background(), domain.Item{ID: "x", PrimaryTrait: domain.TraitOpenness})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)

	_, err = r.Resolve(context.Background(), domain.Item{AnswerText: "hola"})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestResolveAllKeepsOrder(t *testing.T) {
	judges := newScriptedJudges()
	for _, id := range sevenJudges {
		judges.uniform(id, 5)
	}
	r := newTestResolver(t, judges)

	var items []domain.Item
	for i := 0; i < 20; i++ {
		items = append(items, testItem(fmt.Sprintf("item-%02d", i), domain.AllTraits()[i%5], i%2 == 0))
	}

	results, err := r.ResolveAll(context.Background(), items, 4)
	require.NoError(t, err)
	require.Len(t, results, len(items))

	for i, res := range results {
		assert.Equal(t, items[i].ID, res.ItemID)
		want := 5
		if items[i].IsReversed {
			want = 1
		}
		assert.Equal(t, want, res.AdjustedFinalScores.Get(items[i].PrimaryTrait))
	}
	assert.Equal(t, 3*len(items), judges.callCount())
}

func TestResolveAllRejectsDuplicateIDs(t *testing.T) {
	r := newTestResolver(t, newScriptedJudges())
	items := []domain.Item{
		testItem("dup", domain.TraitOpenness, false),
		testItem("dup", domain.TraitNeuroticism, false),
	}

	_, err := r.ResolveAll(context.Background(), items, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestResolveAllRejectsBeforeInvokingJudges(t *testing.T) {
	judges := newScriptedJudges()
	for _, id := range sevenJudges {
		judges.uniform(id, 5)
	}
	r := newTestResolver(t, judges)
	items := []domain.Item{
		testItem("ok", domain.TraitOpenness, false),
		{ID: "blank", PrimaryTrait: domain.TraitExtraversion, AnswerText: "   "},
	}

	results, err := r.ResolveAll(context.Background(), items, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
	assert.Empty(t, results)
	assert.Zero(t, judges.callCount(), "malformed input is rejected before any judge runs")
}
