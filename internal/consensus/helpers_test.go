package consensus

import (
	"context"
	"errors"
	"sync"

	"psy-consensus/internal/domain"
)

var errJudgeDown = errors.New("judge down")

// scriptedJudges devuelve un veredicto fijo por juez; los jueces sin guion fallan.
type scriptedJudges struct {
	mu       sync.Mutex
	verdicts map[string]JudgeVerdict
	errs     map[string]error
	calls    []string
}

func newScriptedJudges() *scriptedJudges {
	return &scriptedJudges{
		verdicts: make(map[string]JudgeVerdict),
		errs:     make(map[string]error),
	}
}

// uniform asigna el mismo valor a los cinco rasgos.
func (s *scriptedJudges) uniform(judgeID string, v any) *scriptedJudges {
	scores := make(map[string]any, 5)
	for _, t := range domain.AllTraits() {
		scores[string(t)] = v
	}
	s.verdicts[judgeID] = JudgeVerdict{Scores: scores, Evidence: "uniform"}
	return s
}

// trait asigna v al rasgo indicado y 3 al resto.
func (s *scriptedJudges) trait(judgeID string, trait domain.Trait, v any) *scriptedJudges {
	scores := make(map[string]any, 5)
	for _, t := range domain.AllTraits() {
		scores[string(t)] = 3
	}
	scores[string(trait)] = v
	s.verdicts[judgeID] = JudgeVerdict{Scores: scores}
	return s
}

func (s *scriptedJudges) fail(judgeID string) *scriptedJudges {
	s.errs[judgeID] = errJudgeDown
	return s
}

func (s *scriptedJudges) Invoke(_ context.Context, judgeID string, _ domain.Item) (JudgeVerdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, judgeID)
	if err, ok := s.errs[judgeID]; ok {
		return JudgeVerdict{}, err
	}
	v, ok := s.verdicts[judgeID]
	if !ok {
		return JudgeVerdict{}, errJudgeDown
	}
	return v, nil
}

func (s *scriptedJudges) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

var sevenJudges = []string{"j1", "j2", "j3", "j4", "j5", "j6", "j7"}

func testItem(id string, primary domain.Trait, reversed bool) domain.Item {
	return domain.Item{
		ID:           id,
		PrimaryTrait: primary,
		IsReversed:   reversed,
		Context:      "Disfruto de las reuniones con mucha gente.",
		AnswerText:   "Depende del dia, a veces me agotan.",
	}
}
