package consensus

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"psy-consensus/internal/domain"
)

// JudgeVerdict es la salida cruda de un juez: valores por rasgo sin validar y evidencia libre.
type JudgeVerdict struct {
	Scores   map[string]any `json:"scores"`
	Evidence string         `json:"evidence"`
}

// JudgeInvoker es el colaborador externo que consulta a un juez concreto.
// Un error significa "sin puntaje de este juez en esta ronda"; nunca aborta el item.
type JudgeInvoker interface {
	Invoke(ctx context.Context, judgeID string, item domain.Item) (JudgeVerdict, error)
}

// JudgeInvokerFunc adapta una funcion a JudgeInvoker.
type JudgeInvokerFunc func(ctx context.Context, judgeID string, item domain.Item) (JudgeVerdict, error)

func (f JudgeInvokerFunc) Invoke(ctx context.Context, judgeID string, item domain.Item) (JudgeVerdict, error) {
	return f(ctx, judgeID, item)
}

// Policy fija el tamano del panel y el presupuesto de escalamiento.
type Policy struct {
	InitialPanelSize int           `json:"initial_panel_size"`
	JudgesPerRound   int           `json:"judges_per_round"`
	MaxRounds        int           `json:"max_rounds"`
	JudgeTimeout     time.Duration `json:"judge_timeout"`
}

// DefaultPolicy: panel de 3, hasta 2 rondas extra de 2 jueces cada una.
func DefaultPolicy() Policy {
	return Policy{
		InitialPanelSize: 3,
		JudgesPerRound:   2,
		MaxRounds:        2,
	}
}

// MaxJudges es la cantidad maxima de jueces que puede consultar un item.
func (p Policy) MaxJudges() int {
	return p.InitialPanelSize + p.MaxRounds*p.JudgesPerRound
}

func (p Policy) sanitized() Policy {
	def := DefaultPolicy()
	if p.InitialPanelSize <= 0 {
		p.InitialPanelSize = def.InitialPanelSize
	}
	if p.JudgesPerRound <= 0 {
		p.JudgesPerRound = def.JudgesPerRound
	}
	if p.MaxRounds < 0 {
		p.MaxRounds = 0
	}
	return p
}

// State es el estado de la maquina de escalamiento de un item.
type State string

const (
	StateInitial  State = "INITIAL"
	StateCheck    State = "CHECK"
	StateEscalate State = "ESCALATE"
	StateResolved State = "RESOLVED"
)

// Outcome es el resultado de correr la maquina de escalamiento sobre un item.
type Outcome struct {
	DrivingTrait domain.Trait
	Final        int
	Dispute      domain.TraitDispute
	Majority     *MajorityPattern
	Reason       domain.ResolutionReason
	RoundsUsed   int
	JudgesUsed   []string
	FailedJudges []string
	Scores       []domain.JudgeScore
}

// Escalator orquesta panel inicial, rondas de escalamiento y resolucion final.
// No guarda estado entre items; es seguro para uso concurrente.
type Escalator struct {
	invoker JudgeInvoker
	judges  []string
	policy  Policy
	logger  *zap.Logger
}

// NewEscalator construye el controlador. Los jueces se toman del pool en orden:
// primero el panel inicial y luego JudgesPerRound por ronda.
func NewEscalator(invoker JudgeInvoker, judges []string, policy Policy, logger *zap.Logger) (*Escalator, error) {
	if invoker == nil {
		return nil, fmt.Errorf("escalator: nil judge invoker")
	}
	if len(judges) == 0 {
		return nil, domain.ErrNoJudges
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Escalator{
		invoker: invoker,
		judges:  append([]string(nil), judges...),
		policy:  policy.sanitized(),
		logger:  logger,
	}, nil
}

// Policy devuelve la politica efectiva.
func (e *Escalator) Policy() Policy { return e.policy }

// Run resuelve la disputa del rasgo que dirige el item (el primario si esta declarado).
func (e *Escalator) Run(ctx context.Context, item domain.Item) Outcome {
	var out Outcome
	next := 0
	state := StateInitial

	for state != StateResolved {
		switch state {
		case StateInitial:
			panel := e.take(&next, e.policy.InitialPanelSize)
			e.invokeRound(ctx, item, 0, panel, &out)
			state = StateCheck

		case StateCheck:
			trait := drivingTrait(item, out.Scores)
			scores := traitScores(out.Scores, trait)
			out.DrivingTrait = trait
			out.Dispute = AssessReliability(trait, scores)
			state = e.check(item, scores, &out)

		case StateEscalate:
			if out.RoundsUsed >= e.policy.MaxRounds || next >= len(e.judges) {
				e.forceResolve(item, &out)
				state = StateResolved
				continue
			}
			out.RoundsUsed++
			panel := e.take(&next, e.policy.JudgesPerRound)
			e.invokeRound(ctx, item, out.RoundsUsed, panel, &out)
			state = StateCheck
		}
	}

	observeOutcome(out)
	e.logger.Debug("item resolved",
		zap.String("item_id", item.ID),
		zap.String("trait", string(out.DrivingTrait)),
		zap.String("reason", string(out.Reason)),
		zap.Int("final", out.Final),
		zap.Int("rounds", out.RoundsUsed),
		zap.Int("judges", len(out.JudgesUsed)),
	)
	return out
}

// check decide la transicion desde CHECK.
func (e *Escalator) check(item domain.Item, scores []int, out *Outcome) State {
	e.logger.Debug("dispute check",
		zap.String("item_id", item.ID),
		zap.Int("round", out.RoundsUsed),
		zap.String("severity", string(out.Dispute.Severity)),
		zap.Float64("reliability", out.Dispute.Reliability),
		zap.Ints("scores", scores),
	)

	// Con un solo puntaje no hay acuerdo que medir: se intenta escalar.
	if len(scores) >= 2 && out.Dispute.Severity == domain.SeverityLow {
		out.Final = medianLevel(scores)
		out.Reason = domain.ResolutionAgreement
		return StateResolved
	}
	if m := DetectMajority(scores); m != nil {
		out.Final = m.MajorityValue
		out.Majority = m
		out.Reason = domain.ResolutionMajority
		return StateResolved
	}
	return StateEscalate
}

func (e *Escalator) forceResolve(item domain.Item, out *Outcome) {
	scores := traitScores(out.Scores, out.DrivingTrait)
	if len(scores) == 0 {
		out.Final = domain.ScoreNeutral
		out.Dispute.Reliability = 0
		out.Reason = domain.ResolutionNoScores
		e.logger.Warn("no scores for driving trait, using neutral",
			zap.String("item_id", item.ID),
			zap.String("trait", string(out.DrivingTrait)),
		)
		return
	}
	out.Final = medianLevel(scores)
	out.Reason = domain.ResolutionBudgetExhausted
}

// take devuelve hasta n jueces del pool a partir de *next.
func (e *Escalator) take(next *int, n int) []string {
	end := *next + n
	if end > len(e.judges) {
		end = len(e.judges)
	}
	panel := e.judges[*next:end]
	*next = end
	return panel
}

// invokeRound consulta al panel en paralelo y agrega los puntajes en el orden del panel.
func (e *Escalator) invokeRound(ctx context.Context, item domain.Item, round int, panel []string, out *Outcome) {
	type slot struct {
		verdict JudgeVerdict
		err     error
	}
	results := make([]slot, len(panel))

	var g errgroup.Group
	for i, judgeID := range panel {
		g.Go(func() error {
			callCtx := ctx
			if e.policy.JudgeTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, e.policy.JudgeTimeout)
				defer cancel()
			}
			v, err := e.invoker.Invoke(callCtx, judgeID, item)
			results[i] = slot{verdict: v, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, judgeID := range panel {
		out.JudgesUsed = append(out.JudgesUsed, judgeID)
		if err := results[i].err; err != nil {
			out.FailedJudges = append(out.FailedJudges, judgeID)
			judgeFailures.WithLabelValues(judgeID).Inc()
			e.logger.Warn("judge invocation failed",
				zap.String("item_id", item.ID),
				zap.String("judge_id", judgeID),
				zap.Int("round", round),
				zap.Error(err),
			)
			continue
		}
		v := results[i].verdict
		out.Scores = append(out.Scores, NormalizeJudgeScore(judgeID, round, v.Scores, v.Evidence))
	}
}

// drivingTrait es el rasgo primario; si no esta declarado, el rasgo con peor acuerdo.
func drivingTrait(item domain.Item, scores []domain.JudgeScore) domain.Trait {
	if item.HasPrimaryTrait() {
		return item.PrimaryTrait
	}
	traits := domain.AllTraits()
	worst := traits[0]
	worstDispute := AssessReliability(worst, traitScores(scores, worst))
	for _, t := range traits[1:] {
		d := AssessReliability(t, traitScores(scores, t))
		if d.Severity.Rank() > worstDispute.Severity.Rank() ||
			(d.Severity == worstDispute.Severity && d.Reliability < worstDispute.Reliability) {
			worst, worstDispute = t, d
		}
	}
	return worst
}

// traitScores extrae los puntajes de un rasgo en orden de llegada.
func traitScores(scores []domain.JudgeScore, trait domain.Trait) []int {
	out := make([]int, 0, len(scores))
	for _, s := range scores {
		out = append(out, s.Scores.Get(trait))
	}
	return out
}
