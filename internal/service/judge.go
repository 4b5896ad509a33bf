package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"psy-consensus/internal/consensus"
	"psy-consensus/internal/domain"
	"psy-consensus/internal/llm"
)

var (
	// ErrJudgeOutput indica que el juez respondio algo que no se puede interpretar.
	ErrJudgeOutput = errors.New("judge output unusable")
	// ErrUnknownJudge se devuelve al invocar un juez que no esta registrado.
	ErrUnknownJudge = errors.New("unknown judge")
)

// LLMJudge consulta a un LLM por juez. Cada juez es un cliente (modelo) distinto.
type LLMJudge struct {
	clients map[string]llm.LLMClient
	order   []string
	logger  *zap.Logger
}

func NewLLMJudge(logger *zap.Logger) *LLMJudge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMJudge{
		clients: make(map[string]llm.LLMClient),
		logger:  logger,
	}
}

// Register agrega un juez al pool. Registrar dos veces el mismo id reemplaza el cliente.
func (j *LLMJudge) Register(judgeID string, client llm.LLMClient) *LLMJudge {
	judgeID = strings.TrimSpace(judgeID)
	if judgeID == "" || client == nil {
		return j
	}
	if _, ok := j.clients[judgeID]; !ok {
		j.order = append(j.order, judgeID)
	}
	j.clients[judgeID] = client
	return j
}

// JudgeIDs devuelve el pool en orden de registro.
func (j *LLMJudge) JudgeIDs() []string {
	return append([]string(nil), j.order...)
}

// Invoke implementa consensus.JudgeInvoker.
func (j *LLMJudge) Invoke(ctx context.Context, judgeID string, item domain.Item) (consensus.JudgeVerdict, error) {
	client, ok := j.clients[judgeID]
	if !ok {
		return consensus.JudgeVerdict{}, fmt.Errorf("%w: %s", ErrUnknownJudge, judgeID)
	}

	raw, err := client.Generate(ctx, buildJudgePrompt(item))
	if err != nil {
		return consensus.JudgeVerdict{}, fmt.Errorf("llm generate: %w", err)
	}

	verdict, err := parseJudgeOutput(raw)
	if err != nil {
		j.logger.Debug("judge output rejected",
			zap.String("judge_id", judgeID),
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
		return consensus.JudgeVerdict{}, err
	}
	return verdict, nil
}

type judgeOutput struct {
	Evidence    string         `json:"evidence"`
	Scores      map[string]any `json:"scores"`
	TraitScores map[string]any `json:"trait_scores"`
}

func parseJudgeOutput(raw string) (consensus.JudgeVerdict, error) {
	jsonStr := extractJudgeJSON(cleanLLMJSONResponse(raw))
	if jsonStr == "" {
		return consensus.JudgeVerdict{}, fmt.Errorf("%w: no json object with scores in %q", ErrJudgeOutput, truncateForLog(raw))
	}

	var out judgeOutput
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return consensus.JudgeVerdict{}, fmt.Errorf("%w: %v", ErrJudgeOutput, err)
	}
	scores := out.Scores
	if len(scores) == 0 {
		scores = out.TraitScores
	}
	if len(scores) == 0 {
		return consensus.JudgeVerdict{}, fmt.Errorf("%w: missing scores", ErrJudgeOutput)
	}

	return consensus.JudgeVerdict{
		Scores:   scores,
		Evidence: strings.TrimSpace(out.Evidence),
	}, nil
}

func buildJudgePrompt(item domain.Item) string {
	var b strings.Builder
	b.WriteString(`Eres un psicologo evaluador del modelo Big Five. Lee la pregunta y la respuesta de la persona evaluada y puntua cada rasgo.
Reglas:
- Usa SOLO los valores 1 (bajo), 3 (neutral) o 5 (alto).
- Puntua los cinco rasgos aunque la pregunta apunte a uno solo.
- Puntua lo que la respuesta muestra, no lo que la pregunta busca.
- Devuelve SOLO un JSON con este formato:
{
  "evidence": "cita breve de la respuesta que justifica el puntaje",
  "scores": {"openness": 3, "conscientiousness": 3, "extraversion": 3, "agreeableness": 3, "neuroticism": 3}
}`)
	if item.HasPrimaryTrait() {
		fmt.Fprintf(&b, "\n\nRasgo que explora la pregunta: %s", item.PrimaryTrait)
	}
	if ctx := strings.TrimSpace(item.Context); ctx != "" {
		b.WriteString("\n\nPregunta:\n")
		b.WriteString(ctx)
	}
	b.WriteString("\n\nRespuesta:\n")
	b.WriteString(strings.TrimSpace(item.AnswerText))
	return b.String()
}

func truncateForLog(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
