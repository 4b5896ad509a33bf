package domain

import "time"

// Severity resume cuanto discrepan los jueces sobre un rasgo.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank ordena severidades de menor a mayor.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	}
	return -1
}

// TraitDispute es el estado transitorio de la disputa de un rasgo durante la resolucion.
type TraitDispute struct {
	Trait       Trait    `json:"trait"`
	Scores      []int    `json:"scores"`
	Reliability float64  `json:"reliability"`
	Severity    Severity `json:"severity"`
}

// ResolutionReason indica por que se cerro la disputa del rasgo primario.
type ResolutionReason string

const (
	ResolutionAgreement       ResolutionReason = "agreement"
	ResolutionMajority        ResolutionReason = "majority"
	ResolutionBudgetExhausted ResolutionReason = "budget_exhausted"
	ResolutionNoScores        ResolutionReason = "no_scores"
)

// ItemResolution es el resultado final y durable de un item.
type ItemResolution struct {
	ItemID       string `json:"item_id"`
	PrimaryTrait Trait  `json:"primary_trait,omitempty"`
	IsReversed   bool   `json:"is_reversed"`
	// RawFinalScores antes de invertir; AdjustedFinalScores es lo que se agrega.
	RawFinalScores      Big5Profile       `json:"raw_final_scores"`
	AdjustedFinalScores Big5Profile       `json:"adjusted_final_scores"`
	RoundsUsed          int               `json:"rounds_used"`
	JudgesUsed          []string          `json:"judges_used"`
	FailedJudges        []string          `json:"failed_judges,omitempty"`
	ReliabilityByTrait  map[Trait]float64 `json:"reliability_by_trait"`
	Resolution          ResolutionReason  `json:"resolution"`
	DrivingTrait        Trait             `json:"driving_trait"`
	Substitutions       []Trait           `json:"substitutions,omitempty"`
}

// Degraded indica que el rasgo que dirigio la disputa no recibio ningun puntaje.
func (r ItemResolution) Degraded() bool { return r.Resolution == ResolutionNoScores }

// ReportAggregate es la reduccion de todas las resoluciones de un reporte.
type ReportAggregate struct {
	TraitTotals         Big5Profile       `json:"trait_totals"`
	RawTotals           map[Trait]float64 `json:"raw_totals"`
	CategoricalType     string            `json:"categorical_type"`
	OverallReliability  float64           `json:"overall_reliability"`
	PerTraitReliability map[Trait]float64 `json:"per_trait_reliability"`
	DegradedItems       []string          `json:"degraded_items,omitempty"`
}

// Report agrupa las resoluciones y el agregado de una evaluacion completa.
type Report struct {
	ID          string           `json:"id"`
	SubjectID   string           `json:"subject_id"`
	Resolutions []ItemResolution `json:"resolutions"`
	Aggregate   ReportAggregate  `json:"aggregate"`
	CreatedAt   time.Time        `json:"created_at"`
}
