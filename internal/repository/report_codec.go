package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"psy-consensus/internal/domain"
)

// Las columnas JSONB viajan como []byte; pgx las envia y lee sin conversion.

type rowScanner interface {
	Scan(dest ...any) error
}

type encodedReport struct {
	traitTotals []byte
	rawTotals   []byte
	perTrait    []byte
	degraded    []byte
}

type encodedResolution struct {
	raw           []byte
	adjusted      []byte
	judges        []byte
	failed        []byte
	reliability   []byte
	substitutions []byte
}

func encodeReport(report domain.Report) (encodedReport, error) {
	var (
		out encodedReport
		err error
	)
	agg := report.Aggregate
	if out.traitTotals, err = json.Marshal(agg.TraitTotals); err != nil {
		return out, fmt.Errorf("encode trait totals: %w", err)
	}
	if out.rawTotals, err = json.Marshal(agg.RawTotals); err != nil {
		return out, fmt.Errorf("encode raw totals: %w", err)
	}
	if out.perTrait, err = json.Marshal(agg.PerTraitReliability); err != nil {
		return out, fmt.Errorf("encode reliability: %w", err)
	}
	if out.degraded, err = json.Marshal(emptyIfNil(agg.DegradedItems)); err != nil {
		return out, fmt.Errorf("encode degraded items: %w", err)
	}
	return out, nil
}

func encodeResolution(res domain.ItemResolution) (encodedResolution, error) {
	var (
		out encodedResolution
		err error
	)
	fields := []struct {
		name string
		src  any
		dst  *[]byte
	}{
		{"raw_final_scores", res.RawFinalScores, &out.raw},
		{"adjusted_final_scores", res.AdjustedFinalScores, &out.adjusted},
		{"judges_used", emptyIfNil(res.JudgesUsed), &out.judges},
		{"failed_judges", emptyIfNil(res.FailedJudges), &out.failed},
		{"reliability_by_trait", res.ReliabilityByTrait, &out.reliability},
		{"substitutions", emptyIfNil(res.Substitutions), &out.substitutions},
	}
	for _, f := range fields {
		if *f.dst, err = json.Marshal(f.src); err != nil {
			return out, fmt.Errorf("encode %s for item %s: %w", f.name, res.ItemID, err)
		}
	}
	return out, nil
}

func scanReport(row rowScanner) (domain.Report, error) {
	var (
		report                                     domain.Report
		traitTotals, rawTotals, perTrait, degraded []byte
		createdAt                                  time.Time
	)
	if err := row.Scan(
		&report.ID,
		&report.SubjectID,
		&traitTotals,
		&rawTotals,
		&report.Aggregate.CategoricalType,
		&perTrait,
		&report.Aggregate.OverallReliability,
		&degraded,
		&createdAt,
	); err != nil {
		return domain.Report{}, err
	}
	report.CreatedAt = createdAt.UTC()

	for _, col := range []struct {
		name string
		data []byte
		dst  any
	}{
		{"trait_totals", traitTotals, &report.Aggregate.TraitTotals},
		{"raw_totals", rawTotals, &report.Aggregate.RawTotals},
		{"per_trait_reliability", perTrait, &report.Aggregate.PerTraitReliability},
		{"degraded_items", degraded, &report.Aggregate.DegradedItems},
	} {
		if err := json.Unmarshal(col.data, col.dst); err != nil {
			return domain.Report{}, fmt.Errorf("decode %s for report %s: %w", col.name, report.ID, err)
		}
	}
	if len(report.Aggregate.DegradedItems) == 0 {
		report.Aggregate.DegradedItems = nil
	}
	return report, nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
