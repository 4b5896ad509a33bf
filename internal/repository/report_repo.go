package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"psy-consensus/internal/domain"
)

// ReportRepository persiste reportes completos. Un reporte se guarda una sola vez.
type ReportRepository interface {
	Save(ctx context.Context, report domain.Report) error
	GetByID(ctx context.Context, id string) (domain.Report, error)
	ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.Report, error)
}

type PgReportRepository struct {
	pool *pgxpool.Pool
}

func NewPgReportRepository(pool *pgxpool.Pool) *PgReportRepository {
	return &PgReportRepository{pool: pool}
}

// Save escribe el reporte y todas sus resoluciones en una transaccion.
func (r *PgReportRepository) Save(ctx context.Context, report domain.Report) error {
	row, err := encodeReport(report)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertReport = `
		INSERT INTO reports (id, subject_id, trait_totals, raw_totals, categorical_type,
			per_trait_reliability, overall_reliability, degraded_items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := tx.Exec(ctx, insertReport,
		report.ID,
		report.SubjectID,
		row.traitTotals,
		row.rawTotals,
		report.Aggregate.CategoricalType,
		row.perTrait,
		report.Aggregate.OverallReliability,
		row.degraded,
		report.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	const insertResolution = `
		INSERT INTO item_resolutions (report_id, position, item_id, primary_trait, is_reversed,
			raw_final_scores, adjusted_final_scores, rounds_used, judges_used, failed_judges,
			reliability_by_trait, resolution, driving_trait, substitutions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	batch := &pgx.Batch{}
	for i, res := range report.Resolutions {
		enc, err := encodeResolution(res)
		if err != nil {
			return err
		}
		batch.Queue(insertResolution,
			report.ID,
			i,
			res.ItemID,
			string(res.PrimaryTrait),
			res.IsReversed,
			enc.raw,
			enc.adjusted,
			res.RoundsUsed,
			enc.judges,
			enc.failed,
			enc.reliability,
			string(res.Resolution),
			string(res.DrivingTrait),
			enc.substitutions,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert resolutions: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID devuelve pgx.ErrNoRows si el reporte no existe.
func (r *PgReportRepository) GetByID(ctx context.Context, id string) (domain.Report, error) {
	const query = `
		SELECT id, subject_id, trait_totals, raw_totals, categorical_type,
			per_trait_reliability, overall_reliability, degraded_items, created_at
		FROM reports
		WHERE id = $1
	`
	report, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Report{}, err
	}

	report.Resolutions, err = r.resolutions(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	return report, nil
}

// ListBySubject devuelve los reportes del sujeto (mas recientes primero) sin resoluciones.
func (r *PgReportRepository) ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, subject_id, trait_totals, raw_totals, categorical_type,
			per_trait_reliability, overall_reliability, degraded_items, created_at
		FROM reports
		WHERE subject_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, subjectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *PgReportRepository) resolutions(ctx context.Context, reportID string) ([]domain.ItemResolution, error) {
	const query = `
		SELECT item_id, primary_trait, is_reversed, raw_final_scores, adjusted_final_scores,
			rounds_used, judges_used, failed_judges, reliability_by_trait, resolution,
			driving_trait, substitutions
		FROM item_resolutions
		WHERE report_id = $1
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ItemResolution
	for rows.Next() {
		var (
			res                           domain.ItemResolution
			primary, resolution, driving  string
			raw, adjusted, judges, failed []byte
			reliability, substitutions    []byte
		)
		if err := rows.Scan(
			&res.ItemID,
			&primary,
			&res.IsReversed,
			&raw,
			&adjusted,
			&res.RoundsUsed,
			&judges,
			&failed,
			&reliability,
			&resolution,
			&driving,
			&substitutions,
		); err != nil {
			return nil, err
		}
		res.PrimaryTrait = domain.Trait(primary)
		res.Resolution = domain.ResolutionReason(resolution)
		res.DrivingTrait = domain.Trait(driving)

		for _, col := range []struct {
			name string
			data []byte
			dst  any
		}{
			{"raw_final_scores", raw, &res.RawFinalScores},
			{"adjusted_final_scores", adjusted, &res.AdjustedFinalScores},
			{"judges_used", judges, &res.JudgesUsed},
			{"failed_judges", failed, &res.FailedJudges},
			{"reliability_by_trait", reliability, &res.ReliabilityByTrait},
			{"substitutions", substitutions, &res.Substitutions},
		} {
			if err := json.Unmarshal(col.data, col.dst); err != nil {
				return nil, fmt.Errorf("decode %s for item %s: %w", col.name, res.ItemID, err)
			}
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
