package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"psy-consensus/internal/consensus"
	"psy-consensus/internal/domain"
	"psy-consensus/internal/repository"
)

var (
	// ErrInvalidRequest cubre pedidos de evaluacion mal formados.
	ErrInvalidRequest = errors.New("invalid evaluate request")
	// ErrReportStoreDisabled se devuelve al leer reportes sin base configurada.
	ErrReportStoreDisabled = errors.New("report store disabled")
)

var requestValidate = validator.New(validator.WithRequiredStructEnabled())

// EvaluateRequest es una evaluacion completa: un sujeto y sus respuestas.
type EvaluateRequest struct {
	SubjectID string        `json:"subject_id" validate:"required"`
	Items     []domain.Item `json:"items" validate:"required,min=1"`
}

// AssessmentService corre el pipeline completo: resolucion por item, agregado y persistencia.
type AssessmentService struct {
	resolver    *consensus.Resolver
	repo        repository.ReportRepository
	concurrency int
	logger      *zap.Logger
	now         func() time.Time
}

// NewAssessmentService acepta repo nil; en ese caso los reportes no se guardan.
func NewAssessmentService(
	resolver *consensus.Resolver,
	repo repository.ReportRepository,
	concurrency int,
	logger *zap.Logger,
) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		resolver:    resolver,
		repo:        repo,
		concurrency: concurrency,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate resuelve todos los items y agrega solo cuando todas las resoluciones existen.
func (s *AssessmentService) Evaluate(ctx context.Context, req EvaluateRequest) (domain.Report, error) {
	req.SubjectID = strings.TrimSpace(req.SubjectID)
	if err := requestValidate.Struct(req); err != nil {
		return domain.Report{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	start := s.now()
	resolutions, err := s.resolver.ResolveAll(ctx, req.Items, s.concurrency)
	if err != nil {
		return domain.Report{}, err
	}

	report := domain.Report{
		ID:          uuid.NewString(),
		SubjectID:   req.SubjectID,
		Resolutions: resolutions,
		Aggregate:   consensus.Aggregate(resolutions),
		CreatedAt:   s.now(),
	}

	if len(report.Aggregate.DegradedItems) > 0 {
		s.logger.Warn("report has degraded items",
			zap.String("report_id", report.ID),
			zap.Strings("items", report.Aggregate.DegradedItems),
		)
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, report); err != nil {
			return domain.Report{}, fmt.Errorf("save report %s: %w", report.ID, err)
		}
	}

	s.logger.Info("report evaluated",
		zap.String("report_id", report.ID),
		zap.String("subject_id", report.SubjectID),
		zap.Int("items", len(resolutions)),
		zap.String("type", report.Aggregate.CategoricalType),
		zap.Float64("overall_reliability", report.Aggregate.OverallReliability),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
	return report, nil
}

// Get devuelve un reporte guardado.
func (s *AssessmentService) Get(ctx context.Context, id string) (domain.Report, error) {
	if s.repo == nil {
		return domain.Report{}, ErrReportStoreDisabled
	}
	return s.repo.GetByID(ctx, id)
}

// ListBySubject devuelve los ultimos reportes de un sujeto, sin resoluciones.
func (s *AssessmentService) ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.Report, error) {
	if s.repo == nil {
		return nil, ErrReportStoreDisabled
	}
	return s.repo.ListBySubject(ctx, subjectID, limit)
}
