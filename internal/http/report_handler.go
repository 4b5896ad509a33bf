package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"psy-consensus/internal/domain"
	"psy-consensus/internal/service"
)

// ReportService es lo que el handler necesita del servicio de evaluacion.
type ReportService interface {
	Evaluate(ctx context.Context, req service.EvaluateRequest) (domain.Report, error)
	Get(ctx context.Context, id string) (domain.Report, error)
	ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.Report, error)
}

// ReportHandler expone la evaluacion y la consulta de reportes.
type ReportHandler struct {
	logger  *zap.Logger
	reports ReportService
}

func NewReportHandler(logger *zap.Logger, reports ReportService) *ReportHandler {
	return &ReportHandler{logger: logger, reports: reports}
}

// CreateReport maneja POST /reports.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req service.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid evaluate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	report, err := h.reports.Evaluate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidItem):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("evaluate report failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not evaluate report"})
		}
		return
	}

	c.JSON(http.StatusCreated, report)
}

// GetReport maneja GET /reports/:id.
func (h *ReportHandler) GetReport(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListReports maneja GET /reports?subject_id=...&limit=...
func (h *ReportHandler) ListReports(c *gin.Context) {
	subjectID := c.Query("subject_id")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reports, err := h.reports.ListBySubject(c.Request.Context(), subjectID, limit)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *ReportHandler) writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
	case errors.Is(err, service.ErrReportStoreDisabled):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "report store disabled"})
	default:
		h.logger.Error("report lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load report"})
	}
}
