package api

import (
	"time"

	"NoChurn/internal/domain/models"
	domrepo "NoChurn/internal/domain/repository"
	"NoChurn/internal/usecase"
	xhttp "NoChurn/pkg/http"
	xlogger "NoChurn/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChurnEchoHandler exposes the risk engine over HTTP.
type ChurnEchoHandler struct {
	logger    *xlogger.Logger
	evaluator *usecase.RiskEvaluator
	stream    *AlertStream
	store     domrepo.DiagnosisStore
	backends  map[string]func() error
}

// NewChurnEchoHandler creates the handler. The alert stream and the store may
// be nil when WebSocket streaming or persistence is disabled; the matching
// routes are not registered.
func NewChurnEchoHandler(logger *xlogger.Logger, evaluator *usecase.RiskEvaluator, stream *AlertStream, store domrepo.DiagnosisStore) *ChurnEchoHandler {
	return &ChurnEchoHandler{
		logger:    logger,
		evaluator: evaluator,
		stream:    stream,
		store:     store,
		backends:  make(map[string]func() error),
	}
}

// RegisterBackendCheck adds a named dependency probe to the health report.
func (h *ChurnEchoHandler) RegisterBackendCheck(name string, check func() error) {
	h.backends[name] = check
}

func (h *ChurnEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/predict", h.Predict)
	g.POST("/predict/batch", h.PredictBatch)
	g.GET("/models", h.Models)
	g.GET("/health", h.Health)
	if h.stream != nil {
		g.GET("/alerts/stream", h.stream.Serve)
	}
	if h.store != nil {
		g.GET("/reports/high-risk", h.HighRiskReport)
		g.GET("/reports/tiers", h.TierReport)
	}
}

// Predict evaluates one customer record.
func (h *ChurnEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	d, err := h.evaluator.Evaluate(c.Request().Context(), req.ToRecord())
	if err != nil {
		h.logger.Error("evaluation failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, d)
}

// PredictBatch evaluates a collection of records and returns per-record
// diagnoses with a segment summary.
func (h *ChurnEchoHandler) PredictBatch(c echo.Context) error {
	req := &models.BatchPredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	records := make([]*models.CustomerRecord, 0, len(req.Records))
	for i := range req.Records {
		records = append(records, req.Records[i].ToRecord())
	}

	res, err := h.evaluator.EvaluateBatch(c.Request().Context(), records)
	if err != nil {
		h.logger.Error("batch evaluation failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Models reports the ensemble composition and per-model availability.
func (h *ChurnEchoHandler) Models(c echo.Context) error {
	return xhttp.SuccessResponse(c, &models.ModelsResponse{
		Models: h.evaluator.ModelStatus(),
	})
}

// HighRiskReport lists stored diagnoses at or above a score cutoff within a
// recency window, newest first.
func (h *ChurnEchoHandler) HighRiskReport(c echo.Context) error {
	req := &models.HighRiskReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	since := time.Now().UTC().Add(-time.Duration(req.Hours) * time.Hour)
	ds, err := h.store.QueryHighRisk(c.Request().Context(), req.MinScore, since, req.Limit)
	if err != nil {
		h.logger.Error("high-risk report failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, &models.HighRiskReportResponse{
		MinScore:  req.MinScore,
		Hours:     req.Hours,
		Diagnoses: ds,
	})
}

// TierReport returns stored diagnosis counts per tier within a recency window.
func (h *ChurnEchoHandler) TierReport(c echo.Context) error {
	req := &models.TierReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	since := time.Now().UTC().Add(-time.Duration(req.Hours) * time.Hour)
	counts, err := h.store.TierCounts(c.Request().Context(), since)
	if err != nil {
		h.logger.Error("tier report failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, &models.TierReportResponse{
		Hours:  req.Hours,
		Counts: counts,
	})
}

// Health reports engine and backend state. A degraded ensemble is still
// healthy: the fallback scorer guarantees availability.
func (h *ChurnEchoHandler) Health(c echo.Context) error {
	res := &models.HealthResponse{
		Status:   "ok",
		Models:   h.evaluator.ModelStatus(),
		Degraded: h.evaluator.Degraded(),
	}
	if len(h.backends) > 0 {
		res.Backends = make(map[string]string, len(h.backends))
		for name, check := range h.backends {
			if err := check(); err != nil {
				res.Backends[name] = err.Error()
				res.Status = "degraded"
			} else {
				res.Backends[name] = "ok"
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}
