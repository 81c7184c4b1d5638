package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/conectcrm/conciliador/internal/apperrors"
	portssvc "github.com/conectcrm/conciliador/internal/core/ports/services"
	"github.com/conectcrm/conciliador/internal/dto"
	"github.com/conectcrm/conciliador/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statementLineHandler handles HTTP requests on individual statement lines.
type statementLineHandler struct {
	matchingService       portssvc.MatchingSvc
	reconciliationService portssvc.ReconciliationSvc
}

// newStatementLineHandler creates a new statementLineHandler.
func newStatementLineHandler(ms portssvc.MatchingSvc, rs portssvc.ReconciliationSvc) *statementLineHandler {
	return &statementLineHandler{
		matchingService:       ms,
		reconciliationService: rs,
	}
}

// RegisterStatementLineRoutes registers routes related to statement lines.
func RegisterStatementLineRoutes(rg *gin.RouterGroup, ms portssvc.MatchingSvc, rs portssvc.ReconciliationSvc) {
	h := newStatementLineHandler(ms, rs)

	lines := rg.Group("/statement-lines")
	{
		lines.GET("/:id/candidates", h.listCandidates)
		lines.POST("/:id/reconcile", h.reconcile)
		lines.POST("/:id/unreconcile", h.unreconcile)
	}
}

// listCandidates godoc
// @Summary List payable candidates for a line
// @Description Returns scored payable candidates for one statement line, ranked by score descending
// @Tags statement-lines
// @Produce  json
// @Param   id path string true "Line ID"
// @Param   limit query int false "Max results (default 10, max 50)"
// @Success 200 {array} dto.CandidateResponse
// @Failure 404 {object} map[string]string "Line not found"
// @Failure 500 {object} map[string]string "Failed to list candidates"
// @Router /statement-lines/{id}/candidates [get]
func (h *statementLineHandler) listCandidates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing tenant scope"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	candidates, err := h.matchingService.ListCandidates(c.Request.Context(), c.Param("id"), tenantID, limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list candidates")
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// reconcile godoc
// @Summary Manually reconcile a line against a payable
// @Description Links a statement line to a paid payable on behalf of the acting user
// @Tags statement-lines
// @Accept  json
// @Produce  json
// @Param   id path string true "Line ID"
// @Param   request body dto.ReconcileLineRequest true "Reconciliation details"
// @Success 200 {object} dto.LineResponse
// @Failure 400 {object} map[string]string "Invalid request or payable"
// @Failure 404 {object} map[string]string "Line or payable not found"
// @Failure 409 {object} map[string]string "Line already reconciled or payable not eligible"
// @Failure 500 {object} map[string]string "Failed to reconcile line"
// @Router /statement-lines/{id}/reconcile [post]
func (h *statementLineHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing tenant scope"})
		return
	}
	actorID := middleware.GetUserIDFromContext(c)

	var req dto.ReconcileLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind reconcile request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	line, err := h.reconciliationService.ReconcileManual(c.Request.Context(), c.Param("id"), req.PayableID, tenantID, actorID, req.Note)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reconcile line")
		return
	}

	logger.Info("Line reconciled manually", slog.String("line_id", line.ID), slog.String("payable_id", req.PayableID))
	c.JSON(http.StatusOK, line)
}

// unreconcile godoc
// @Summary Undo the reconciliation of a line
// @Description Clears a line's reconciliation state, keeping the audit trail
// @Tags statement-lines
// @Accept  json
// @Produce  json
// @Param   id path string true "Line ID"
// @Param   request body dto.UndoReconciliationRequest false "Undo details"
// @Success 200 {object} dto.LineResponse
// @Failure 404 {object} map[string]string "Line not found"
// @Failure 409 {object} map[string]string "Line is not reconciled"
// @Failure 500 {object} map[string]string "Failed to undo reconciliation"
// @Router /statement-lines/{id}/unreconcile [post]
func (h *statementLineHandler) unreconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing tenant scope"})
		return
	}
	actorID := middleware.GetUserIDFromContext(c)

	var req dto.UndoReconciliationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind unreconcile request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	line, err := h.reconciliationService.UndoReconciliation(c.Request.Context(), c.Param("id"), tenantID, actorID, req.Note)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to undo reconciliation")
		return
	}

	logger.Info("Reconciliation undone", slog.String("line_id", line.ID))
	c.JSON(http.StatusOK, line)
}

// respondServiceError maps service errors to HTTP status codes.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflicting state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
