package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/conectcrm/conciliador/internal/apperrors"
	portssvc "github.com/conectcrm/conciliador/internal/core/ports/services"
	"github.com/conectcrm/conciliador/internal/dto"
	"github.com/conectcrm/conciliador/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes bounds the statement file size accepted on import.
const maxUploadBytes = 10 << 20 // 10 MiB

// statementImportHandler handles HTTP requests related to statement imports.
type statementImportHandler struct {
	importService   portssvc.StatementImportSvc
	matchingService portssvc.MatchingSvc
}

// newStatementImportHandler creates a new statementImportHandler.
func newStatementImportHandler(is portssvc.StatementImportSvc, ms portssvc.MatchingSvc) *statementImportHandler {
	return &statementImportHandler{
		importService:   is,
		matchingService: ms,
	}
}

// RegisterStatementImportRoutes registers routes related to statement imports.
func RegisterStatementImportRoutes(rg *gin.RouterGroup, is portssvc.StatementImportSvc, ms portssvc.MatchingSvc) {
	h := newStatementImportHandler(is, ms)

	imports := rg.Group("/statement-imports")
	{
		imports.POST("", h.importStatement)
		imports.GET("", h.listImports)
		imports.GET("/:id/lines", h.listImportLines)
		imports.POST("/:id/match", h.runMatching)
	}
}

// importStatement godoc
// @Summary Import a bank statement file
// @Description Normalizes a CSV or OFX statement file and persists the import with all of its lines
// @Tags statement-imports
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Statement file (CSV or OFX)"
// @Param   bankAccountId formData string true "Target bank account ID"
// @Success 201 {object} dto.ImportStatementResult
// @Failure 400 {object} map[string]string "Invalid account, unsupported format or no valid records"
// @Failure 500 {object} map[string]string "Failed to import statement"
// @Router /statement-imports [post]
func (h *statementImportHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing tenant scope"})
		return
	}
	actorID := middleware.GetUserIDFromContext(c)

	var req dto.ImportStatementRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn("Failed to bind import request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing statement file"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "statement file exceeds the upload limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read statement file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read statement file"})
		return
	}

	logger.Info("Received statement import request",
		slog.String("bank_account_id", req.BankAccountID),
		slog.String("file_name", fileHeader.Filename),
		slog.Int("size", len(content)))

	result, err := h.importService.ImportStatement(c.Request.Context(), tenantID, actorID, dto.ImportStatementInput{
		BankAccountID: req.BankAccountID,
		FileName:      fileHeader.Filename,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		Content:       content,
	})
	if err != nil {
		var noValid *apperrors.NoValidRecordsError
		if errors.As(err, &noValid) {
			logger.Warn("Statement import produced no valid records", slog.Int("error_count", len(noValid.RowErrors)))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "no valid records found in statement file",
				"errors": noValid.RowErrors,
			})
			return
		}
		respondServiceError(c, logger, err, "Failed to import statement")
		return
	}

	logger.Info("Statement imported", slog.String("import_id", result.Import.ID), slog.Int("total_lines", result.Import.TotalLines))
	c.JSON(http.StatusCreated, result)
}

// listImports godoc
// @Summary List statement imports
// @Description Lists the tenant's most recent statement imports, newest first
// @Tags statement-imports
// @Produce  json
// @Param   bankAccountId query string false "Filter by bank account ID"
// @Param   limit query int false "Max results (default 20, max 100)"
// @Success 200 {array} dto.ImportSummaryResponse
// @Failure 500 {object} map[string]string "Failed to list imports"
// @Router /statement-imports [get]
func (h *statementImportHandler) listImports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing tenant scope"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	imports, err := h.importService.ListImports(c.Request.Context(), tenantID, c.Query("bankAccountId"), limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list imports")
		return
	}
	c.JSON(http.StatusOK, imports)
}

// listImportLines godoc
// @Summary List lines of an import
// @Description Lists the lines of one statement import, most recent entry date first
// @Tags statement-imports
// @Produce  json
// @Param   id path string true "Import ID"
// @Param   reconciled query bool false "Filter by reconciliation state"
// @Param   limit query int false "Max results (default 200, max 500)"
// @Success 200 {array} dto.LineResponse
// @Failure 404 {object} map[string]string "Import not found"
// @Failure 500 {object} map[string]string "Failed to list lines"
// @Router /statement-imports/{id}/lines [get]
func (h *statementImportHandler) listImportLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing tenant scope"})
		return
	}

	var reconciled *bool
	if raw := c.Query("reconciled"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reconciled must be a boolean"})
			return
		}
		reconciled = &value
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	lines, err := h.importService.ListImportLines(c.Request.Context(), c.Param("id"), tenantID, reconciled, limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list import lines")
		return
	}
	c.JSON(http.StatusOK, lines)
}

// runMatching godoc
// @Summary Run automatic matching over an import
// @Description Evaluates every unreconciled debit line of the import and reconciles unambiguous high-confidence matches
// @Tags statement-imports
// @Accept  json
// @Produce  json
// @Param   id path string true "Import ID"
// @Param   request body dto.MatchRunRequest false "Matching options"
// @Success 200 {object} dto.MatchRunResult
// @Failure 400 {object} map[string]string "Invalid tolerance"
// @Failure 404 {object} map[string]string "Import not found"
// @Failure 500 {object} map[string]string "Failed to run matching"
// @Router /statement-imports/{id}/match [post]
func (h *statementImportHandler) runMatching(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing tenant scope"})
		return
	}
	actorID := middleware.GetUserIDFromContext(c)

	var req dto.MatchRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind match request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	result, err := h.matchingService.RunAutomaticMatching(c.Request.Context(), c.Param("id"), tenantID, actorID, req.ToleranceDays)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to run automatic matching")
		return
	}
	c.JSON(http.StatusOK, result)
}
