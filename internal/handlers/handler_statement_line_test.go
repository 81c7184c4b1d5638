package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/conectcrm/conciliador/internal/apperrors"
	portssvc "github.com/conectcrm/conciliador/internal/core/ports/services"
	"github.com/conectcrm/conciliador/internal/dto"
	"github.com/conectcrm/conciliador/internal/handlers"
	"github.com/conectcrm/conciliador/internal/middleware"
)

// --- Mock MatchingService ---
type MockMatchingService struct {
	mock.Mock
}

func (m *MockMatchingService) ListCandidates(ctx context.Context, lineID, tenantID string, limit int) ([]dto.CandidateResponse, error) {
	args := m.Called(ctx, lineID, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CandidateResponse), args.Error(1)
}

func (m *MockMatchingService) RunAutomaticMatching(ctx context.Context, importID, tenantID, actorID string, toleranceDays *int) (*dto.MatchRunResult, error) {
	args := m.Called(ctx, importID, tenantID, actorID, toleranceDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MatchRunResult), args.Error(1)
}

var _ portssvc.MatchingSvc = (*MockMatchingService)(nil)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ReconcileManual(ctx context.Context, lineID, payableID, tenantID, actorID, note string) (*dto.LineResponse, error) {
	args := m.Called(ctx, lineID, payableID, tenantID, actorID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LineResponse), args.Error(1)
}

func (m *MockReconciliationService) UndoReconciliation(ctx context.Context, lineID, tenantID, actorID, note string) (*dto.LineResponse, error) {
	args := m.Called(ctx, lineID, tenantID, actorID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LineResponse), args.Error(1)
}

var _ portssvc.ReconciliationSvc = (*MockReconciliationService)(nil)

// --- Test Suite ---
type StatementLineHandlerTestSuite struct {
	suite.Suite
	router                    *gin.Engine
	mockMatchingService       *MockMatchingService
	mockReconciliationService *MockReconciliationService
	tenantID                  string
	userID                    string
}

func (suite *StatementLineHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterCustomValidators()
	suite.router = gin.New()

	// Use the actual tenant scoping middleware
	suite.router.Use(middleware.TenantScopeMiddleware())

	suite.mockMatchingService = new(MockMatchingService)
	suite.mockReconciliationService = new(MockReconciliationService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterStatementLineRoutes(v1, suite.mockMatchingService, suite.mockReconciliationService)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *StatementLineHandlerTestSuite) serve(method, url string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	req.Header.Set(middleware.TenantHeader, suite.tenantID)
	req.Header.Set(middleware.UserHeader, suite.userID)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *StatementLineHandlerTestSuite) TestListCandidates_Success() {
	lineID := uuid.NewString()
	expected := []dto.CandidateResponse{
		{PayableID: uuid.NewString(), Number: "2026/001", Score: 95, Criteria: []string{"exact_value", "same_day"}},
		{PayableID: uuid.NewString(), Number: "CP-A1B2C3D4", Score: 40, Criteria: []string{"approximate_value"}},
	}

	suite.mockMatchingService.On("ListCandidates", mock.Anything, lineID, suite.tenantID, 10).Return(expected, nil).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/statement-lines/%s/candidates?limit=10", lineID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var got []dto.CandidateResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Len(got, 2)
	suite.Equal(expected[0].PayableID, got[0].PayableID)
	suite.Equal(95, got[0].Score)
	suite.mockMatchingService.AssertExpectations(suite.T())
}

func (suite *StatementLineHandlerTestSuite) TestListCandidates_MissingTenantHeader() {
	lineID := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/statement-lines/%s/candidates", lineID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockMatchingService.AssertNotCalled(suite.T(), "ListCandidates")
}

func (suite *StatementLineHandlerTestSuite) TestListCandidates_LineNotFound() {
	lineID := uuid.NewString()

	suite.mockMatchingService.On("ListCandidates", mock.Anything, lineID, suite.tenantID, 0).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/statement-lines/%s/candidates", lineID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *StatementLineHandlerTestSuite) TestReconcile_Success() {
	lineID := uuid.NewString()
	payableID := uuid.NewString()
	expected := &dto.LineResponse{ID: lineID, Reconciled: true, PayableID: &payableID, Source: "manual"}

	suite.mockReconciliationService.On("ReconcileManual", mock.Anything, lineID, payableID, suite.tenantID, suite.userID, "duplicated supplier invoice").
		Return(expected, nil).Once()

	body, _ := json.Marshal(dto.ReconcileLineRequest{PayableID: payableID, Note: "duplicated supplier invoice"})
	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/statement-lines/%s/reconcile", lineID), body)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.LineResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.Reconciled)
	suite.Require().NotNil(got.PayableID)
	suite.Equal(payableID, *got.PayableID)
	suite.mockReconciliationService.AssertExpectations(suite.T())
}

func (suite *StatementLineHandlerTestSuite) TestReconcile_MissingPayableID() {
	lineID := uuid.NewString()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/statement-lines/%s/reconcile", lineID), []byte(`{"note":"x"}`))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReconciliationService.AssertNotCalled(suite.T(), "ReconcileManual")
}

func (suite *StatementLineHandlerTestSuite) TestReconcile_PayableNotEligible() {
	lineID := uuid.NewString()
	payableID := uuid.NewString()

	suite.mockReconciliationService.On("ReconcileManual", mock.Anything, lineID, payableID, suite.tenantID, suite.userID, "").
		Return(nil, fmt.Errorf("payable must have status paid to be reconciled: %w", apperrors.ErrInvalidState)).Once()

	body, _ := json.Marshal(dto.ReconcileLineRequest{PayableID: payableID})
	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/statement-lines/%s/reconcile", lineID), body)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *StatementLineHandlerTestSuite) TestUnreconcile_Success() {
	lineID := uuid.NewString()
	expected := &dto.LineResponse{ID: lineID, Reconciled: false}

	suite.mockReconciliationService.On("UndoReconciliation", mock.Anything, lineID, suite.tenantID, suite.userID, "").
		Return(expected, nil).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/statement-lines/%s/unreconcile", lineID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.LineResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.False(got.Reconciled)
	suite.mockReconciliationService.AssertExpectations(suite.T())
}

func (suite *StatementLineHandlerTestSuite) TestUnreconcile_NotReconciled() {
	lineID := uuid.NewString()

	suite.mockReconciliationService.On("UndoReconciliation", mock.Anything, lineID, suite.tenantID, suite.userID, "").
		Return(nil, fmt.Errorf("line is not reconciled: %w", apperrors.ErrInvalidState)).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/statement-lines/%s/unreconcile", lineID), nil)

	suite.Equal(http.StatusConflict, w.Code)
}

// --- Run Test Suite ---
func TestStatementLineHandler(t *testing.T) {
	suite.Run(t, new(StatementLineHandlerTestSuite))
}
