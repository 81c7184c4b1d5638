package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/conectcrm/conciliador/internal/apperrors"
	"github.com/conectcrm/conciliador/internal/core/domain"
	portssvc "github.com/conectcrm/conciliador/internal/core/ports/services"
	"github.com/conectcrm/conciliador/internal/core/services"
	"github.com/conectcrm/conciliador/internal/dto"
)

type StatementImportServiceTestSuite struct {
	suite.Suite
	mockStatementRepo *MockStatementRepository
	mockAccountRepo   *MockBankAccountReader
	service           portssvc.StatementImportSvc
	tenantID          string
	actorID           string
	account           domain.BankAccount
}

func (suite *StatementImportServiceTestSuite) SetupTest() {
	suite.mockStatementRepo = new(MockStatementRepository)
	suite.mockAccountRepo = new(MockBankAccountReader)
	suite.service = services.NewStatementImportService(suite.mockStatementRepo, suite.mockAccountRepo)

	suite.tenantID = uuid.NewString()
	suite.actorID = uuid.NewString()
	suite.account = domain.BankAccount{
		AccountID: uuid.NewString(),
		TenantID:  suite.tenantID,
		Name:      "Conta Corrente",
		Active:    true,
	}
}

func (suite *StatementImportServiceTestSuite) input(fileName, content string) dto.ImportStatementInput {
	return dto.ImportStatementInput{
		BankAccountID: suite.account.AccountID,
		FileName:      fileName,
		Content:       []byte(content),
	}
}

func (suite *StatementImportServiceTestSuite) TestImportStatement_Success() {
	ctx := context.Background()
	csv := "data;descricao;valor\n" +
		"10/01/2026;PIX RECEBIDO;300,00\n" +
		"12/01/2026;PAGTO FORNECEDOR;-150,00\n"

	suite.mockAccountRepo.On("FindActiveAccount", ctx, suite.account.AccountID, suite.tenantID).Return(&suite.account, nil).Once()
	suite.mockStatementRepo.On("SaveImportWithLines", ctx, mock.AnythingOfType("domain.StatementImport"), mock.AnythingOfType("[]domain.StatementLine")).Return(nil).Once()

	result, err := suite.service.ImportStatement(ctx, suite.tenantID, suite.actorID, suite.input("extrato.csv", csv))

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(2, result.Import.TotalLines)
	suite.Equal("300", result.Import.TotalCredit.String())
	suite.Equal("150", result.Import.TotalDebit.String())
	suite.Require().NotNil(result.Resume.PeriodStart)
	suite.Equal("2026-01-10", *result.Resume.PeriodStart)
	suite.Require().NotNil(result.Resume.PeriodEnd)
	suite.Equal("2026-01-12", *result.Resume.PeriodEnd)
	suite.Empty(result.Errors)
	suite.Len(result.PreviewLines, 2)

	savedImport := suite.mockStatementRepo.Calls[0].Arguments.Get(1).(domain.StatementImport)
	suite.Equal(domain.ImportStatusProcessed, savedImport.Status)
	suite.Equal(suite.actorID, savedImport.CreatedBy)

	savedLines := suite.mockStatementRepo.Calls[0].Arguments.Get(2).([]domain.StatementLine)
	suite.Require().Len(savedLines, 2)
	suite.Equal(domain.LineKindCredit, savedLines[0].Kind)
	suite.Equal(domain.LineKindDebit, savedLines[1].Kind)
	suite.False(savedLines[0].Reconciled)

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockStatementRepo.AssertExpectations(suite.T())
}

func (suite *StatementImportServiceTestSuite) TestImportStatement_PreviewCappedAtTwenty() {
	ctx := context.Background()
	csv := "data;descricao;valor\n"
	for i := 0; i < 25; i++ {
		csv += "10/01/2026;LANCAMENTO;10,00\n"
	}

	suite.mockAccountRepo.On("FindActiveAccount", ctx, suite.account.AccountID, suite.tenantID).Return(&suite.account, nil).Once()
	suite.mockStatementRepo.On("SaveImportWithLines", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.ImportStatement(ctx, suite.tenantID, suite.actorID, suite.input("extrato.csv", csv))

	suite.Require().NoError(err)
	suite.Equal(25, result.Import.TotalLines)
	suite.Len(result.PreviewLines, 20)
}

func (suite *StatementImportServiceTestSuite) TestImportStatement_EmptyFile() {
	ctx := context.Background()

	_, err := suite.service.ImportStatement(ctx, suite.tenantID, suite.actorID, suite.input("extrato.csv", ""))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindActiveAccount")
}

func (suite *StatementImportServiceTestSuite) TestImportStatement_UnknownAccount() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindActiveAccount", ctx, suite.account.AccountID, suite.tenantID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ImportStatement(ctx, suite.tenantID, suite.actorID, suite.input("extrato.csv", "data;valor\n10/01/2026;1,00\n"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "SaveImportWithLines")
}

func (suite *StatementImportServiceTestSuite) TestImportStatement_UnsupportedFormat() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindActiveAccount", ctx, suite.account.AccountID, suite.tenantID).Return(&suite.account, nil).Once()

	input := suite.input("statement.pdf", "%PDF")
	input.ContentType = "application/pdf"
	_, err := suite.service.ImportStatement(ctx, suite.tenantID, suite.actorID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StatementImportServiceTestSuite) TestImportStatement_NoValidRecords() {
	ctx := context.Background()
	csv := "data;descricao\n" +
		"10/01/2026;SEM COLUNA DE VALOR\n"

	suite.mockAccountRepo.On("FindActiveAccount", ctx, suite.account.AccountID, suite.tenantID).Return(&suite.account, nil).Once()

	_, err := suite.service.ImportStatement(ctx, suite.tenantID, suite.actorID, suite.input("extrato.csv", csv))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoValidRecords)

	var noValid *apperrors.NoValidRecordsError
	suite.Require().ErrorAs(err, &noValid)
	suite.Len(noValid.RowErrors, 1)
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "SaveImportWithLines")
}

func (suite *StatementImportServiceTestSuite) TestImportStatement_PersistenceFailurePropagates() {
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	suite.mockAccountRepo.On("FindActiveAccount", ctx, suite.account.AccountID, suite.tenantID).Return(&suite.account, nil).Once()
	suite.mockStatementRepo.On("SaveImportWithLines", ctx, mock.Anything, mock.Anything).Return(dbErr).Once()

	_, err := suite.service.ImportStatement(ctx, suite.tenantID, suite.actorID, suite.input("extrato.csv", "data;valor\n10/01/2026;1,00\n"))

	suite.Require().Error(err)
	suite.ErrorIs(err, dbErr)
}

func (suite *StatementImportServiceTestSuite) TestListImports_LimitNormalized() {
	ctx := context.Background()

	suite.mockStatementRepo.On("ListImports", ctx, suite.tenantID, "", 20).Return([]domain.StatementImport{}, nil).Once()
	_, err := suite.service.ListImports(ctx, suite.tenantID, "", 0)
	suite.NoError(err)

	suite.mockStatementRepo.On("ListImports", ctx, suite.tenantID, "", 100).Return([]domain.StatementImport{}, nil).Once()
	_, err = suite.service.ListImports(ctx, suite.tenantID, "", 9999)
	suite.NoError(err)

	suite.mockStatementRepo.AssertExpectations(suite.T())
}

func (suite *StatementImportServiceTestSuite) TestListImportLines_UnknownImport() {
	ctx := context.Background()
	importID := uuid.NewString()

	suite.mockStatementRepo.On("FindImportByID", ctx, importID, suite.tenantID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListImportLines(ctx, importID, suite.tenantID, nil, 0)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "ListLinesByImport")
}

func TestStatementImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatementImportServiceTestSuite))
}
