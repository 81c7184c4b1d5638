package services

import (
	portsrepo "github.com/conectcrm/conciliador/internal/core/ports/repositories"
	portssvc "github.com/conectcrm/conciliador/internal/core/ports/services"
	"github.com/conectcrm/conciliador/internal/platform/config"
)

// NewServiceContainer wires the service layer from the repository provider.
// The batch matcher reuses the reconciliation service as its match applier so
// automatic and manual reconciliations share one mutation path.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	reconciliation := NewReconciliationService(
		repos.StatementRepo,
		repos.PayableRepo,
		WithStrictPayableLinking(cfg.StrictPayableLinking),
	)

	applier := reconciliation.(portssvc.ReconciliationApplierSvc)

	return &portssvc.ServiceContainer{
		StatementImport: NewStatementImportService(repos.StatementRepo, repos.BankAccountRepo),
		Matching:        NewMatchingService(repos.StatementRepo, repos.PayableRepo, applier),
		Reconciliation:  reconciliation,
	}
}
