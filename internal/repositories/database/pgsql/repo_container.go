package pgsql

import (
	portsrepo "github.com/conectcrm/conciliador/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		StatementRepo:   newPgxStatementRepository(dbPool),
		PayableRepo:     newPgxPayableRepository(dbPool),
		BankAccountRepo: newPgxBankAccountRepository(dbPool),
	}
}
