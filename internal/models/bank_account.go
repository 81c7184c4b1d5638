package models

// BankAccount represents a bank account statements are imported into.
type BankAccount struct {
	AccountID string `db:"account_id"`
	TenantID  string `db:"tenant_id"`
	Name      string `db:"name"`
	Active    bool   `db:"active"`
	AuditFields
}
