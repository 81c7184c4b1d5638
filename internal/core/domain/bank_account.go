package domain

// BankAccount is the registry entry a statement import targets. The engine
// only reads accounts; ownership lives with the account registry.
type BankAccount struct {
	AccountID string `json:"accountID"`
	TenantID  string `json:"tenantID"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
}
