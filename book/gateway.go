/*
gateway.go - Persistence interface for the bookkeeping collections

PURPOSE:
  Defines the narrow interface between the domain and the external
  document store. Different adapters can use SQLite, a hosted document
  database, or in-memory storage; the domain never sees which.

COLLECTION GRAMMAR:
  Customers                                      list, create, delete
  Customers/{cid}/SubCustomers                   list, create, delete
  Customers/{cid}/Accounts                       list, create, update, delete
  Customers/{cid}/SubCustomers/{sid}/Accounts    list, create, update, delete
  AdminAccount (flat)                            list, create, update, delete

CONTRACT NOTES:
  - List ordering is unspecified. The store does not guarantee insertion
    order; callers sort explicitly when they care.
  - Create generates a fresh id client-side (so callers can use it
    immediately) and computes derived totals before the write.
  - UpdateAccount merges the patch onto the stored record FIRST, then
    recomputes totals from the merged amounts. Omitted fields keep their
    prior values; totals always come from final values.
  - Delete of a nonexistent id is success (idempotent, document-store
    semantics).
  - Deleting a Customer or SubCustomer does NOT cascade to owned records.
    Orphans are recoverable only by direct store inspection. Known and
    deliberate; matches the store's flat-document model.
  - Writes within one caller's awaited sequence happen in issue order;
    concurrent edits from different clients are last-write-wins.

IMPLEMENTATIONS:
  - store/sqlite: Production adapter
  - store/memory: In-memory adapter for testing/dev

SEE ALSO:
  - scope.go: Scope variants addressing account collections
  - resolver.go: Higher-level navigation built on this interface
*/
package book

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway is the full persistence surface. Adapters implement all of it;
// consumers that need less accept one of the narrower interfaces below.
type Gateway interface {
	CustomerGateway
	AccountGateway
	AdminGateway
}

// CustomerGateway covers the hierarchy collections.
type CustomerGateway interface {
	// ListCustomers returns all customers, order unspecified.
	ListCustomers(ctx context.Context) ([]Customer, error)

	// CreateCustomer persists a new customer with a fresh id.
	CreateCustomer(ctx context.Context, name string) (Customer, error)

	// GetCustomer returns ErrNotFound when the id is absent.
	GetCustomer(ctx context.Context, id CustomerID) (Customer, error)

	// DeleteCustomer removes the customer document only. Owned
	// sub-customers and accounts are left behind.
	DeleteCustomer(ctx context.Context, id CustomerID) error

	ListSubCustomers(ctx context.Context, cid CustomerID) ([]SubCustomer, error)
	CreateSubCustomer(ctx context.Context, cid CustomerID, name string) (SubCustomer, error)
	GetSubCustomer(ctx context.Context, cid CustomerID, sid SubCustomerID) (SubCustomer, error)
	DeleteSubCustomer(ctx context.Context, cid CustomerID, sid SubCustomerID) error

	// HasSubCustomers reports whether the customer owns at least one
	// sub-customer. Drives navigation: see Resolver.ResolveNavigation.
	HasSubCustomers(ctx context.Context, cid CustomerID) (bool, error)
}

// AccountGateway covers scope-addressed account collections.
type AccountGateway interface {
	ListAccounts(ctx context.Context, scope Scope) ([]Account, error)

	// CreateAccount validates the input, derives totals, then writes.
	CreateAccount(ctx context.Context, scope Scope, in AccountInput) (Account, error)

	// GetAccount returns ErrNotFound when the id is absent.
	GetAccount(ctx context.Context, scope Scope, id AccountID) (Account, error)

	// UpdateAccount merges the patch onto the existing record, validates
	// the merged values like a fresh create, and recomputes derived
	// totals from the merged amounts. Returns ErrNotFound when the
	// record is missing.
	UpdateAccount(ctx context.Context, scope Scope, id AccountID, patch AccountPatch) (Account, error)

	DeleteAccount(ctx context.Context, scope Scope, id AccountID) error
}

// AdminGateway covers the flat admin ledger.
type AdminGateway interface {
	ListAdminAccounts(ctx context.Context) ([]AdminAccount, error)

	// CreateAdminAccount assigns the entry date server-side.
	CreateAdminAccount(ctx context.Context, amount decimal.Decimal) (AdminAccount, error)

	UpdateAdminAccount(ctx context.Context, id AdminAccountID, amount decimal.Decimal) (AdminAccount, error)
	DeleteAdminAccount(ctx context.Context, id AdminAccountID) error
}
