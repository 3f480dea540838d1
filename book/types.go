/*
Package book provides the core bookkeeping domain model.

PURPOSE:
  This package contains the entity shapes and pure computation for a
  two-level customer ledger: customers, optional sub-customers nested
  under a customer, and per-owner account entries with credit, debit,
  a dinar exchange rate, and totals derived in two currencies. A flat
  admin ledger runs alongside, independent of the hierarchy.

KEY CONCEPTS IN THIS FILE (types.go):
  - Customer/SubCustomer: Ledger owners (sub-customers nest one level)
  - Account: A single ledger entry with derived totals
  - AdminAccount: Flat admin ledger entry
  - Typed IDs: Prevent mixing customer/sub-customer/account identifiers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Derived fields are computed, never trusted from caller input
  3. Type Safety: Strong typing for IDs
  4. No I/O here: persistence lives behind the Gateway interface

SEE ALSO:
  - compute.go: Derived-total and aggregate arithmetic
  - scope.go: Scope variants addressing account collections
  - gateway.go: Persistence interface
*/
package book

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CustomerID string
type SubCustomerID string
type AccountID string
type AdminAccountID string

// NewID returns a fresh opaque identifier. IDs are generated client-side
// so callers can use them before the write round-trips.
func NewID() string {
	return uuid.NewString()
}

// =============================================================================
// ENTITIES
// =============================================================================

// Customer is a top-level ledger owner. Name has no update path; a rename
// means re-creation.
type Customer struct {
	ID        CustomerID
	Name      string
	CreatedOn time.Time
}

// SubCustomer is a second-level ledger owner scoped under exactly one
// parent Customer. Deleting the parent does not cascade here.
type SubCustomer struct {
	ID         SubCustomerID
	CustomerID CustomerID
	Name       string
	CreatedOn  time.Time
}

// Account is a single ledger entry. TotalAmount and TotalAmountKWD are
// derived from the other three amounts on every write (see compute.go);
// stored values are a convenience, not a source of truth.
type Account struct {
	ID             AccountID
	Name           string
	Credited       decimal.Decimal
	Debited        decimal.Decimal
	DinarPrice     decimal.Decimal
	TotalAmount    decimal.Decimal
	TotalAmountKWD decimal.Decimal
	CreatedOn      time.Time
}

// AdminAccount is an entry in the flat admin ledger. Date is assigned by
// the gateway at creation, not by the caller.
type AdminAccount struct {
	ID     AdminAccountID
	Amount decimal.Decimal
	Date   time.Time
}

// =============================================================================
// WRITE SHAPES
// =============================================================================

// AccountInput carries the caller-supplied fields of a new account.
// Derived totals are intentionally absent.
type AccountInput struct {
	Name       string
	Credited   decimal.Decimal
	Debited    decimal.Decimal
	DinarPrice decimal.Decimal
}

// AccountPatch is a partial update. Nil fields keep their prior values;
// the gateway merges the patch onto the stored record and recomputes the
// derived totals from the merged amounts.
type AccountPatch struct {
	Name       *string
	Credited   *decimal.Decimal
	Debited    *decimal.Decimal
	DinarPrice *decimal.Decimal
}

// WithName, WithCredited, WithDebited and WithDinarPrice build patches
// without the pointer noise at call sites.
func (p AccountPatch) WithName(name string) AccountPatch {
	p.Name = &name
	return p
}

func (p AccountPatch) WithCredited(d decimal.Decimal) AccountPatch {
	p.Credited = &d
	return p
}

func (p AccountPatch) WithDebited(d decimal.Decimal) AccountPatch {
	p.Debited = &d
	return p
}

func (p AccountPatch) WithDinarPrice(d decimal.Decimal) AccountPatch {
	p.DinarPrice = &d
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (p AccountPatch) IsEmpty() bool {
	return p.Name == nil && p.Credited == nil && p.Debited == nil && p.DinarPrice == nil
}
