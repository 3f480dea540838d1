package book

import "fmt"

// =============================================================================
// SCOPE - Addresses an account collection (direct-customer vs sub-customer)
// =============================================================================

// ScopeKind tags which collection a Scope addresses.
type ScopeKind int

const (
	// DirectCustomer addresses Customers/{cid}/Accounts.
	DirectCustomer ScopeKind = iota
	// SubCustomerScope addresses Customers/{cid}/SubCustomers/{sid}/Accounts.
	SubCustomerScope
)

// Scope is the resolved target collection for every account read and
// write. The rest of the system stays store-agnostic: only gateway
// adapters translate a Scope into a concrete storage path.
type Scope struct {
	Kind          ScopeKind
	CustomerID    CustomerID
	SubCustomerID SubCustomerID
}

// DirectScope addresses a customer's own accounts.
func DirectScope(cid CustomerID) Scope {
	return Scope{Kind: DirectCustomer, CustomerID: cid}
}

// SubScope addresses a sub-customer's accounts. No validation that the
// sub-customer actually belongs to the customer; the gateway is trusted
// to fail when the path does not exist.
func SubScope(cid CustomerID, sid SubCustomerID) Scope {
	return Scope{Kind: SubCustomerScope, CustomerID: cid, SubCustomerID: sid}
}

// ResolveAccountScope picks the collection for the given identifiers:
// a sub-customer scope when subCustomerID is set, the customer's direct
// accounts otherwise.
func ResolveAccountScope(cid CustomerID, sid SubCustomerID) Scope {
	if sid != "" {
		return SubScope(cid, sid)
	}
	return DirectScope(cid)
}

// Path renders the logical collection path, used in error context and by
// adapters that are path-addressed.
func (s Scope) Path() string {
	switch s.Kind {
	case SubCustomerScope:
		return fmt.Sprintf("Customers/%s/SubCustomers/%s/Accounts", s.CustomerID, s.SubCustomerID)
	default:
		return fmt.Sprintf("Customers/%s/Accounts", s.CustomerID)
	}
}

func (s Scope) String() string { return s.Path() }
