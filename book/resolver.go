/*
resolver.go - Hierarchy resolution over the Gateway

PURPOSE:
  Given a customer (and optionally one of its sub-customers), decides
  which account collection downstream reads and writes should target,
  which screen navigation should land on, and what display name a
  breadcrumb should show.

NAVIGATION QUIRK (preserved on purpose):
  A customer with one or more sub-customers routes to its sub-customer
  list, so any accounts it owns DIRECTLY become unreachable through
  normal navigation. That is the source behavior, kept as a product
  decision rather than silently fixed.

SEE ALSO:
  - scope.go: The Scope variants returned here
  - gateway.go: The persistence surface this sits on
*/
package book

import (
	"context"
	"time"
)

// Sentinel display names returned when a lookup misses. Display-name
// resolution degrades, it never fails the caller.
const (
	UnknownCustomerName    = "Unknown Customer"
	UnknownSubCustomerName = "Unknown SubCustomer"
)

// Destination is where navigation lands after selecting a customer.
type Destination int

const (
	// DestinationAccounts routes straight to the customer's own accounts.
	DestinationAccounts Destination = iota
	// DestinationSubCustomers routes to the sub-customer list first.
	DestinationSubCustomers
)

// Resolver answers hierarchy questions on top of a Gateway.
type Resolver struct {
	gw Gateway
}

// NewResolver wraps the given gateway. The handle is explicit; there is
// no ambient store singleton anywhere in the system.
func NewResolver(gw Gateway) *Resolver {
	return &Resolver{gw: gw}
}

// HasSubCustomers reports whether the customer owns any sub-customers.
func (r *Resolver) HasSubCustomers(ctx context.Context, cid CustomerID) (bool, error) {
	return r.gw.HasSubCustomers(ctx, cid)
}

// ResolveNavigation decides where selecting a customer should land. One
// or more sub-customers means the sub-customer list; otherwise the
// customer's direct accounts.
func (r *Resolver) ResolveNavigation(ctx context.Context, cid CustomerID) (Destination, error) {
	has, err := r.gw.HasSubCustomers(ctx, cid)
	if err != nil {
		return DestinationAccounts, err
	}
	if has {
		return DestinationSubCustomers, nil
	}
	return DestinationAccounts, nil
}

// ResolveDisplayName returns the owner's name for the scope, or the
// matching sentinel when the lookup misses or the store fails. It never
// returns an error.
func (r *Resolver) ResolveDisplayName(ctx context.Context, scope Scope) string {
	switch scope.Kind {
	case SubCustomerScope:
		sub, err := r.gw.GetSubCustomer(ctx, scope.CustomerID, scope.SubCustomerID)
		if err != nil || sub.Name == "" {
			return UnknownSubCustomerName
		}
		return sub.Name
	default:
		c, err := r.gw.GetCustomer(ctx, scope.CustomerID)
		if err != nil || c.Name == "" {
			return UnknownCustomerName
		}
		return c.Name
	}
}

// Statement is one scope's accounts plus everything a ledger screen
// shows around them: the resolved owner name and the net summary of the
// (possibly date-filtered) entries.
type Statement struct {
	Scope       Scope
	DisplayName string
	Accounts    []Account
	Summary     NetSummary
}

// LoadStatement fetches the scope's accounts, optionally narrows them to
// a single local calendar day, and aggregates the net totals. The name
// lookup degrades to a sentinel; the account read does not.
func (r *Resolver) LoadStatement(ctx context.Context, scope Scope, day *time.Time) (Statement, error) {
	accounts, err := r.gw.ListAccounts(ctx, scope)
	if err != nil {
		return Statement{}, err
	}
	if day != nil {
		accounts = FilterByDate(accounts, *day)
	}
	return Statement{
		Scope:       scope,
		DisplayName: r.ResolveDisplayName(ctx, scope),
		Accounts:    accounts,
		Summary:     AggregateNet(accounts),
	}, nil
}
