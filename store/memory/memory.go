// Package memory provides an in-memory Gateway implementation (for testing/dev).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/daftar/bookkeeper/book"
)

// =============================================================================
// MEMORY GATEWAY - Mutex-guarded maps keyed by collection path
// =============================================================================

type Gateway struct {
	mu        sync.RWMutex
	customers map[book.CustomerID]book.Customer
	subs      map[book.CustomerID]map[book.SubCustomerID]book.SubCustomer
	accounts  map[string]map[book.AccountID]book.Account // keyed by Scope.Path()
	admin     map[book.AdminAccountID]book.AdminAccount

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

var _ book.Gateway = (*Gateway)(nil)

func New() *Gateway {
	return &Gateway{
		customers: make(map[book.CustomerID]book.Customer),
		subs:      make(map[book.CustomerID]map[book.SubCustomerID]book.SubCustomer),
		accounts:  make(map[string]map[book.AccountID]book.Account),
		admin:     make(map[book.AdminAccountID]book.AdminAccount),
		now:       time.Now,
	}
}

// SetClock overrides the timestamp source. Test hook.
func (g *Gateway) SetClock(now func() time.Time) { g.now = now }

// =============================================================================
// CUSTOMERS
// =============================================================================

func (g *Gateway) ListCustomers(_ context.Context) ([]book.Customer, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]book.Customer, 0, len(g.customers))
	for _, c := range g.customers {
		out = append(out, c)
	}
	return out, nil
}

func (g *Gateway) CreateCustomer(_ context.Context, name string) (book.Customer, error) {
	if err := book.ValidateName(name); err != nil {
		return book.Customer{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	c := book.Customer{
		ID:        book.CustomerID(book.NewID()),
		Name:      name,
		CreatedOn: g.now(),
	}
	g.customers[c.ID] = c
	return c, nil
}

func (g *Gateway) GetCustomer(_ context.Context, id book.CustomerID) (book.Customer, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c, ok := g.customers[id]
	if !ok {
		return book.Customer{}, book.ErrNotFound
	}
	return c, nil
}

// DeleteCustomer removes only the customer document. Sub-customers and
// accounts under it are intentionally left in place.
func (g *Gateway) DeleteCustomer(_ context.Context, id book.CustomerID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.customers, id)
	return nil
}

// =============================================================================
// SUB-CUSTOMERS
// =============================================================================

func (g *Gateway) ListSubCustomers(_ context.Context, cid book.CustomerID) ([]book.SubCustomer, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]book.SubCustomer, 0, len(g.subs[cid]))
	for _, sc := range g.subs[cid] {
		out = append(out, sc)
	}
	return out, nil
}

func (g *Gateway) CreateSubCustomer(_ context.Context, cid book.CustomerID, name string) (book.SubCustomer, error) {
	if err := book.ValidateName(name); err != nil {
		return book.SubCustomer{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	sc := book.SubCustomer{
		ID:         book.SubCustomerID(book.NewID()),
		CustomerID: cid,
		Name:       name,
		CreatedOn:  g.now(),
	}
	if g.subs[cid] == nil {
		g.subs[cid] = make(map[book.SubCustomerID]book.SubCustomer)
	}
	g.subs[cid][sc.ID] = sc
	return sc, nil
}

func (g *Gateway) GetSubCustomer(_ context.Context, cid book.CustomerID, sid book.SubCustomerID) (book.SubCustomer, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	sc, ok := g.subs[cid][sid]
	if !ok {
		return book.SubCustomer{}, book.ErrNotFound
	}
	return sc, nil
}

func (g *Gateway) DeleteSubCustomer(_ context.Context, cid book.CustomerID, sid book.SubCustomerID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.subs[cid], sid)
	return nil
}

func (g *Gateway) HasSubCustomers(_ context.Context, cid book.CustomerID) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.subs[cid]) > 0, nil
}

// =============================================================================
// ACCOUNTS (scope-addressed)
// =============================================================================

func (g *Gateway) ListAccounts(_ context.Context, scope book.Scope) ([]book.Account, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	coll := g.accounts[scope.Path()]
	out := make([]book.Account, 0, len(coll))
	for _, a := range coll {
		out = append(out, a)
	}
	return out, nil
}

func (g *Gateway) CreateAccount(_ context.Context, scope book.Scope, in book.AccountInput) (book.Account, error) {
	if err := book.ValidateAccountInput(in); err != nil {
		return book.Account{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	a := book.Account{
		ID:         book.AccountID(book.NewID()),
		Name:       in.Name,
		Credited:   in.Credited,
		Debited:    in.Debited,
		DinarPrice: in.DinarPrice,
		CreatedOn:  g.now(),
	}
	book.ApplyDerived(&a)

	path := scope.Path()
	if g.accounts[path] == nil {
		g.accounts[path] = make(map[book.AccountID]book.Account)
	}
	g.accounts[path][a.ID] = a
	return a, nil
}

func (g *Gateway) GetAccount(_ context.Context, scope book.Scope, id book.AccountID) (book.Account, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	a, ok := g.accounts[scope.Path()][id]
	if !ok {
		return book.Account{}, book.ErrNotFound
	}
	return a, nil
}

// UpdateAccount merges the patch onto the stored record, then recomputes
// derived totals from the merged amounts. Omitted fields keep prior values.
func (g *Gateway) UpdateAccount(_ context.Context, scope book.Scope, id book.AccountID, patch book.AccountPatch) (book.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	a, ok := g.accounts[scope.Path()][id]
	if !ok {
		return book.Account{}, book.ErrNotFound
	}

	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Credited != nil {
		a.Credited = *patch.Credited
	}
	if patch.Debited != nil {
		a.Debited = *patch.Debited
	}
	if patch.DinarPrice != nil {
		a.DinarPrice = *patch.DinarPrice
	}

	// The merged record must pass the same gate as a fresh create: a patch
	// cannot blank the name, zero the rate, or push an amount negative.
	if err := book.ValidateAccountInput(book.AccountInput{
		Name:       a.Name,
		Credited:   a.Credited,
		Debited:    a.Debited,
		DinarPrice: a.DinarPrice,
	}); err != nil {
		return book.Account{}, err
	}
	book.ApplyDerived(&a)

	g.accounts[scope.Path()][id] = a
	return a, nil
}

func (g *Gateway) DeleteAccount(_ context.Context, scope book.Scope, id book.AccountID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.accounts[scope.Path()], id)
	return nil
}

// =============================================================================
// ADMIN LEDGER
// =============================================================================

func (g *Gateway) ListAdminAccounts(_ context.Context) ([]book.AdminAccount, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]book.AdminAccount, 0, len(g.admin))
	for _, a := range g.admin {
		out = append(out, a)
	}
	return out, nil
}

func (g *Gateway) CreateAdminAccount(_ context.Context, amount decimal.Decimal) (book.AdminAccount, error) {
	if err := book.ValidateAdminAmount(amount); err != nil {
		return book.AdminAccount{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	a := book.AdminAccount{
		ID:     book.AdminAccountID(book.NewID()),
		Amount: amount,
		Date:   g.now(),
	}
	g.admin[a.ID] = a
	return a, nil
}

func (g *Gateway) UpdateAdminAccount(_ context.Context, id book.AdminAccountID, amount decimal.Decimal) (book.AdminAccount, error) {
	if err := book.ValidateAdminAmount(amount); err != nil {
		return book.AdminAccount{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	a, ok := g.admin[id]
	if !ok {
		return book.AdminAccount{}, book.ErrNotFound
	}
	a.Amount = amount
	g.admin[id] = a
	return a, nil
}

func (g *Gateway) DeleteAdminAccount(_ context.Context, id book.AdminAccountID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.admin, id)
	return nil
}
