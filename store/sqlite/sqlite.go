/*
Package sqlite provides a SQLite-backed implementation of the Gateway.

PURPOSE:
  Implements book.Gateway on SQLite, treating each logical collection
  path as a table. The same patterns apply to any path-addressed
  document store - only the adapter changes, never the domain.

KEY TABLES:
  customers:      Top-level ledger owners
  sub_customers:  Second-level owners, keyed by (customer_id, id)
  accounts:       Ledger entries, keyed by (customer_id, sub_customer_id, id);
                  sub_customer_id is '' for a customer's direct accounts
  admin_accounts: Flat admin ledger

NO CASCADE DELETE:
  Deleting a customer or sub-customer removes only that document. Owned
  rows stay behind as orphans, matching the document-store behavior this
  adapter stands in for. The schema deliberately declares no foreign
  keys between the tables.

DERIVED FIELDS:
  total_amount and total_amount_kwd are computed in Go (book.ComputeDerived)
  before every INSERT and UPDATE. The stored values are a convenience for
  direct inspection, never an input.

DECIMALS:
  Amounts are stored as TEXT and parsed with shopspring/decimal, so no
  precision is lost round-tripping through the database.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  gw, err := sqlite.New("./data/books.db")   // ":memory:" for tests
  if err != nil {
      log.Fatal(err)
  }
  defer gw.Close()

SEE ALSO:
  - book/gateway.go: Interface definition and contract notes
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/daftar/bookkeeper/book"
)

// Gateway implements book.Gateway using SQLite.
type Gateway struct {
	db *sql.DB
	mu sync.RWMutex

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

var _ book.Gateway = (*Gateway)(nil)

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Gateway, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases coherent (each new
	// connection would otherwise get its own empty database) and serializes
	// writers the way SQLite wants.
	db.SetMaxOpenConns(1)

	gw := &Gateway{db: db, now: time.Now}
	if err := gw.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return gw, nil
}

// Close closes the database connection.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// SetClock overrides the timestamp source. Test hook.
func (g *Gateway) SetClock(now func() time.Time) { g.now = now }

func (g *Gateway) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_on TEXT NOT NULL
	);

	-- No foreign key to customers: deleting a parent must not touch
	-- (or be blocked by) the rows underneath it.
	CREATE TABLE IF NOT EXISTS sub_customers (
		id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_on TEXT NOT NULL,
		PRIMARY KEY (customer_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_sub_customers_customer
		ON sub_customers(customer_id);

	-- sub_customer_id is '' for a customer's direct accounts. The primary
	-- key gives id uniqueness within its owning collection.
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		sub_customer_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		credited TEXT NOT NULL,
		debited TEXT NOT NULL,
		dinar_price TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		total_amount_kwd TEXT NOT NULL,
		created_on TEXT NOT NULL,
		PRIMARY KEY (customer_id, sub_customer_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_owner
		ON accounts(customer_id, sub_customer_id);

	CREATE TABLE IF NOT EXISTS admin_accounts (
		id TEXT PRIMARY KEY,
		amount TEXT NOT NULL,
		date TEXT NOT NULL
	);
	`
	_, err := g.db.Exec(schema)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func persistErr(op, path string, err error) error {
	return &book.PersistenceError{Op: op, Path: path, Err: err}
}

func scopeSubID(scope book.Scope) string {
	if scope.Kind == book.SubCustomerScope {
		return string(scope.SubCustomerID)
	}
	return ""
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func (g *Gateway) ListCustomers(ctx context.Context) ([]book.Customer, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rows, err := g.db.QueryContext(ctx, `SELECT id, name, created_on FROM customers`)
	if err != nil {
		return nil, persistErr("list", "Customers", err)
	}
	defer rows.Close()

	var out []book.Customer
	for rows.Next() {
		var c book.Customer
		var createdOn string
		if err := rows.Scan(&c.ID, &c.Name, &createdOn); err != nil {
			return nil, persistErr("list", "Customers", err)
		}
		c.CreatedOn = parseTime(createdOn)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (g *Gateway) CreateCustomer(ctx context.Context, name string) (book.Customer, error) {
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
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, created_on) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.CreatedOn.Format(time.RFC3339Nano),
	)
	if err != nil {
		return book.Customer{}, persistErr("create", "Customers", err)
	}
	return c, nil
}

func (g *Gateway) GetCustomer(ctx context.Context, id book.CustomerID) (book.Customer, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var c book.Customer
	var createdOn string
	err := g.db.QueryRowContext(ctx,
		`SELECT id, name, created_on FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Customer{}, book.ErrNotFound
	}
	if err != nil {
		return book.Customer{}, persistErr("get", "Customers", err)
	}
	c.CreatedOn = parseTime(createdOn)
	return c, nil
}

func (g *Gateway) DeleteCustomer(ctx context.Context, id book.CustomerID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Zero rows affected is still success: delete is idempotent.
	if _, err := g.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id); err != nil {
		return persistErr("delete", "Customers", err)
	}
	return nil
}

// =============================================================================
// SUB-CUSTOMERS
// =============================================================================

func (g *Gateway) ListSubCustomers(ctx context.Context, cid book.CustomerID) ([]book.SubCustomer, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	path := fmt.Sprintf("Customers/%s/SubCustomers", cid)
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, customer_id, name, created_on FROM sub_customers WHERE customer_id = ?`, cid)
	if err != nil {
		return nil, persistErr("list", path, err)
	}
	defer rows.Close()

	var out []book.SubCustomer
	for rows.Next() {
		var sc book.SubCustomer
		var createdOn string
		if err := rows.Scan(&sc.ID, &sc.CustomerID, &sc.Name, &createdOn); err != nil {
			return nil, persistErr("list", path, err)
		}
		sc.CreatedOn = parseTime(createdOn)
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (g *Gateway) CreateSubCustomer(ctx context.Context, cid book.CustomerID, name string) (book.SubCustomer, error) {
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
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO sub_customers (id, customer_id, name, created_on) VALUES (?, ?, ?, ?)`,
		sc.ID, sc.CustomerID, sc.Name, sc.CreatedOn.Format(time.RFC3339Nano),
	)
	if err != nil {
		return book.SubCustomer{}, persistErr("create", fmt.Sprintf("Customers/%s/SubCustomers", cid), err)
	}
	return sc, nil
}

func (g *Gateway) GetSubCustomer(ctx context.Context, cid book.CustomerID, sid book.SubCustomerID) (book.SubCustomer, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var sc book.SubCustomer
	var createdOn string
	err := g.db.QueryRowContext(ctx,
		`SELECT id, customer_id, name, created_on FROM sub_customers WHERE customer_id = ? AND id = ?`,
		cid, sid,
	).Scan(&sc.ID, &sc.CustomerID, &sc.Name, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		return book.SubCustomer{}, book.ErrNotFound
	}
	if err != nil {
		return book.SubCustomer{}, persistErr("get", fmt.Sprintf("Customers/%s/SubCustomers", cid), err)
	}
	sc.CreatedOn = parseTime(createdOn)
	return sc, nil
}

func (g *Gateway) DeleteSubCustomer(ctx context.Context, cid book.CustomerID, sid book.SubCustomerID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, err := g.db.ExecContext(ctx,
		`DELETE FROM sub_customers WHERE customer_id = ? AND id = ?`, cid, sid)
	if err != nil {
		return persistErr("delete", fmt.Sprintf("Customers/%s/SubCustomers", cid), err)
	}
	return nil
}

func (g *Gateway) HasSubCustomers(ctx context.Context, cid book.CustomerID) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var n int
	err := g.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sub_customers WHERE customer_id = ?`, cid).Scan(&n)
	if err != nil {
		return false, persistErr("list", fmt.Sprintf("Customers/%s/SubCustomers", cid), err)
	}
	return n > 0, nil
}

// =============================================================================
// ACCOUNTS (scope-addressed)
// =============================================================================

const accountColumns = `id, name, credited, debited, dinar_price, total_amount, total_amount_kwd, created_on`

func scanAccount(row interface{ Scan(...any) error }) (book.Account, error) {
	var a book.Account
	var credited, debited, dinarPrice, total, totalKWD, createdOn string
	err := row.Scan(&a.ID, &a.Name, &credited, &debited, &dinarPrice, &total, &totalKWD, &createdOn)
	if err != nil {
		return book.Account{}, err
	}
	a.Credited = parseDecimal(credited)
	a.Debited = parseDecimal(debited)
	a.DinarPrice = parseDecimal(dinarPrice)
	a.TotalAmount = parseDecimal(total)
	a.TotalAmountKWD = parseDecimal(totalKWD)
	a.CreatedOn = parseTime(createdOn)
	return a, nil
}

func (g *Gateway) ListAccounts(ctx context.Context, scope book.Scope) ([]book.Account, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rows, err := g.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE customer_id = ? AND sub_customer_id = ?`,
		scope.CustomerID, scopeSubID(scope))
	if err != nil {
		return nil, persistErr("list", scope.Path(), err)
	}
	defer rows.Close()

	var out []book.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, persistErr("list", scope.Path(), err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (g *Gateway) CreateAccount(ctx context.Context, scope book.Scope, in book.AccountInput) (book.Account, error) {
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

	_, err := g.db.ExecContext(ctx,
		`INSERT INTO accounts (id, customer_id, sub_customer_id, name, credited, debited, dinar_price, total_amount, total_amount_kwd, created_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, scope.CustomerID, scopeSubID(scope), a.Name,
		a.Credited.String(), a.Debited.String(), a.DinarPrice.String(),
		a.TotalAmount.String(), a.TotalAmountKWD.String(),
		a.CreatedOn.Format(time.RFC3339Nano),
	)
	if err != nil {
		return book.Account{}, persistErr("create", scope.Path(), err)
	}
	return a, nil
}

func (g *Gateway) GetAccount(ctx context.Context, scope book.Scope, id book.AccountID) (book.Account, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.getAccountLocked(ctx, scope, id)
}

func (g *Gateway) getAccountLocked(ctx context.Context, scope book.Scope, id book.AccountID) (book.Account, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE customer_id = ? AND sub_customer_id = ? AND id = ?`,
		scope.CustomerID, scopeSubID(scope), id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Account{}, book.ErrNotFound
	}
	if err != nil {
		return book.Account{}, persistErr("get", scope.Path(), err)
	}
	return a, nil
}

// UpdateAccount merges the patch onto the stored record, then recomputes
// derived totals from the merged amounts. The read-merge-write runs under
// the writer lock so the totals always reflect final values.
func (g *Gateway) UpdateAccount(ctx context.Context, scope book.Scope, id book.AccountID, patch book.AccountPatch) (book.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	a, err := g.getAccountLocked(ctx, scope, id)
	if err != nil {
		return book.Account{}, err
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

	_, err = g.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, credited = ?, debited = ?, dinar_price = ?, total_amount = ?, total_amount_kwd = ?
		 WHERE customer_id = ? AND sub_customer_id = ? AND id = ?`,
		a.Name, a.Credited.String(), a.Debited.String(), a.DinarPrice.String(),
		a.TotalAmount.String(), a.TotalAmountKWD.String(),
		scope.CustomerID, scopeSubID(scope), id,
	)
	if err != nil {
		return book.Account{}, persistErr("update", scope.Path(), err)
	}
	return a, nil
}

func (g *Gateway) DeleteAccount(ctx context.Context, scope book.Scope, id book.AccountID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, err := g.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE customer_id = ? AND sub_customer_id = ? AND id = ?`,
		scope.CustomerID, scopeSubID(scope), id)
	if err != nil {
		return persistErr("delete", scope.Path(), err)
	}
	return nil
}

// =============================================================================
// ADMIN LEDGER
// =============================================================================

func (g *Gateway) ListAdminAccounts(ctx context.Context) ([]book.AdminAccount, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rows, err := g.db.QueryContext(ctx, `SELECT id, amount, date FROM admin_accounts`)
	if err != nil {
		return nil, persistErr("list", "AdminAccount", err)
	}
	defer rows.Close()

	var out []book.AdminAccount
	for rows.Next() {
		var a book.AdminAccount
		var amount, date string
		if err := rows.Scan(&a.ID, &amount, &date); err != nil {
			return nil, persistErr("list", "AdminAccount", err)
		}
		a.Amount = parseDecimal(amount)
		a.Date = parseTime(date)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (g *Gateway) CreateAdminAccount(ctx context.Context, amount decimal.Decimal) (book.AdminAccount, error) {
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
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO admin_accounts (id, amount, date) VALUES (?, ?, ?)`,
		a.ID, a.Amount.String(), a.Date.Format(time.RFC3339Nano),
	)
	if err != nil {
		return book.AdminAccount{}, persistErr("create", "AdminAccount", err)
	}
	return a, nil
}

func (g *Gateway) UpdateAdminAccount(ctx context.Context, id book.AdminAccountID, amount decimal.Decimal) (book.AdminAccount, error) {
	if err := book.ValidateAdminAmount(amount); err != nil {
		return book.AdminAccount{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var a book.AdminAccount
	var date string
	err := g.db.QueryRowContext(ctx,
		`SELECT id, date FROM admin_accounts WHERE id = ?`, id,
	).Scan(&a.ID, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return book.AdminAccount{}, book.ErrNotFound
	}
	if err != nil {
		return book.AdminAccount{}, persistErr("get", "AdminAccount", err)
	}
	a.Date = parseTime(date)

	a.Amount = amount
	_, err = g.db.ExecContext(ctx,
		`UPDATE admin_accounts SET amount = ? WHERE id = ?`, a.Amount.String(), id)
	if err != nil {
		return book.AdminAccount{}, persistErr("update", "AdminAccount", err)
	}
	return a, nil
}

func (g *Gateway) DeleteAdminAccount(ctx context.Context, id book.AdminAccountID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.db.ExecContext(ctx, `DELETE FROM admin_accounts WHERE id = ?`, id); err != nil {
		return persistErr("delete", "AdminAccount", err)
	}
	return nil
}
