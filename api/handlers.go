/*
handlers.go - HTTP API handlers for the bookkeeping system

PURPOSE:
  Exposes the ledger over REST. Handles HTTP request/response, JSON
  serialization, and delegates to the book package.

ENDPOINTS:
  Customers:
    GET    /api/customers                     List customers
    POST   /api/customers                     Create customer
    DELETE /api/customers/{cid}               Delete customer (no cascade)
    GET    /api/customers/{cid}/navigation    Sub-customer list vs accounts

  SubCustomers:
    GET    /api/customers/{cid}/subcustomers
    POST   /api/customers/{cid}/subcustomers
    DELETE /api/customers/{cid}/subcustomers/{sid}

  Accounts (direct and sub-customer scoped):
    GET/POST   .../accounts
    PUT/DELETE .../accounts/{aid}
    GET        .../statement?date=YYYY-MM-DD

  Admin ledger:
    GET/POST   /api/admin/accounts
    PUT/DELETE /api/admin/accounts/{id}
    GET        /api/admin/accounts/total

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/daftar/bookkeeper/book"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. The gateway handle is
// injected; nothing here reaches for an ambient store.
type Handler struct {
	Gateway  book.Gateway
	Resolver *book.Resolver
}

// NewHandler creates a new handler over the given gateway.
func NewHandler(gw book.Gateway) *Handler {
	return &Handler{
		Gateway:  gw,
		Resolver: book.NewResolver(gw),
	}
}

// scopeFromRequest builds the account scope from the URL. The sub route
// carries a {sid} parameter; the direct route does not.
func scopeFromRequest(r *http.Request) book.Scope {
	cid := book.CustomerID(chi.URLParam(r, "cid"))
	sid := book.SubCustomerID(chi.URLParam(r, "sid"))
	return book.ResolveAccountScope(cid, sid)
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns all customers.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Gateway.ListCustomers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list customers", err)
		return
	}

	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = toCustomerDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCustomer creates a new customer.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := h.Gateway.CreateCustomer(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, "Failed to create customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerDTO(c))
}

// DeleteCustomer removes a customer. Owned sub-customers and accounts are
// left in place; see book/gateway.go for the no-cascade contract.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	cid := book.CustomerID(chi.URLParam(r, "cid"))
	if err := h.Gateway.DeleteCustomer(r.Context(), cid); err != nil {
		writeDomainError(w, "Failed to delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetNavigation reports whether selecting this customer should open its
// sub-customer list or its direct accounts.
func (h *Handler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	cid := book.CustomerID(chi.URLParam(r, "cid"))

	dest, err := h.Resolver.ResolveNavigation(r.Context(), cid)
	if err != nil {
		writeDomainError(w, "Failed to resolve navigation", err)
		return
	}

	dto := NavigationDTO{CustomerID: string(cid)}
	if dest == book.DestinationSubCustomers {
		dto.HasSubCustomers = true
		dto.Destination = "subcustomers"
	} else {
		dto.Destination = "accounts"
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// SUB-CUSTOMER HANDLERS
// =============================================================================

// ListSubCustomers returns a customer's sub-customers.
func (h *Handler) ListSubCustomers(w http.ResponseWriter, r *http.Request) {
	cid := book.CustomerID(chi.URLParam(r, "cid"))

	subs, err := h.Gateway.ListSubCustomers(r.Context(), cid)
	if err != nil {
		writeDomainError(w, "Failed to list sub-customers", err)
		return
	}

	dtos := make([]SubCustomerDTO, len(subs))
	for i, sc := range subs {
		dtos[i] = toSubCustomerDTO(sc)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSubCustomer creates a sub-customer under a customer.
func (h *Handler) CreateSubCustomer(w http.ResponseWriter, r *http.Request) {
	cid := book.CustomerID(chi.URLParam(r, "cid"))

	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sc, err := h.Gateway.CreateSubCustomer(r.Context(), cid, req.Name)
	if err != nil {
		writeDomainError(w, "Failed to create sub-customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubCustomerDTO(sc))
}

// DeleteSubCustomer removes a sub-customer (no cascade to its accounts).
func (h *Handler) DeleteSubCustomer(w http.ResponseWriter, r *http.Request) {
	cid := book.CustomerID(chi.URLParam(r, "cid"))
	sid := book.SubCustomerID(chi.URLParam(r, "sid"))

	if err := h.Gateway.DeleteSubCustomer(r.Context(), cid, sid); err != nil {
		writeDomainError(w, "Failed to delete sub-customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ACCOUNT HANDLERS (shared by direct and sub-customer routes)
// =============================================================================

// ListAccounts returns the scope's ledger entries.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Gateway.ListAccounts(r.Context(), scopeFromRequest(r))
	if err != nil {
		writeDomainError(w, "Failed to list accounts", err)
		return
	}

	dtos := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toAccountDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAccount creates a ledger entry in the scope's collection.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	scope := scopeFromRequest(r)

	// An omitted name falls back to the owning customer's or sub-customer's
	// name. An explicit whitespace name is still rejected by validation.
	if req.Name == "" {
		req.Name = h.Resolver.ResolveDisplayName(r.Context(), scope)
	}

	a, err := h.Gateway.CreateAccount(r.Context(), scope, toAccountInput(req))
	if err != nil {
		writeDomainError(w, "Failed to create account", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(a))
}

// UpdateAccount applies a partial update and returns the record with
// freshly derived totals.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	aid := book.AccountID(chi.URLParam(r, "aid"))

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a, err := h.Gateway.UpdateAccount(r.Context(), scopeFromRequest(r), aid, toAccountPatch(req))
	if err != nil {
		writeDomainError(w, "Failed to update account", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(a))
}

// DeleteAccount removes a ledger entry. Deleting an id that is already
// gone still returns 204.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	aid := book.AccountID(chi.URLParam(r, "aid"))

	if err := h.Gateway.DeleteAccount(r.Context(), scopeFromRequest(r), aid); err != nil {
		writeDomainError(w, "Failed to delete account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStatement returns the scope's accounts with the resolved owner name
// and net summary, optionally filtered to one calendar day (?date=YYYY-MM-DD).
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromRequest(r)

	var day *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		day = &parsed
	}

	stmt, err := h.Resolver.LoadStatement(r.Context(), scope, day)
	if err != nil {
		writeDomainError(w, "Failed to load statement", err)
		return
	}

	dto := StatementDTO{
		CustomerID:    string(scope.CustomerID),
		SubCustomerID: string(scope.SubCustomerID),
		DisplayName:   stmt.DisplayName,
		Accounts:      make([]AccountDTO, len(stmt.Accounts)),
		Summary:       toNetSummaryDTO(stmt.Summary),
	}
	if day != nil {
		dto.Date = day.Format("2006-01-02")
	}
	for i, a := range stmt.Accounts {
		dto.Accounts[i] = toAccountDTO(a)
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// ADMIN LEDGER HANDLERS
// =============================================================================

// ListAdminAccounts returns all admin ledger entries.
func (h *Handler) ListAdminAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Gateway.ListAdminAccounts(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list admin accounts", err)
		return
	}

	dtos := make([]AdminAccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toAdminAccountDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAdminAccount adds an admin ledger entry. Date is server-assigned.
func (h *Handler) CreateAdminAccount(w http.ResponseWriter, r *http.Request) {
	var req AdminAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a, err := h.Gateway.CreateAdminAccount(r.Context(), decimal.NewFromFloat(req.Amount))
	if err != nil {
		writeDomainError(w, "Failed to create admin account", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdminAccountDTO(a))
}

// UpdateAdminAccount replaces an entry's amount.
func (h *Handler) UpdateAdminAccount(w http.ResponseWriter, r *http.Request) {
	id := book.AdminAccountID(chi.URLParam(r, "id"))

	var req AdminAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a, err := h.Gateway.UpdateAdminAccount(r.Context(), id, decimal.NewFromFloat(req.Amount))
	if err != nil {
		writeDomainError(w, "Failed to update admin account", err)
		return
	}
	writeJSON(w, http.StatusOK, toAdminAccountDTO(a))
}

// DeleteAdminAccount removes an entry (idempotent).
func (h *Handler) DeleteAdminAccount(w http.ResponseWriter, r *http.Request) {
	id := book.AdminAccountID(chi.URLParam(r, "id"))

	if err := h.Gateway.DeleteAdminAccount(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete admin account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAdminTotal returns the running total of the admin ledger.
func (h *Handler) GetAdminTotal(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Gateway.ListAdminAccounts(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list admin accounts", err)
		return
	}

	total, _ := book.SumAdminAccounts(accounts).Float64()
	writeJSON(w, http.StatusOK, AdminTotalDTO{Total: total})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	if status >= http.StatusInternalServerError {
		log.Printf("%s: %v", msg, err)
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors onto HTTP statuses: validation
// failures are the caller's fault, missing records are 404, and anything
// else is a store failure.
func writeDomainError(w http.ResponseWriter, msg string, err error) {
	switch {
	case book.IsValidation(err):
		writeError(w, http.StatusBadRequest, msg, err)
	case book.IsNotFound(err):
		writeError(w, http.StatusNotFound, msg, err)
	default:
		writeError(w, http.StatusInternalServerError, msg, err)
	}
}
