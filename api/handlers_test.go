/*
handlers_test.go - HTTP tests for the bookkeeping API

Exercises the full request path (router, handlers, gateway) against the
in-memory gateway.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daftar/bookkeeper/api"
	"github.com/daftar/bookkeeper/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	handler := api.NewHandler(memory.New())
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func createCustomer(t *testing.T, srv *httptest.Server, name string) api.CustomerDTO {
	t.Helper()
	var c api.CustomerDTO
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/customers",
		api.CreateCustomerRequest{Name: name}, &c)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return c
}

// =============================================================================
// CUSTOMER ROUTES
// =============================================================================

func TestCustomers_CreateAndList(t *testing.T) {
	srv := newTestServer(t)

	created := createCustomer(t, srv, "Acme")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Acme", created.Name)

	var list []api.CustomerDTO
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/customers", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestCustomers_CreateEmptyNameRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/customers",
		api.CreateCustomerRequest{Name: ""}, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCustomers_Navigation(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Acme")

	var nav api.NavigationDTO
	resp := doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/customers/%s/navigation", srv.URL, c.ID), nil, &nav)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, nav.HasSubCustomers)
	assert.Equal(t, "accounts", nav.Destination)

	resp = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/customers/%s/subcustomers", srv.URL, c.ID),
		api.CreateCustomerRequest{Name: "Acme East"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/customers/%s/navigation", srv.URL, c.ID), nil, &nav)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, nav.HasSubCustomers)
	assert.Equal(t, "subcustomers", nav.Destination)
}

// =============================================================================
// ACCOUNT ROUTES
// =============================================================================

func TestAccounts_CreateUpdateFlow(t *testing.T) {
	// GIVEN: A customer with one ledger entry (100 credit, 40 debit, rate 2)
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Acme")
	base := fmt.Sprintf("%s/api/customers/%s/accounts", srv.URL, c.ID)

	var created api.AccountDTO
	resp := doJSON(t, http.MethodPost, base, api.CreateAccountRequest{
		Name: "Acme", Credited: 100, Debited: 40, DinarPrice: 2,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 60.0, created.TotalAmount)
	assert.Equal(t, 30.0, created.TotalAmountKWD)

	// WHEN: Only the debit changes
	debited := 50.0
	var updated api.AccountDTO
	resp = doJSON(t, http.MethodPut, base+"/"+created.ID,
		api.UpdateAccountRequest{Debited: &debited}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// THEN: Credit and rate are retained and totals re-derived
	assert.Equal(t, 100.0, updated.Credited)
	assert.Equal(t, 2.0, updated.DinarPrice)
	assert.Equal(t, 50.0, updated.TotalAmount)
	assert.Equal(t, 25.0, updated.TotalAmountKWD)
}

func TestAccounts_ZeroRateRejected(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Acme")

	resp := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/customers/%s/accounts", srv.URL, c.ID),
		api.CreateAccountRequest{Name: "Acme", Credited: 100, Debited: 40}, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAccounts_OmittedNameDefaultsToOwner(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Acme")
	base := fmt.Sprintf("%s/api/customers/%s/accounts", srv.URL, c.ID)

	var created api.AccountDTO
	resp := doJSON(t, http.MethodPost, base,
		api.CreateAccountRequest{Credited: 10, DinarPrice: 1}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Acme", created.Name, "entry takes the owner's name")

	// An explicit whitespace name is not an omission
	resp = doJSON(t, http.MethodPost, base,
		api.CreateAccountRequest{Name: "   ", Credited: 10, DinarPrice: 1}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAccounts_UpdateInvalidMergeRejected(t *testing.T) {
	// GIVEN: A valid stored entry
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Acme")
	base := fmt.Sprintf("%s/api/customers/%s/accounts", srv.URL, c.ID)

	var created api.AccountDTO
	resp := doJSON(t, http.MethodPost, base, api.CreateAccountRequest{
		Name: "Acme", Credited: 100, Debited: 40, DinarPrice: 2,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// WHEN: A patch would zero the rate and push the credit negative
	rate, credited := 0.0, -5.0
	resp = doJSON(t, http.MethodPut, base+"/"+created.ID,
		api.UpdateAccountRequest{DinarPrice: &rate, Credited: &credited}, nil)

	// THEN: The update is rejected and the stored entry is untouched
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var list []api.AccountDTO
	resp = doJSON(t, http.MethodGet, base, nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, 100.0, list[0].Credited)
	assert.Equal(t, 2.0, list[0].DinarPrice)
}

func TestAccounts_UpdateMissingIs404(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Acme")

	debited := 1.0
	resp := doJSON(t, http.MethodPut,
		fmt.Sprintf("%s/api/customers/%s/accounts/nope", srv.URL, c.ID),
		api.UpdateAccountRequest{Debited: &debited}, nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAccounts_DeleteTwiceIs204(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Acme")
	base := fmt.Sprintf("%s/api/customers/%s/accounts", srv.URL, c.ID)

	var created api.AccountDTO
	resp := doJSON(t, http.MethodPost, base, api.CreateAccountRequest{
		Name: "Acme", Credited: 1, DinarPrice: 1,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, base+"/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, base+"/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "delete is idempotent")
}

func TestAccounts_SubCustomerScope(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Acme")

	var sub api.SubCustomerDTO
	resp := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/customers/%s/subcustomers", srv.URL, c.ID),
		api.CreateCustomerRequest{Name: "Acme East"}, &sub)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	subBase := fmt.Sprintf("%s/api/customers/%s/subcustomers/%s/accounts", srv.URL, c.ID, sub.ID)
	resp = doJSON(t, http.MethodPost, subBase, api.CreateAccountRequest{
		Name: "Acme East", Credited: 10, DinarPrice: 1,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The sub-customer's entries do not leak into the direct collection.
	var direct []api.AccountDTO
	resp = doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/customers/%s/accounts", srv.URL, c.ID), nil, &direct)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, direct)

	var scoped []api.AccountDTO
	resp = doJSON(t, http.MethodGet, subBase, nil, &scoped)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, scoped, 1)
}

// =============================================================================
// STATEMENTS
// =============================================================================

func TestStatement_NameAndSummary(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Acme")
	base := fmt.Sprintf("%s/api/customers/%s/accounts", srv.URL, c.ID)

	for _, req := range []api.CreateAccountRequest{
		{Name: "Acme", Credited: 100, Debited: 40, DinarPrice: 2},
		{Name: "Acme", Credited: 50, Debited: 10, DinarPrice: 2},
	} {
		resp := doJSON(t, http.MethodPost, base, req, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var stmt api.StatementDTO
	resp := doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/customers/%s/statement", srv.URL, c.ID), nil, &stmt)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Acme", stmt.DisplayName)
	assert.Len(t, stmt.Accounts, 2)
	assert.Equal(t, 150.0, stmt.Summary.TotalCredit)
	assert.Equal(t, 50.0, stmt.Summary.TotalDebit)
	assert.Equal(t, 100.0, stmt.Summary.NetTotal)
}

func TestStatement_UnknownCustomerSentinel(t *testing.T) {
	srv := newTestServer(t)

	var stmt api.StatementDTO
	resp := doJSON(t, http.MethodGet,
		srv.URL+"/api/customers/nope/statement", nil, &stmt)

	// The name degrades to the sentinel; the statement itself succeeds.
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Unknown Customer", stmt.DisplayName)
	assert.Empty(t, stmt.Accounts)
}

func TestStatement_BadDateRejected(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Acme")

	resp := doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/customers/%s/statement?date=10-03-2025", srv.URL, c.ID), nil, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// ADMIN LEDGER ROUTES
// =============================================================================

func TestAdmin_CreateUpdateTotal(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/admin/accounts"

	var first api.AdminAccountDTO
	resp := doJSON(t, http.MethodPost, base, api.AdminAmountRequest{Amount: 25.5}, &first)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, first.Date, "date is server-assigned")

	resp = doJSON(t, http.MethodPost, base, api.AdminAmountRequest{Amount: 10}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var total api.AdminTotalDTO
	resp = doJSON(t, http.MethodGet, base+"/total", nil, &total)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 35.5, total.Total)

	resp = doJSON(t, http.MethodPut, base+"/"+first.ID, api.AdminAmountRequest{Amount: 40}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, base+"/total", nil, &total)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 50.0, total.Total)
}

func TestAdmin_NonPositiveAmountRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/admin/accounts",
		api.AdminAmountRequest{Amount: 0}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/admin/accounts",
		api.AdminAmountRequest{Amount: -5}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
