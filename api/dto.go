/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts cross the API edge as float64 and are converted to
  decimal.Decimal at the handler boundary. All arithmetic happens on
  decimals inside the book package.

PARTIAL UPDATES:
  UpdateAccountRequest uses pointer fields so an omitted field and an
  explicit zero are distinguishable. Omitted fields keep their stored
  values; the gateway recomputes totals from the merged record.

SEE ALSO:
  - handlers.go: Uses these types
  - book/types.go: The domain shapes behind them
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/daftar/bookkeeper/book"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CustomerDTO represents a customer in API responses.
type CustomerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedOn string `json:"createdOn"`
}

// CreateCustomerRequest is the request to create a customer or sub-customer.
type CreateCustomerRequest struct {
	Name string `json:"name"`
}

// SubCustomerDTO represents a sub-customer in API responses.
type SubCustomerDTO struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	CreatedOn  string `json:"createdOn"`
}

// AccountDTO represents a ledger entry in API responses. The two totals
// are server-derived; clients never send them.
type AccountDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Credited       float64 `json:"credited"`
	Debited        float64 `json:"debited"`
	DinarPrice     float64 `json:"dinarPrice"`
	TotalAmount    float64 `json:"totalAmount"`
	TotalAmountKWD float64 `json:"totalAmountKWD"`
	CreatedOn      string  `json:"createdOn"`
}

// CreateAccountRequest is the request to create a ledger entry.
type CreateAccountRequest struct {
	Name       string  `json:"name"`
	Credited   float64 `json:"credited"`
	Debited    float64 `json:"debited"`
	DinarPrice float64 `json:"dinarPrice"`
}

// UpdateAccountRequest is a partial update. Nil means "leave unchanged".
type UpdateAccountRequest struct {
	Name       *string  `json:"name,omitempty"`
	Credited   *float64 `json:"credited,omitempty"`
	Debited    *float64 `json:"debited,omitempty"`
	DinarPrice *float64 `json:"dinarPrice,omitempty"`
}

// NetSummaryDTO is the aggregate of a set of entries.
type NetSummaryDTO struct {
	TotalCredit float64 `json:"totalCredit"`
	TotalDebit  float64 `json:"totalDebit"`
	NetTotal    float64 `json:"netTotal"`
}

// StatementDTO is one scope's accounts plus the resolved owner name and
// net summary, optionally narrowed to a single calendar day.
type StatementDTO struct {
	CustomerID    string        `json:"customerId"`
	SubCustomerID string        `json:"subCustomerId,omitempty"`
	DisplayName   string        `json:"displayName"`
	Date          string        `json:"date,omitempty"`
	Accounts      []AccountDTO  `json:"accounts"`
	Summary       NetSummaryDTO `json:"summary"`
}

// NavigationDTO tells a client where selecting a customer should land.
type NavigationDTO struct {
	CustomerID      string `json:"customerId"`
	HasSubCustomers bool   `json:"hasSubCustomers"`
	Destination     string `json:"destination"` // "accounts" or "subcustomers"
}

// AdminAccountDTO represents a flat admin ledger entry.
type AdminAccountDTO struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// AdminAmountRequest carries the amount for admin create and update.
type AdminAmountRequest struct {
	Amount float64 `json:"amount"`
}

// AdminTotalDTO is the running total of the admin ledger.
type AdminTotalDTO struct {
	Total float64 `json:"total"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toCustomerDTO(c book.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        string(c.ID),
		Name:      c.Name,
		CreatedOn: c.CreatedOn.Format(time.RFC3339),
	}
}

func toSubCustomerDTO(sc book.SubCustomer) SubCustomerDTO {
	return SubCustomerDTO{
		ID:         string(sc.ID),
		CustomerID: string(sc.CustomerID),
		Name:       sc.Name,
		CreatedOn:  sc.CreatedOn.Format(time.RFC3339),
	}
}

func toAccountDTO(a book.Account) AccountDTO {
	credited, _ := a.Credited.Float64()
	debited, _ := a.Debited.Float64()
	dinarPrice, _ := a.DinarPrice.Float64()
	total, _ := a.TotalAmount.Float64()
	totalKWD, _ := a.TotalAmountKWD.Float64()
	return AccountDTO{
		ID:             string(a.ID),
		Name:           a.Name,
		Credited:       credited,
		Debited:        debited,
		DinarPrice:     dinarPrice,
		TotalAmount:    total,
		TotalAmountKWD: totalKWD,
		CreatedOn:      a.CreatedOn.Format(time.RFC3339),
	}
}

func toNetSummaryDTO(s book.NetSummary) NetSummaryDTO {
	credit, _ := s.TotalCredit.Float64()
	debit, _ := s.TotalDebit.Float64()
	net, _ := s.NetTotal.Float64()
	return NetSummaryDTO{TotalCredit: credit, TotalDebit: debit, NetTotal: net}
}

func toAdminAccountDTO(a book.AdminAccount) AdminAccountDTO {
	amount, _ := a.Amount.Float64()
	return AdminAccountDTO{
		ID:     string(a.ID),
		Amount: amount,
		Date:   a.Date.Format(time.RFC3339),
	}
}

func toAccountInput(req CreateAccountRequest) book.AccountInput {
	return book.AccountInput{
		Name:       req.Name,
		Credited:   decimal.NewFromFloat(req.Credited),
		Debited:    decimal.NewFromFloat(req.Debited),
		DinarPrice: decimal.NewFromFloat(req.DinarPrice),
	}
}

func toAccountPatch(req UpdateAccountRequest) book.AccountPatch {
	var patch book.AccountPatch
	if req.Name != nil {
		patch = patch.WithName(*req.Name)
	}
	if req.Credited != nil {
		patch = patch.WithCredited(decimal.NewFromFloat(*req.Credited))
	}
	if req.Debited != nil {
		patch = patch.WithDebited(decimal.NewFromFloat(*req.Debited))
	}
	if req.DinarPrice != nil {
		patch = patch.WithDinarPrice(decimal.NewFromFloat(*req.DinarPrice))
	}
	return patch
}
