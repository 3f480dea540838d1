package book

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ValidateAccountInput checks caller-supplied account fields before any
// write. A zero dinar rate means "unset" and blocks the save; an account
// with zero credit and zero debit but a real rate is accepted.
func ValidateAccountInput(in AccountInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if in.Credited.IsNegative() {
		return &ValidationError{Field: "credited", Message: "must not be negative"}
	}
	if in.Debited.IsNegative() {
		return &ValidationError{Field: "debited", Message: "must not be negative"}
	}
	if in.DinarPrice.IsZero() {
		return &ValidationError{Field: "dinarPrice", Message: "rate must be set before saving"}
	}
	if in.DinarPrice.IsNegative() {
		return &ValidationError{Field: "dinarPrice", Message: "must not be negative"}
	}
	return nil
}

// ValidateName checks a customer or sub-customer name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	return nil
}

// ValidateAdminAmount checks an admin ledger amount. Unlike account
// entries, admin amounts must be strictly positive to persist.
func ValidateAdminAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	return nil
}
