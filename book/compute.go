/*
compute.go - Ledger arithmetic over account entries

PURPOSE:
  Pure functions deriving an account's totals from its raw amounts and
  aggregating net totals over a collection of accounts. No I/O, no state.

INVARIANTS ENFORCED HERE:
  1. totalAmount == credited - debited, exactly
  2. totalAmountKWD == totalAmount / dinarPrice when the rate is nonzero,
     and exactly zero when the rate is zero (a zero rate means "unset",
     so the converted total is defined as zero rather than an error)

SEE ALSO:
  - validate.go: Input validation applied before any write
  - gateway.go: Gateways call ComputeDerived on every create and update
*/
package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DERIVED TOTALS
// =============================================================================

// DerivedTotals holds the two computed fields of an account.
type DerivedTotals struct {
	TotalAmount    decimal.Decimal
	TotalAmountKWD decimal.Decimal
}

// ComputeDerived derives both totals from the raw amounts. Division by a
// zero rate is defined to yield zero, not an error.
func ComputeDerived(credited, debited, dinarPrice decimal.Decimal) DerivedTotals {
	total := credited.Sub(debited)
	kwd := decimal.Zero
	if !dinarPrice.IsZero() {
		kwd = total.Div(dinarPrice)
	}
	return DerivedTotals{TotalAmount: total, TotalAmountKWD: kwd}
}

// ApplyDerived stamps freshly computed totals onto the account.
func ApplyDerived(a *Account) {
	d := ComputeDerived(a.Credited, a.Debited, a.DinarPrice)
	a.TotalAmount = d.TotalAmount
	a.TotalAmountKWD = d.TotalAmountKWD
}

// =============================================================================
// AGGREGATION
// =============================================================================

// NetSummary is the aggregate of a set of accounts.
type NetSummary struct {
	TotalCredit decimal.Decimal
	TotalDebit  decimal.Decimal
	NetTotal    decimal.Decimal
}

// ZeroNet returns the identity summary.
func ZeroNet() NetSummary {
	return NetSummary{
		TotalCredit: decimal.Zero,
		TotalDebit:  decimal.Zero,
		NetTotal:    decimal.Zero,
	}
}

// AggregateNet sums credit and debit over the given accounts and derives
// the net. Operates on whatever subset the caller passes (e.g., the
// result of FilterByDate); it never re-reads the store.
func AggregateNet(accounts []Account) NetSummary {
	s := ZeroNet()
	for _, a := range accounts {
		s.TotalCredit = s.TotalCredit.Add(a.Credited)
		s.TotalDebit = s.TotalDebit.Add(a.Debited)
	}
	s.NetTotal = s.TotalCredit.Sub(s.TotalDebit)
	return s
}

// CombineNet merges two summaries. AggregateNet is associative over
// concatenation: AggregateNet(A ++ B) == CombineNet(AggregateNet(A), AggregateNet(B)).
func CombineNet(a, b NetSummary) NetSummary {
	return NetSummary{
		TotalCredit: a.TotalCredit.Add(b.TotalCredit),
		TotalDebit:  a.TotalDebit.Add(b.TotalDebit),
		NetTotal:    a.NetTotal.Add(b.NetTotal),
	}
}

// =============================================================================
// FILTERING
// =============================================================================

// SameCalendarDay reports whether two instants fall on the same local
// calendar day. No timezone normalization beyond the local date.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// FilterByDate selects accounts created on the given local calendar day.
func FilterByDate(accounts []Account, day time.Time) []Account {
	var out []Account
	for _, a := range accounts {
		if SameCalendarDay(a.CreatedOn, day) {
			out = append(out, a)
		}
	}
	return out
}

// SumAdminAccounts is the running total of the flat admin ledger.
func SumAdminAccounts(accounts []AdminAccount) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range accounts {
		sum = sum.Add(a.Amount)
	}
	return sum
}
