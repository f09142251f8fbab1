package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TxKind identifies the kind of an input transaction record.
type TxKind string

const (
	TxDeposit    TxKind = "deposit"
	TxWithdrawal TxKind = "withdrawal"
	TxDispute    TxKind = "dispute"
	TxResolve    TxKind = "resolve"
	TxChargeback TxKind = "chargeback"
)

// ParseTxKind maps an input type cell to a TxKind. Matching is
// case-insensitive and tolerates surrounding whitespace.
func ParseTxKind(s string) (TxKind, error) {
	kind := TxKind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case TxDeposit, TxWithdrawal, TxDispute, TxResolve, TxChargeback:
		return kind, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownTxKind, s)
}

// Record is one parsed input event. It is immutable once created: the
// engine reads it, derives effects, and discards it.
type Record struct {
	Kind      TxKind
	ClientID  uint16
	TxID      uint32
	Amount    decimal.Decimal
	HasAmount bool
}
