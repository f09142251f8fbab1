package domain

import "github.com/shopspring/decimal"

// DisputeState tracks where a ledger entry is in the dispute lifecycle.
type DisputeState string

const (
	DisputeNone        DisputeState = "none"
	DisputeDisputed    DisputeState = "disputed"
	DisputeResolved    DisputeState = "resolved"
	DisputeChargedBack DisputeState = "charged_back"
)

// Entry is the durable record of an accepted deposit or withdrawal. It is
// retained for the whole run so later dispute-family records can reference
// it, and is never deleted once created.
type Entry struct {
	TxID         uint32
	ClientID     uint16
	Kind         TxKind
	Amount       decimal.Decimal
	DisputeState DisputeState
}
