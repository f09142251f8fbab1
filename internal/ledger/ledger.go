// Package ledger holds the in-memory stores owned by a single engine run:
// the transaction ledger and the account book. Neither survives the run.
package ledger

import (
	"fmt"

	"github.com/iho/payengine/internal/domain"
)

// Ledger retains every accepted deposit and withdrawal so later
// dispute-family records can reference them. Entries are never deleted, so
// memory grows with accepted transactions and is independent of how many
// dispute/resolve/chargeback records the input carries.
type Ledger struct {
	entries map[uint32]*domain.Entry
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[uint32]*domain.Entry)}
}

// Contains reports whether txID was already accepted.
func (l *Ledger) Contains(txID uint32) bool {
	_, ok := l.entries[txID]
	return ok
}

// Record inserts a freshly applied deposit or withdrawal with dispute state
// none. The caller treats a duplicate as malformed input.
func (l *Ledger) Record(entry domain.Entry) error {
	if _, ok := l.entries[entry.TxID]; ok {
		return fmt.Errorf("%w: tx %d", domain.ErrDuplicateTransaction, entry.TxID)
	}

	entry.DisputeState = domain.DisputeNone
	l.entries[entry.TxID] = &entry
	return nil
}

// Lookup returns a copy of the entry for txID, if one was ever accepted.
// Mutation goes through TransitionDisputeState only.
func (l *Ledger) Lookup(txID uint32) (domain.Entry, bool) {
	entry, ok := l.entries[txID]
	if !ok {
		return domain.Entry{}, false
	}
	return *entry, true
}

// TransitionDisputeState advances the entry's dispute state only when its
// current state equals from and the transition is legal. This is the single
// mutation path for dispute state.
func (l *Ledger) TransitionDisputeState(txID uint32, from, to domain.DisputeState) error {
	entry, ok := l.entries[txID]
	if !ok {
		return fmt.Errorf("%w: tx %d", domain.ErrTransactionNotFound, txID)
	}

	if entry.DisputeState != from {
		return fmt.Errorf("%w: tx %d is %s, expected %s",
			domain.ErrInvalidDisputeTransition, txID, entry.DisputeState, from)
	}

	if !validTransition(from, to) {
		return fmt.Errorf("%w: tx %d cannot move %s -> %s",
			domain.ErrInvalidDisputeTransition, txID, from, to)
	}

	entry.DisputeState = to
	return nil
}

// Len reports how many entries are retained.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// validTransition encodes the per-entry lifecycle:
// none -> disputed -> resolved | charged_back, both terminal.
func validTransition(from, to domain.DisputeState) bool {
	switch from {
	case domain.DisputeNone:
		return to == domain.DisputeDisputed
	case domain.DisputeDisputed:
		return to == domain.DisputeResolved || to == domain.DisputeChargedBack
	default:
		return false
	}
}
