// Package engine applies transaction records one at a time, in input order,
// against a ledger and an account book it exclusively owns.
package engine

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/ledger"
)

// Outcome classifies what Apply did with a record.
type Outcome string

const (
	// OutcomeApplied means the record mutated state.
	OutcomeApplied Outcome = "applied"
	// OutcomeSkipped means the record was invalid input and left state
	// untouched (warning level).
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFault means applying the record would have violated an account
	// invariant despite passing all input guards. State is left untouched
	// and the condition is collected for end-of-run reporting.
	OutcomeFault Outcome = "fault"
)

// Skip and fault reasons, used in logs and the run metrics.
const (
	ReasonLockedAccount        = "locked_account"
	ReasonMissingAmount        = "missing_amount"
	ReasonNegativeAmount       = "negative_amount"
	ReasonDuplicateTransaction = "duplicate_transaction"
	ReasonInsufficientFunds    = "insufficient_funds"
	ReasonUnknownTransaction   = "unknown_transaction"
	ReasonClientMismatch       = "client_mismatch"
	ReasonInvalidTransition    = "invalid_dispute_transition"

	ReasonAvailableWouldGoNegative = "available_would_go_negative"
	ReasonHeldWouldGoNegative      = "held_would_go_negative"
)

// Fault records an internal inconsistency detected while applying a record.
// Faults signal a logic defect rather than bad input; they are collected in
// input order and reported out of band, never in the output table.
type Fault struct {
	TxID     uint32
	ClientID uint16
	Kind     domain.TxKind
	Reason   string
}

// Stats aggregates per-run outcome counts for the summary log and metrics.
type Stats struct {
	Records     int
	Applied     int
	Skipped     int
	Faults      int
	ByKind      map[domain.TxKind]int
	SkipReasons map[string]int
}

// Engine consumes records and derives the final state of every account.
// It is strictly sequential and owns its stores for the lifetime of one run.
type Engine struct {
	ledger *ledger.Ledger
	book   *ledger.Book
	log    zerolog.Logger
	faults []Fault
	stats  Stats
}

// New creates an engine with empty stores.
func New(log zerolog.Logger) *Engine {
	return &Engine{
		ledger: ledger.New(),
		book:   ledger.NewBook(),
		log:    log,
		stats: Stats{
			ByKind:      make(map[domain.TxKind]int),
			SkipReasons: make(map[string]int),
		},
	}
}

// Apply processes one record. It never returns an error: invalid input is
// skipped, invariant violations are recorded as faults, and processing
// always continues with the next record.
func (e *Engine) Apply(rec domain.Record) Outcome {
	e.stats.Records++
	e.stats.ByKind[rec.Kind]++

	// Lazy account creation on first reference of the client id, for every
	// record kind. A locked account accepts no further state changes, not
	// even resolves or chargebacks of disputes opened before the lock.
	account := e.book.Get(rec.ClientID)
	if account.Locked {
		return e.skip(rec, ReasonLockedAccount)
	}

	switch rec.Kind {
	case domain.TxDeposit:
		return e.applyDeposit(rec, account)
	case domain.TxWithdrawal:
		return e.applyWithdrawal(rec, account)
	case domain.TxDispute:
		return e.applyDisputeFamily(rec, account, domain.DisputeNone, domain.DisputeDisputed)
	case domain.TxResolve:
		return e.applyDisputeFamily(rec, account, domain.DisputeDisputed, domain.DisputeResolved)
	case domain.TxChargeback:
		return e.applyDisputeFamily(rec, account, domain.DisputeDisputed, domain.DisputeChargedBack)
	}

	return e.skip(rec, domain.ErrUnknownTxKind.Error())
}

// Accounts exposes the final account book at end of stream.
func (e *Engine) Accounts() *ledger.Book {
	return e.book
}

// Faults returns the ordered list of fault conditions collected so far.
func (e *Engine) Faults() []Fault {
	return e.faults
}

// Stats returns the per-run outcome counts.
func (e *Engine) Stats() Stats {
	return e.stats
}

// LedgerSize reports how many deposit/withdrawal entries are retained.
func (e *Engine) LedgerSize() int {
	return e.ledger.Len()
}

func (e *Engine) applyDeposit(rec domain.Record, account *domain.Account) Outcome {
	if !rec.HasAmount {
		return e.skip(rec, ReasonMissingAmount)
	}
	if rec.Amount.IsNegative() {
		return e.skip(rec, ReasonNegativeAmount)
	}
	if e.ledger.Contains(rec.TxID) {
		return e.skip(rec, ReasonDuplicateTransaction)
	}

	if err := e.ledger.Record(domain.Entry{
		TxID:     rec.TxID,
		ClientID: rec.ClientID,
		Kind:     rec.Kind,
		Amount:   rec.Amount,
	}); err != nil {
		return e.skip(rec, ReasonDuplicateTransaction)
	}

	account.Available = account.Available.Add(rec.Amount)
	return e.applied(rec)
}

func (e *Engine) applyWithdrawal(rec domain.Record, account *domain.Account) Outcome {
	if !rec.HasAmount {
		return e.skip(rec, ReasonMissingAmount)
	}
	if rec.Amount.IsNegative() {
		return e.skip(rec, ReasonNegativeAmount)
	}
	if e.ledger.Contains(rec.TxID) {
		return e.skip(rec, ReasonDuplicateTransaction)
	}
	if err := account.ValidateAvailableDebit(rec.Amount); err != nil {
		return e.skip(rec, ReasonInsufficientFunds)
	}

	if err := e.ledger.Record(domain.Entry{
		TxID:     rec.TxID,
		ClientID: rec.ClientID,
		Kind:     rec.Kind,
		Amount:   rec.Amount,
	}); err != nil {
		return e.skip(rec, ReasonDuplicateTransaction)
	}

	account.Available = account.Available.Sub(rec.Amount)
	return e.applied(rec)
}

// applyDisputeFamily handles dispute, resolve and chargeback records. The
// account effect is validated before the dispute state advances, so a failed
// record leaves both the ledger and the account untouched.
func (e *Engine) applyDisputeFamily(rec domain.Record, account *domain.Account, from, to domain.DisputeState) Outcome {
	entry, ok := e.ledger.Lookup(rec.TxID)
	if !ok {
		return e.skip(rec, ReasonUnknownTransaction)
	}
	if entry.ClientID != rec.ClientID {
		return e.skip(rec, ReasonClientMismatch)
	}
	if entry.DisputeState != from {
		return e.skip(rec, ReasonInvalidTransition)
	}

	if err := e.validateEffect(rec.Kind, entry, account); err != nil {
		return e.fault(rec, faultReason(err))
	}

	if err := e.ledger.TransitionDisputeState(rec.TxID, from, to); err != nil {
		return e.skip(rec, ReasonInvalidTransition)
	}

	e.applyEffect(rec.Kind, entry, account)
	return e.applied(rec)
}

// validateEffect checks that the account effect of a dispute-family record
// holds the invariants available >= 0 and held >= 0.
func (e *Engine) validateEffect(kind domain.TxKind, entry domain.Entry, account *domain.Account) error {
	switch kind {
	case domain.TxDispute:
		// Disputing a withdrawal only raises held; the funds already left
		// available when the withdrawal was applied.
		if entry.Kind == domain.TxDeposit {
			return account.ValidateAvailableDebit(entry.Amount)
		}
		return nil
	default: // resolve, chargeback
		return account.ValidateHeldDebit(entry.Amount)
	}
}

// applyEffect mutates the account for an already-validated record.
//
// Dispute on a deposit moves the amount available -> held; dispute on a
// withdrawal holds the provisional re-credit without touching available.
// Resolve reverses exactly what the dispute did for the entry's kind.
// Chargeback removes the amount from held permanently and locks the account.
func (e *Engine) applyEffect(kind domain.TxKind, entry domain.Entry, account *domain.Account) {
	amount := entry.Amount

	switch kind {
	case domain.TxDispute:
		if entry.Kind == domain.TxDeposit {
			account.Available = account.Available.Sub(amount)
		}
		account.Held = account.Held.Add(amount)
	case domain.TxResolve:
		account.Held = account.Held.Sub(amount)
		if entry.Kind == domain.TxDeposit {
			account.Available = account.Available.Add(amount)
		}
	case domain.TxChargeback:
		account.Held = account.Held.Sub(amount)
		account.Locked = true
	}
}

func (e *Engine) applied(rec domain.Record) Outcome {
	e.stats.Applied++
	e.log.Debug().
		Str("kind", string(rec.Kind)).
		Uint16("client", rec.ClientID).
		Uint32("tx", rec.TxID).
		Msg("record applied")
	return OutcomeApplied
}

func (e *Engine) skip(rec domain.Record, reason string) Outcome {
	e.stats.Skipped++
	e.stats.SkipReasons[reason]++
	e.log.Warn().
		Str("kind", string(rec.Kind)).
		Uint16("client", rec.ClientID).
		Uint32("tx", rec.TxID).
		Str("reason", reason).
		Msg("record skipped")
	return OutcomeSkipped
}

func (e *Engine) fault(rec domain.Record, reason string) Outcome {
	e.stats.Faults++
	e.faults = append(e.faults, Fault{
		TxID:     rec.TxID,
		ClientID: rec.ClientID,
		Kind:     rec.Kind,
		Reason:   reason,
	})
	e.log.Error().
		Str("kind", string(rec.Kind)).
		Uint16("client", rec.ClientID).
		Uint32("tx", rec.TxID).
		Str("reason", reason).
		Msg("invariant fault detected")
	return OutcomeFault
}

func faultReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientAvailable):
		return ReasonAvailableWouldGoNegative
	case errors.Is(err, domain.ErrInsufficientHeld):
		return ReasonHeldWouldGoNegative
	default:
		return err.Error()
	}
}
