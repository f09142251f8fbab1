package domain

import "errors"

var (
	// Ledger errors
	ErrDuplicateTransaction     = errors.New("transaction id already recorded")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrInvalidDisputeTransition = errors.New("invalid dispute state transition")

	// Account errors
	ErrInsufficientAvailable = errors.New("insufficient available funds")
	ErrInsufficientHeld      = errors.New("held funds below disputed amount")

	// Record errors
	ErrUnknownTxKind = errors.New("unknown transaction type")
)
