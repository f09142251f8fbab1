package domain

import "github.com/shopspring/decimal"

// Account holds the mutable balance state of one client.
type Account struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount returns an unlocked account with zero balances.
func NewAccount(clientID uint16) *Account {
	return &Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total is always derived so available and held cannot drift apart.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// ValidateAvailableDebit checks that available funds cover amount.
func (a *Account) ValidateAvailableDebit(amount decimal.Decimal) error {
	if a.Available.Sub(amount).IsNegative() {
		return ErrInsufficientAvailable
	}
	return nil
}

// ValidateHeldDebit checks that held funds cover amount.
func (a *Account) ValidateHeldDebit(amount decimal.Decimal) error {
	if a.Held.Sub(amount).IsNegative() {
		return ErrInsufficientHeld
	}
	return nil
}
