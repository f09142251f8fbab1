package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewAccount(t *testing.T) {
	acc := NewAccount(7)

	if acc.ClientID != 7 {
		t.Fatalf("expected client id 7, got %d", acc.ClientID)
	}

	if !acc.Available.IsZero() || !acc.Held.IsZero() {
		t.Fatalf("expected zero balances, got available=%s held=%s", acc.Available, acc.Held)
	}

	if acc.Locked {
		t.Fatal("expected new account to be unlocked")
	}
}

func TestAccount_TotalIsDerived(t *testing.T) {
	acc := &Account{
		Available: decimal.RequireFromString("1.5"),
		Held:      decimal.RequireFromString("2.25"),
	}

	want := decimal.RequireFromString("3.75")
	if !acc.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, acc.Total())
	}

	acc.Held = acc.Held.Sub(decimal.RequireFromString("2.25"))

	want = decimal.RequireFromString("1.5")
	if !acc.Total().Equal(want) {
		t.Fatalf("expected total to follow held, got %s", acc.Total())
	}
}

func TestAccount_ValidateAvailableDebit(t *testing.T) {
	tests := []struct {
		name        string
		available   string
		amount      string
		expectError bool
	}{
		{name: "debit below balance", available: "100", amount: "50", expectError: false},
		{name: "debit exact balance", available: "100", amount: "100", expectError: false},
		{name: "debit above balance", available: "100", amount: "100.0001", expectError: true},
		{name: "debit from zero", available: "0", amount: "0.0001", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Available: decimal.RequireFromString(tt.available)}

			err := acc.ValidateAvailableDebit(decimal.RequireFromString(tt.amount))

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_ValidateHeldDebit(t *testing.T) {
	acc := &Account{Held: decimal.RequireFromString("5")}

	if err := acc.ValidateHeldDebit(decimal.RequireFromString("5")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := acc.ValidateHeldDebit(decimal.RequireFromString("5.0001")); err == nil {
		t.Fatal("expected error debiting more than held")
	}
}
