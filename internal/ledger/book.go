package ledger

import (
	"sort"

	"github.com/iho/payengine/internal/domain"
)

// Book maps client ids to their accounts. Accounts are created lazily the
// first time a client id is referenced and live for the whole run.
type Book struct {
	accounts map[uint16]*domain.Account
}

// NewBook creates an empty account book.
func NewBook() *Book {
	return &Book{accounts: make(map[uint16]*domain.Account)}
}

// Get returns the account for clientID, creating it unlocked with zero
// balances on first reference.
func (b *Book) Get(clientID uint16) *domain.Account {
	account, ok := b.accounts[clientID]
	if !ok {
		account = domain.NewAccount(clientID)
		b.accounts[clientID] = account
	}
	return account
}

// Len reports how many accounts exist.
func (b *Book) Len() int {
	return len(b.accounts)
}

// Sorted returns all accounts in ascending client id order so output is
// deterministic regardless of map iteration order.
func (b *Book) Sorted() []*domain.Account {
	accounts := make([]*domain.Account, 0, len(b.accounts))
	for _, account := range b.accounts {
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ClientID < accounts[j].ClientID
	})

	return accounts
}
