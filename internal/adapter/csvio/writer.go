package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iho/payengine/internal/domain"
)

// WriteAccounts renders the final account table: a header followed by one
// row per account. Callers pass accounts already sorted ascending by client
// id (Book.Sorted) so the output is reproducible across runs.
func WriteAccounts(w io.Writer, accounts []*domain.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, account := range accounts {
		row := []string{
			strconv.FormatUint(uint64(account.ClientID), 10),
			domain.FormatAmount(account.Available),
			domain.FormatAmount(account.Held),
			domain.FormatAmount(account.Total()),
			strconv.FormatBool(account.Locked),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write account %d: %w", account.ClientID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
