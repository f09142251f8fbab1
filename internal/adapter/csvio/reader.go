// Package csvio adapts the engine to CSV input and output streams.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/payengine/internal/domain"
)

// Reader yields transaction records from a CSV stream lazily, one at a time.
// Malformed rows are logged at warn, counted and skipped; they never reach
// the caller. Only unreadable streams surface as errors.
type Reader struct {
	csv     *csv.Reader
	log     zerolog.Logger
	cols    columns
	line    int
	skipped int
	started bool
}

// columns maps header names to field indices. amount is -1 when the input
// has no amount column at all.
type columns struct {
	kind   int
	client int
	tx     int
	amount int
}

// NewReader wraps r. The first row must be a header naming at least the
// type, client and tx columns; column order is not significant.
func NewReader(r io.Reader, log zerolog.Logger) *Reader {
	cr := csv.NewReader(r)
	// Rows legitimately carry three fields (dispute family) or four
	// (deposit/withdrawal); widths are validated per row instead.
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	return &Reader{csv: cr, log: log}
}

// Next returns the next well-formed record, or io.EOF at end of stream.
func (r *Reader) Next() (domain.Record, error) {
	if !r.started {
		if err := r.readHeader(); err != nil {
			return domain.Record{}, err
		}
		r.started = true
	}

	for {
		row, err := r.csv.Read()
		r.line++

		if err != nil {
			if errors.Is(err, io.EOF) {
				return domain.Record{}, io.EOF
			}

			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.skip(err)
				continue
			}

			return domain.Record{}, fmt.Errorf("read input row %d: %w", r.line, err)
		}

		rec, err := r.parseRow(row)
		if err != nil {
			r.skip(err)
			continue
		}

		return rec, nil
	}
}

// Skipped reports how many malformed rows were dropped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		// An empty stream yields an empty account table, not an error.
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("read input header: %w", err)
	}
	r.line++

	r.cols = columns{kind: -1, client: -1, tx: -1, amount: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "type":
			r.cols.kind = i
		case "client":
			r.cols.client = i
		case "tx":
			r.cols.tx = i
		case "amount":
			r.cols.amount = i
		}
	}

	if r.cols.kind < 0 || r.cols.client < 0 || r.cols.tx < 0 {
		return fmt.Errorf("input header %q missing type, client or tx column", header)
	}

	return nil
}

func (r *Reader) parseRow(row []string) (domain.Record, error) {
	if r.cols.kind >= len(row) || r.cols.client >= len(row) || r.cols.tx >= len(row) {
		return domain.Record{}, fmt.Errorf("row has %d columns, too few", len(row))
	}

	kind, err := domain.ParseTxKind(row[r.cols.kind])
	if err != nil {
		return domain.Record{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(row[r.cols.client]), 10, 16)
	if err != nil {
		return domain.Record{}, fmt.Errorf("invalid client id %q: %w", row[r.cols.client], err)
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(row[r.cols.tx]), 10, 32)
	if err != nil {
		return domain.Record{}, fmt.Errorf("invalid tx id %q: %w", row[r.cols.tx], err)
	}

	rec := domain.Record{
		Kind:     kind,
		ClientID: uint16(client),
		TxID:     uint32(tx),
	}

	// An amount cell is only meaningful on deposits and withdrawals; a
	// value on a dispute-family row is ignored rather than rejected.
	if kind != domain.TxDeposit && kind != domain.TxWithdrawal {
		return rec, nil
	}

	if r.cols.amount < 0 || r.cols.amount >= len(row) {
		return rec, nil
	}

	cell := strings.TrimSpace(row[r.cols.amount])
	if cell == "" {
		return rec, nil
	}

	amount, err := domain.ParseAmount(cell)
	if err != nil {
		return domain.Record{}, fmt.Errorf("invalid amount %q: %w", cell, err)
	}

	rec.Amount = amount
	rec.HasAmount = true
	return rec, nil
}

func (r *Reader) skip(err error) {
	r.skipped++
	r.log.Warn().
		Int("row", r.line).
		Err(err).
		Msg("malformed input row skipped")
}
