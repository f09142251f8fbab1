package csvio

import (
	"fmt"
	"io"

	"github.com/iho/payengine/internal/engine"
)

// ReportFaults writes the ordered fault list to the diagnostic stream, one
// line per fault. The diagnostic stream is separate from the account table's
// writer so the two never interleave.
func ReportFaults(w io.Writer, faults []engine.Fault) error {
	for i, f := range faults {
		_, err := fmt.Fprintf(w, "fault %d: %s tx=%d client=%d: %s\n",
			i+1, f.Kind, f.TxID, f.ClientID, f.Reason)
		if err != nil {
			return fmt.Errorf("report fault %d: %w", i+1, err)
		}
	}

	return nil
}
