// Package metrics publishes per-run counters. A batch run has no scrape
// endpoint, so the registry is dumped to a Prometheus textfile at end of run
// (node-exporter textfile-collector convention).
package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the run counters.
type Metrics struct {
	registry *prometheus.Registry

	// Record outcomes
	Records *prometheus.CounterVec
	Applied prometheus.Counter
	Skipped *prometheus.CounterVec
	Faults  prometheus.Counter

	// Input quality
	MalformedRows prometheus.Counter

	// Final state sizes
	Accounts      prometheus.Gauge
	LedgerEntries prometheus.Gauge
}

// New creates all metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		Records: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_records_total",
				Help: "Total input records consumed by kind",
			},
			[]string{"kind"},
		),
		Applied: factory.NewCounter(prometheus.CounterOpts{
			Name: "payengine_applied_total",
			Help: "Total records applied to an account",
		}),
		Skipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_skipped_total",
				Help: "Total records skipped as invalid input by reason",
			},
			[]string{"reason"},
		),
		Faults: factory.NewCounter(prometheus.CounterOpts{
			Name: "payengine_faults_total",
			Help: "Total invariant faults detected",
		}),

		MalformedRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "payengine_malformed_rows_total",
			Help: "Total malformed CSV rows dropped before the engine",
		}),

		Accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payengine_accounts",
			Help: "Accounts present in the final book",
		}),
		LedgerEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payengine_ledger_entries",
			Help: "Deposit and withdrawal entries retained for dispute lookups",
		}),
	}
}

// Gather exposes the registry contents, mainly for tests.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}

// WriteTextfile dumps all metrics in Prometheus text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer f.Close()

	encoder := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return fmt.Errorf("encode metric family %s: %w", family.GetName(), err)
		}
	}

	return nil
}
