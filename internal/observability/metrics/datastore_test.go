package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatastoreMetricsRegisters(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewDatastoreMetrics(registry)
	require.NoError(t, err)
	require.NotNil(t, m)

	// A second collector with the same descriptors must be rejected
	_, err = NewDatastoreMetrics(registry)
	assert.Error(t, err)
}

func TestRecordOperationCounters(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewDatastoreMetrics(registry)
	require.NoError(t, err)

	m.RecordRecordOperation("append_batch", "success")
	m.RecordRecordOperation("append_batch", "success")
	m.RecordRecordOperation("append_batch", "error")
	m.RecordTransaction("committed")
	m.RecordDbOperation("insert", "leqs", "success")

	assert.InDelta(t, 2.0,
		testutil.ToFloat64(m.recordOperationsTotal.WithLabelValues("append_batch", "success")), 0.001)
	assert.InDelta(t, 1.0,
		testutil.ToFloat64(m.recordOperationsTotal.WithLabelValues("append_batch", "error")), 0.001)
	assert.InDelta(t, 1.0,
		testutil.ToFloat64(m.dbTransactionsTotal.WithLabelValues("committed")), 0.001)
	assert.InDelta(t, 1.0,
		testutil.ToFloat64(m.dbOperationsTotal.WithLabelValues("insert", "leqs", "success")), 0.001)

	// The registry gathers the populated families under their public names
	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "datastore_record_operations_total")
	assert.Contains(t, names, "datastore_db_transactions_total")
	assert.Contains(t, names, "datastore_db_operations_total")
}
