package datastore

import (
	"testing"
	"time"

	"github.com/noise-planet/noisecapture-go/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

// makeLeq builds a positioned Leq at the given offset from a fixed epoch.
func makeLeq(recordID uint, offset time.Duration, level float64) *Leq {
	base := time.Date(2025, 6, 12, 14, 30, 0, 0, time.UTC)
	return &Leq{
		RecordID:  recordID,
		Timestamp: base.Add(offset),
		Elapsed:   offset,
		Latitude:  floatPtr(47.6),
		Longitude: floatPtr(-2.75),
		Level:     level,
	}
}

func TestCreateRecordAssignsDistinctIDs(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	first, err := ds.CreateRecord()
	require.NoError(t, err)
	second, err := ds.CreateRecord()
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "Record IDs should be unique")

	record, err := ds.GetRecord(first, false)
	require.NoError(t, err)
	assert.Equal(t, -1, record.Pleasantness, "New record should be unrated")
	assert.False(t, record.Finalized, "New record should not be finalized")
	assert.False(t, record.UTC.IsZero(), "Record should carry its creation time")
}

func TestSaveLeqBatchCountMatchesCompletedAppends(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	recordID, err := ds.CreateRecord()
	require.NoError(t, err)

	const appended = 5
	for i := 0; i < appended; i++ {
		leq := makeLeq(recordID, time.Duration(i)*time.Second, 60+float64(i))
		values := []LeqValue{{BandID: 1000, Value: 55.5}, {BandID: 2000, Value: 48.0}}
		require.NoError(t, ds.SaveLeqBatch(leq, values))
	}

	// A failing batch must not contribute rows
	bad := makeLeq(recordID, appended*time.Second, 61)
	err = ds.SaveLeqBatch(bad, []LeqValue{
		{BandID: 1000, Value: 50},
		{BandID: 1000, Value: 51}, // duplicate band within the epoch
	})
	require.Error(t, err, "Duplicate band in a batch should fail")
	assert.True(t, errors.IsCategory(err, errors.CategoryConflict))

	batches, err := ds.GetRecordTimeSeries(recordID, true)
	require.NoError(t, err)
	assert.Len(t, batches, appended, "Count should equal completed appends only")
	for _, b := range batches {
		assert.Len(t, b.Values, 2)
	}
}

func TestSaveLeqBatchRollsBackWholeBatch(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	recordID, err := ds.CreateRecord()
	require.NoError(t, err)

	leq := makeLeq(recordID, 0, 63.2)
	err = ds.SaveLeqBatch(leq, []LeqValue{
		{BandID: 125, Value: 60},
		{BandID: 250, Value: 58},
		{BandID: 250, Value: 59}, // violates the per-epoch band uniqueness
	})
	require.Error(t, err)

	// Neither the Leq row nor the earlier band values may survive
	batches, err := ds.GetRecordTimeSeries(recordID, true)
	require.NoError(t, err)
	assert.Empty(t, batches, "Failed batch should leave no partial rows")
}

func TestSaveLeqBatchRequiresExistingRecord(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	leq := makeLeq(9999, 0, 60)
	err := ds.SaveLeqBatch(leq, []LeqValue{{BandID: 1000, Value: 55}})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConflict),
		"Appending to a missing record should be an integrity conflict")
}

func TestGetRecordTimeSeriesOrdering(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	recordID, err := ds.CreateRecord()
	require.NoError(t, err)

	// Appended out of chronological order on purpose
	offsets := []time.Duration{2 * time.Second, 0, 3 * time.Second, time.Second}
	for _, off := range offsets {
		require.NoError(t, ds.SaveLeqBatch(makeLeq(recordID, off, 60), nil))
	}

	ascending, err := ds.GetRecordTimeSeries(recordID, true)
	require.NoError(t, err)
	require.Len(t, ascending, len(offsets))
	for i := 1; i < len(ascending); i++ {
		assert.False(t, ascending[i].Leq.Timestamp.Before(ascending[i-1].Leq.Timestamp),
			"Ascending retrieval should be chronological")
	}

	descending, err := ds.GetRecordTimeSeries(recordID, false)
	require.NoError(t, err)
	require.Len(t, descending, len(offsets))
	for i := 1; i < len(descending); i++ {
		assert.False(t, descending[i].Leq.Timestamp.After(descending[i-1].Leq.Timestamp),
			"Descending retrieval should be reverse chronological")
	}
}

func TestGetRecordTimeSeriesBandOrdering(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	recordID, err := ds.CreateRecord()
	require.NoError(t, err)

	// Bands supplied shuffled, retrieval must sort them
	values := []LeqValue{
		{BandID: 4000, Value: 49},
		{BandID: 125, Value: 65},
		{BandID: 16000, Value: 41},
		{BandID: 1000, Value: 58},
	}
	require.NoError(t, ds.SaveLeqBatch(makeLeq(recordID, 0, 60), values))

	batches, err := ds.GetRecordTimeSeries(recordID, true)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	got := batches[0].Values
	require.Len(t, got, 4)
	assert.Equal(t, []int{125, 1000, 4000, 16000},
		[]int{got[0].BandID, got[1].BandID, got[2].BandID, got[3].BandID})
}

func TestGetRecordTimeSeriesMissingRecord(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	_, err := ds.GetRecordTimeSeries(424242, true)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFinalizeRecordOverwrites(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	recordID, err := ds.CreateRecord()
	require.NoError(t, err)

	require.NoError(t, ds.FinalizeRecord(recordID, 55.5, 90*time.Second))
	require.NoError(t, ds.FinalizeRecord(recordID, 49.0, 2*time.Second))

	record, err := ds.GetRecord(recordID, false)
	require.NoError(t, err)
	assert.True(t, record.Finalized)
	assert.InDelta(t, 49.0, record.LeqMean, 0.001, "Last finalization should win")
	assert.Equal(t, 2*time.Second, record.Duration)
}

func TestFinalizeRecordMissingRecord(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	err := ds.FinalizeRecord(31337, 50, time.Minute)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAnnotateRecordReplacesTags(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	recordID, err := ds.CreateRecord()
	require.NoError(t, err)

	require.NoError(t, ds.AnnotateRecord(recordID, "first pass", 40, []int{0, 4}, ""))
	require.NoError(t, ds.AnnotateRecord(recordID, "second pass", 75, []int{5, 2, 9}, "file:///p.jpg"))

	record, err := ds.GetRecord(recordID, false)
	require.NoError(t, err)
	assert.Equal(t, "second pass", record.Description)
	assert.Equal(t, 75, record.Pleasantness)
	assert.Equal(t, "file:///p.jpg", record.PhotoURI)

	ordinals, err := ds.GetRecordTags(recordID)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 2, 9}, ordinals, "Tags should be fully replaced, selection order kept")
}

func TestAnnotateRecordClearsTags(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	recordID, err := ds.CreateRecord()
	require.NoError(t, err)

	require.NoError(t, ds.AnnotateRecord(recordID, "tagged", 10, []int{1, 2}, ""))
	require.NoError(t, ds.AnnotateRecord(recordID, "untagged", 10, nil, ""))

	ordinals, err := ds.GetRecordTags(recordID)
	require.NoError(t, err)
	assert.Empty(t, ordinals)
}

func TestGetRecordComputedSummary(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	recordID, err := ds.CreateRecord()
	require.NoError(t, err)

	require.NoError(t, ds.SaveLeqBatch(makeLeq(recordID, time.Second, 60), nil))
	require.NoError(t, ds.SaveLeqBatch(makeLeq(recordID, 2*time.Second, 70), nil))

	record, err := ds.GetRecord(recordID, true)
	require.NoError(t, err)
	// Energetic mean of 60 and 70 dB, not the arithmetic one
	assert.InDelta(t, 67.4, record.LeqMean, 0.1)
	assert.Equal(t, 2*time.Second, record.Duration, "Duration should be the largest elapsed offset")
	assert.False(t, record.Finalized)

	// Once finalized the stored summary takes precedence over derivation
	require.NoError(t, ds.FinalizeRecord(recordID, 42.0, 5*time.Second))
	record, err = ds.GetRecord(recordID, true)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, record.LeqMean, 0.001)
	assert.Equal(t, 5*time.Second, record.Duration)
}

func TestGetRecordMissingRecord(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	_, err := ds.GetRecord(77, false)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetAllRecords(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	var ids []uint
	for i := 0; i < 3; i++ {
		id, err := ds.CreateRecord()
		require.NoError(t, err)
		ids = append(ids, id)
	}

	records, err := ds.GetAllRecords()
	require.NoError(t, err)
	require.Len(t, records, 3)

	got := make([]uint, 0, len(records))
	for i := range records {
		got = append(got, records[i].ID)
	}
	assert.ElementsMatch(t, ids, got)
}

func TestDeleteRecordRemovesDependents(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	victim, err := ds.CreateRecord()
	require.NoError(t, err)
	survivor, err := ds.CreateRecord()
	require.NoError(t, err)

	require.NoError(t, ds.SaveLeqBatch(makeLeq(victim, 0, 61),
		[]LeqValue{{BandID: 1000, Value: 55}}))
	require.NoError(t, ds.SaveLeqBatch(makeLeq(survivor, 0, 62),
		[]LeqValue{{BandID: 1000, Value: 52}}))
	require.NoError(t, ds.AnnotateRecord(victim, "doomed", 0, []int{3}, ""))

	require.NoError(t, ds.DeleteRecord(victim))

	_, err = ds.GetRecord(victim, false)
	assert.True(t, errors.IsNotFound(err))
	_, err = ds.GetRecordTimeSeries(victim, true)
	assert.True(t, errors.IsNotFound(err))

	// The neighbouring record keeps its data
	batches, err := ds.GetRecordTimeSeries(survivor, true)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0].Values, 1)
}

func TestDeleteRecordMissingRecord(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t)

	err := ds.DeleteRecord(12345)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
