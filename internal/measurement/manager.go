// manager.go: typed facade over the measurement store. The rest of the
// application talks to the store exclusively through Manager, which
// validates inputs before anything touches persistence.
package measurement

import (
	"math"
	"net/url"
	"time"

	"github.com/noise-planet/noisecapture-go/internal/datastore"
	"github.com/noise-planet/noisecapture-go/internal/errors"
)

// LeqBatch is the unit the producer appends: one Leq summary with its band
// values.
type LeqBatch = datastore.LeqBatch

// Record is the session entity as stored.
type Record = datastore.Record

// Leq is the per-epoch summary entity as stored.
type Leq = datastore.Leq

// LeqValue is the per-band level entity as stored.
type LeqValue = datastore.LeqValue

// Manager is the query facade. It holds no session state of its own.
type Manager struct {
	store datastore.Interface
}

// NewManager creates a facade over the given store.
func NewManager(store datastore.Interface) *Manager {
	return &Manager{store: store}
}

// AddRecord allocates a new empty record for a starting session.
func (m *Manager) AddRecord() (uint, error) {
	return m.store.CreateRecord()
}

// AddLeqBatch appends one Leq summary and its band values to the batch's
// record as one atomic unit. The store-assigned Leq identifier is set on
// batch.Leq and propagated to every value.
func (m *Manager) AddLeqBatch(batch *LeqBatch) error {
	if batch == nil {
		return validationError("leq batch must not be nil", "batch", nil)
	}
	if batch.Leq.RecordID == 0 {
		return validationError("record identifier must be positive", "record_id", batch.Leq.RecordID)
	}
	if batch.Leq.Timestamp.IsZero() {
		return validationError("leq timestamp must be set", "timestamp", batch.Leq.Timestamp)
	}
	if batch.Leq.Elapsed < 0 {
		return validationError("elapsed time must not be negative", "elapsed", batch.Leq.Elapsed)
	}
	if !isFinite(batch.Leq.Level) {
		return validationError("leq level must be a finite number", "level", batch.Leq.Level)
	}
	if err := validatePosition(&batch.Leq); err != nil {
		return err
	}
	for i := range batch.Values {
		if batch.Values[i].BandID <= 0 {
			return validationError("band identifier must be positive", "band_id", batch.Values[i].BandID)
		}
		if !isFinite(batch.Values[i].Value) {
			return validationError("band level must be a finite number", "value", batch.Values[i].Value)
		}
	}

	return m.store.SaveLeqBatch(&batch.Leq, batch.Values)
}

// GetRecordMeasurements returns the full time series of a record in the
// requested chronological order. It is a pure read and may be repeated.
func (m *Manager) GetRecordMeasurements(recordID uint, sortAscending bool) ([]LeqBatch, error) {
	if recordID == 0 {
		return nil, validationError("record identifier must be positive", "record_id", recordID)
	}
	return m.store.GetRecordTimeSeries(recordID, sortAscending)
}

// UpdateRecordFinal sets the overall level and duration of a completed
// session. Calling it again overwrites the previous values.
func (m *Manager) UpdateRecordFinal(recordID uint, leqMean float64, duration time.Duration) error {
	if recordID == 0 {
		return validationError("record identifier must be positive", "record_id", recordID)
	}
	if duration < 0 {
		return validationError("duration must not be negative", "duration", duration)
	}
	if !isFinite(leqMean) {
		return validationError("overall level must be a finite number", "leq_mean", leqMean)
	}
	return m.store.FinalizeRecord(recordID, leqMean, duration)
}

// UpdateRecordUserInput replaces the record's description, rating, tags and
// photo reference. Tags must come from the fixed vocabulary and their order
// is preserved on readback. The photo URI is stored verbatim, never
// dereferenced.
func (m *Manager) UpdateRecordUserInput(recordID uint, description string, pleasantness int, tagLabels []string, photoURI string) error {
	if recordID == 0 {
		return validationError("record identifier must be positive", "record_id", recordID)
	}
	if pleasantness < -1 || pleasantness > 100 {
		return validationError("pleasantness rating must be between -1 and 100", "pleasantness", pleasantness)
	}
	if photoURI != "" {
		if _, err := url.Parse(photoURI); err != nil {
			return validationError("photo URI is not well formed", "photo_uri", photoURI)
		}
	}

	ordinals := make([]int, 0, len(tagLabels))
	seen := make(map[int]bool, len(tagLabels))
	for _, label := range tagLabels {
		ordinal, ok := TagOrdinal(label)
		if !ok {
			return validationError("tag is not part of the vocabulary", "tag", label)
		}
		if seen[ordinal] {
			return validationError("tag given more than once", "tag", label)
		}
		seen[ordinal] = true
		ordinals = append(ordinals, ordinal)
	}

	return m.store.AnnotateRecord(recordID, description, pleasantness, ordinals, photoURI)
}

// GetRecord retrieves a record. With includeComputed set, a record that was
// never finalized gets its duration and overall level derived from the
// stored epochs.
func (m *Manager) GetRecord(recordID uint, includeComputed bool) (Record, error) {
	if recordID == 0 {
		return Record{}, validationError("record identifier must be positive", "record_id", recordID)
	}
	return m.store.GetRecord(recordID, includeComputed)
}

// GetTags returns the record's tag labels in their original selection order.
func (m *Manager) GetTags(recordID uint) ([]string, error) {
	if recordID == 0 {
		return nil, validationError("record identifier must be positive", "record_id", recordID)
	}

	ordinals, err := m.store.GetRecordTags(recordID)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(ordinals))
	for _, ordinal := range ordinals {
		label, ok := TagLabel(ordinal)
		if !ok {
			// A stored ordinal outside the vocabulary means the database was
			// written by a newer vocabulary revision. Surface it rather than
			// silently dropping the tag.
			return nil, errors.Newf("stored tag ordinal %d is outside the vocabulary", ordinal).
				Component("measurement").
				Category(errors.CategoryState).
				Context("record_id", recordID).
				Build()
		}
		labels = append(labels, label)
	}

	return labels, nil
}

// Records lists all records, newest first.
func (m *Manager) Records() ([]Record, error) {
	return m.store.GetAllRecords()
}

// DeleteRecord removes a record and all its measurements.
func (m *Manager) DeleteRecord(recordID uint) error {
	if recordID == 0 {
		return validationError("record identifier must be positive", "record_id", recordID)
	}
	return m.store.DeleteRecord(recordID)
}

// validatePosition checks the optional GPS fields of a Leq.
func validatePosition(leq *Leq) error {
	if leq.Latitude != nil && (*leq.Latitude < -90 || *leq.Latitude > 90) {
		return validationError("latitude out of range", "latitude", *leq.Latitude)
	}
	if leq.Longitude != nil && (*leq.Longitude < -180 || *leq.Longitude > 180) {
		return validationError("longitude out of range", "longitude", *leq.Longitude)
	}
	if leq.Altitude != nil && !isFinite(*leq.Altitude) {
		return validationError("altitude must be a finite number", "altitude", *leq.Altitude)
	}
	if leq.Accuracy != nil && *leq.Accuracy < 0 {
		return validationError("accuracy must not be negative", "accuracy", *leq.Accuracy)
	}
	if leq.Speed != nil && *leq.Speed < 0 {
		return validationError("speed must not be negative", "speed", *leq.Speed)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validationError creates a validation error, surfaced before any
// persistence attempt.
func validationError(message, field string, value any) error {
	return errors.Newf("%s", message).
		Component("measurement").
		Category(errors.CategoryValidation).
		Context("field", field).
		Context("value", value).
		Build()
}

// IsNotFound reports whether err means the referenced record is unknown.
func IsNotFound(err error) bool {
	return errors.IsCategory(err, errors.CategoryNotFound)
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	return errors.IsCategory(err, errors.CategoryValidation)
}

// IsConflict reports whether err is an integrity violation.
func IsConflict(err error) bool {
	return errors.IsCategory(err, errors.CategoryConflict)
}

// IsStorageUnavailable reports whether err means the persistence mechanism
// failed; the caller may retry the whole operation.
func IsStorageUnavailable(err error) bool {
	return errors.IsCategory(err, errors.CategoryDatabase)
}
