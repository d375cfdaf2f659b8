// interfaces.go: this code defines the interface for the measurement store operations
package datastore

import (
	"math"
	"time"

	"github.com/noise-planet/noisecapture-go/internal/conf"
	"github.com/noise-planet/noisecapture-go/internal/errors"
	"gorm.io/gorm"
)

// Interface abstracts the underlying database implementation and defines the
// operations of the measurement store.
type Interface interface {
	Open() error
	Close() error
	CreateRecord() (uint, error)
	SaveLeqBatch(leq *Leq, values []LeqValue) error
	GetRecordTimeSeries(recordID uint, sortAscending bool) ([]LeqBatch, error)
	FinalizeRecord(recordID uint, leqMean float64, duration time.Duration) error
	AnnotateRecord(recordID uint, description string, pleasantness int, tagOrdinals []int, photoURI string) error
	GetRecord(recordID uint, includeComputed bool) (Record, error)
	GetRecordTags(recordID uint) ([]int, error)
	GetAllRecords() ([]Record, error)
	DeleteRecord(recordID uint) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB      *gorm.DB // GORM database instance
	metrics *Metrics // optional, nil disables metric recording
}

// New creates a new store instance based on the provided configuration.
// Metrics may be nil.
func New(settings *conf.Settings, metrics *Metrics) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			DataStore: DataStore{metrics: metrics},
			Settings:  settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			DataStore: DataStore{metrics: metrics},
			Settings:  settings,
		}
	default:
		return nil
	}
}

// CreateRecord allocates a new empty record and returns its identifier.
func (ds *DataStore) CreateRecord() (uint, error) {
	if ds.DB == nil {
		return 0, stateError(errors.NewStd("database connection is not initialized"), "create_record", "connection")
	}

	record := Record{
		UTC:          time.Now().UTC(),
		Pleasantness: -1, // not rated yet
	}

	if err := ds.DB.Create(&record).Error; err != nil {
		ds.recordOp("create", "error")
		return 0, dbError(err, "create_record", errors.PriorityCritical)
	}

	ds.recordOp("create", "success")
	getLogger().Debug("Record created", "record_id", record.ID)
	return record.ID, nil
}

// SaveLeqBatch stores one Leq summary and its band values as a single
// transaction. The Leq identifier is allocated here and propagated to every
// value; on any row failure the whole batch is rolled back.
func (ds *DataStore) SaveLeqBatch(leq *Leq, values []LeqValue) error {
	if ds.DB == nil {
		return stateError(errors.NewStd("database connection is not initialized"), "save_leq_batch", "connection")
	}

	start := time.Now()
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		// The owning record must exist before any row is written
		var owner Record
		if err := tx.Select("id").First(&owner, leq.RecordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return conflictError(err, "save_leq_batch", "missing_record", "record_id", leq.RecordID)
			}
			return dbError(err, "save_leq_batch", "")
		}

		if err := tx.Create(leq).Error; err != nil {
			return dbError(err, "save_leq_batch", "", "record_id", leq.RecordID)
		}

		// Assign the allocated Leq ID to each band value and save them
		for i := range values {
			values[i].LeqID = leq.ID
			if err := tx.Create(&values[i]).Error; err != nil {
				if isConstraintViolation(err) {
					return conflictError(err, "save_leq_batch", "band_value_conflict",
						"leq_id", leq.ID, "band_id", values[i].BandID)
				}
				return dbError(err, "save_leq_batch", "", "band_id", values[i].BandID)
			}
		}

		return nil
	})

	ds.recordTx("save_leq_batch", start, err)
	if err != nil {
		ds.recordOp("append_batch", "error")
		return err
	}

	ds.recordOp("append_batch", "success")
	return nil
}

// GetRecordTimeSeries retrieves the full time series of a record in
// chronological order, each Leq paired with its band values ordered by band
// identifier. The read runs inside one transaction so a concurrent batch
// append is either fully visible or not at all.
func (ds *DataStore) GetRecordTimeSeries(recordID uint, sortAscending bool) ([]LeqBatch, error) {
	sortOrder := sortAscendingString(sortAscending)

	var batches []LeqBatch
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&Record{}).Where("id = ?", recordID).Count(&exists).Error; err != nil {
			return dbError(err, "get_record_time_series", "")
		}
		if exists == 0 {
			return notFoundError("record", recordID)
		}

		var leqs []Leq
		if err := tx.Where("record_id = ?", recordID).
			Order("timestamp " + sortOrder).
			Find(&leqs).Error; err != nil {
			return dbError(err, "get_record_time_series", "")
		}

		batches = make([]LeqBatch, 0, len(leqs))
		for i := range leqs {
			var values []LeqValue
			if err := tx.Where("leq_id = ?", leqs[i].ID).
				Order("band_id ASC").
				Find(&values).Error; err != nil {
				return dbError(err, "get_record_time_series", "", "leq_id", leqs[i].ID)
			}
			batches = append(batches, LeqBatch{Leq: leqs[i], Values: values})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if ds.metrics != nil {
		ds.metrics.RecordQueryResultSize("time_series", "leqs", len(batches))
	}
	return batches, nil
}

// FinalizeRecord sets the computed summary fields of a completed session.
// Repeated calls overwrite, they never accumulate.
func (ds *DataStore) FinalizeRecord(recordID uint, leqMean float64, duration time.Duration) error {
	start := time.Now()
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := requireRecord(tx, recordID, "finalize_record"); err != nil {
			return err
		}

		updates := map[string]any{
			"leq_mean":  leqMean,
			"duration":  duration,
			"finalized": true,
		}
		if err := tx.Model(&Record{}).Where("id = ?", recordID).Updates(updates).Error; err != nil {
			return dbError(err, "finalize_record", "", "record_id", recordID)
		}
		return nil
	})

	ds.recordTx("finalize_record", start, err)
	if err != nil {
		ds.recordOp("finalize", "error")
		return err
	}

	ds.recordOp("finalize", "success")
	return nil
}

// AnnotateRecord replaces the record's user-entered metadata and its tag
// associations. Old tag links are removed, the new ones inserted with their
// selection order preserved, all within one transaction.
func (ds *DataStore) AnnotateRecord(recordID uint, description string, pleasantness int, tagOrdinals []int, photoURI string) error {
	start := time.Now()
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := requireRecord(tx, recordID, "annotate_record"); err != nil {
			return err
		}

		updates := map[string]any{
			"description":  description,
			"pleasantness": pleasantness,
			"photo_uri":    photoURI,
		}
		if err := tx.Model(&Record{}).Where("id = ?", recordID).Updates(updates).Error; err != nil {
			return dbError(err, "annotate_record", "", "record_id", recordID)
		}

		if err := tx.Where("record_id = ?", recordID).Delete(&RecordTag{}).Error; err != nil {
			return dbError(err, "annotate_record", "", "record_id", recordID)
		}

		for position, ordinal := range tagOrdinals {
			link := RecordTag{RecordID: recordID, TagOrdinal: ordinal, Position: position}
			if err := tx.Create(&link).Error; err != nil {
				if isConstraintViolation(err) {
					return conflictError(err, "annotate_record", "duplicate_tag",
						"record_id", recordID, "tag_ordinal", ordinal)
				}
				return dbError(err, "annotate_record", "", "tag_ordinal", ordinal)
			}
		}

		return nil
	})

	ds.recordTx("annotate_record", start, err)
	if err != nil {
		ds.recordOp("annotate", "error")
		return err
	}

	ds.recordOp("annotate", "success")
	return nil
}

// GetRecord retrieves a record by its ID. With includeComputed set and a
// record that was never finalized (interrupted session), duration and the
// energetic mean level are derived from the stored Leq rows.
func (ds *DataStore) GetRecord(recordID uint, includeComputed bool) (Record, error) {
	var record Record
	if err := ds.DB.First(&record, recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Record{}, notFoundError("record", recordID)
		}
		return Record{}, dbError(err, "get_record", "", "record_id", recordID)
	}

	if includeComputed && !record.Finalized {
		if err := ds.computeSummary(&record); err != nil {
			return Record{}, err
		}
	}

	return record, nil
}

// computeSummary fills Duration and LeqMean from the Leq rows of a
// non-finalized record.
func (ds *DataStore) computeSummary(record *Record) error {
	var leqs []Leq
	if err := ds.DB.Where("record_id = ?", record.ID).Find(&leqs).Error; err != nil {
		return dbError(err, "get_record", "", "record_id", record.ID)
	}
	if len(leqs) == 0 {
		return nil
	}

	var energySum float64
	var maxElapsed time.Duration
	for i := range leqs {
		energySum += math.Pow(10, leqs[i].Level/10)
		if leqs[i].Elapsed > maxElapsed {
			maxElapsed = leqs[i].Elapsed
		}
	}

	record.LeqMean = 10 * math.Log10(energySum/float64(len(leqs)))
	record.Duration = maxElapsed
	return nil
}

// GetRecordTags returns the tag ordinals of a record in their original
// selection order.
func (ds *DataStore) GetRecordTags(recordID uint) ([]int, error) {
	if err := requireRecord(ds.DB, recordID, "get_record_tags"); err != nil {
		return nil, err
	}

	var ordinals []int
	err := ds.DB.Model(&RecordTag{}).
		Where("record_id = ?", recordID).
		Order("position ASC").
		Pluck("tag_ordinal", &ordinals).Error
	if err != nil {
		return nil, dbError(err, "get_record_tags", "", "record_id", recordID)
	}

	return ordinals, nil
}

// GetAllRecords retrieves all records, newest first.
func (ds *DataStore) GetAllRecords() ([]Record, error) {
	var records []Record
	if result := ds.DB.Order("utc DESC").Find(&records); result.Error != nil {
		return nil, dbError(result.Error, "get_all_records", "")
	}
	return records, nil
}

// DeleteRecord removes a record and all its dependent rows.
func (ds *DataStore) DeleteRecord(recordID uint) error {
	start := time.Now()
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := requireRecord(tx, recordID, "delete_record"); err != nil {
			return err
		}

		leqIDs := tx.Model(&Leq{}).Select("id").Where("record_id = ?", recordID)
		if err := tx.Where("leq_id IN (?)", leqIDs).Delete(&LeqValue{}).Error; err != nil {
			return dbError(err, "delete_record", "", "record_id", recordID)
		}
		if err := tx.Where("record_id = ?", recordID).Delete(&Leq{}).Error; err != nil {
			return dbError(err, "delete_record", "", "record_id", recordID)
		}
		if err := tx.Where("record_id = ?", recordID).Delete(&RecordTag{}).Error; err != nil {
			return dbError(err, "delete_record", "", "record_id", recordID)
		}
		if err := tx.Delete(&Record{}, recordID).Error; err != nil {
			return dbError(err, "delete_record", "", "record_id", recordID)
		}
		return nil
	})

	ds.recordTx("delete_record", start, err)
	if err != nil {
		ds.recordOp("delete", "error")
		return err
	}

	ds.recordOp("delete", "success")
	return nil
}

// requireRecord verifies a record exists, returning a NotFound error otherwise.
func requireRecord(tx *gorm.DB, recordID uint, operation string) error {
	var count int64
	if err := tx.Model(&Record{}).Where("id = ?", recordID).Count(&count).Error; err != nil {
		return dbError(err, operation, "")
	}
	if count == 0 {
		return notFoundError("record", recordID)
	}
	return nil
}

// recordOp records a record-level operation metric when metrics are enabled.
func (ds *DataStore) recordOp(operation, status string) {
	if ds.metrics != nil {
		ds.metrics.RecordRecordOperation(operation, status)
	}
}

// recordTx records transaction outcome metrics when metrics are enabled.
func (ds *DataStore) recordTx(operation string, start time.Time, err error) {
	if ds.metrics == nil {
		return
	}
	ds.metrics.RecordTransactionDuration(operation, time.Since(start).Seconds())
	if err != nil {
		ds.metrics.RecordTransaction("rolled_back")
		ds.metrics.RecordTransactionError(operation, categorizeError(err))
	} else {
		ds.metrics.RecordTransaction("committed")
	}
}

// sortAscendingString returns "ASC" or "DESC" based on the boolean input.
func sortAscendingString(asc bool) string {
	if asc {
		return "ASC"
	}
	return "DESC"
}
