// model.go this code defines the data model for the measurement store
package datastore

import "time"

// Record represents one acoustic measurement session
type Record struct {
	ID              uint      `gorm:"primaryKey"`
	UTC             time.Time `gorm:"index:idx_records_utc"` // session start, UTC
	Duration        time.Duration
	LeqMean         float64 // overall equivalent level for the session, dB(A)
	Description     string  `gorm:"type:text"`
	Pleasantness    int     // user rating, -1 when not rated
	PhotoURI        string  // opaque URI supplied by the host, stored verbatim
	UploadID        string  // non-empty once the record has been uploaded
	CalibrationGain float64
	Finalized       bool

	Leqs []Leq       `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE"` // One-to-many relationship with cascade delete
	Tags []RecordTag `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE"` // One-to-many relationship with cascade delete
}

// Leq represents one time-epoch summary within a record.
// GPS fields are pointers because position may be unknown for any epoch.
type Leq struct {
	ID        uint      `gorm:"primaryKey"`
	RecordID  uint      `gorm:"index:idx_leqs_record_time;not null"` // Foreign key to associate with Record
	Timestamp time.Time `gorm:"index:idx_leqs_record_time"`
	Elapsed   time.Duration
	Latitude  *float64
	Longitude *float64
	Altitude  *float64
	Speed     *float64
	Bearing   *float64
	Accuracy  *float64
	Level     float64 `gorm:"column:leq_value"` // LAeq for the epoch, dB(A)

	Values []LeqValue `gorm:"foreignKey:LeqID;constraint:OnDelete:CASCADE"` // One-to-many relationship with cascade delete
}

// LeqValue represents one frequency band level belonging to a Leq.
// The composite key (leq_id, band_id) makes a band unique per epoch.
type LeqValue struct {
	LeqID  uint `gorm:"primaryKey;autoIncrement:false;not null"` // Foreign key to associate with Leq
	BandID int  `gorm:"primaryKey;autoIncrement:false"`          // band center frequency in Hz
	Value  float64
}

// RecordTag links a record to one entry of the fixed tag vocabulary.
// Position preserves the order in which the user selected the tags.
type RecordTag struct {
	RecordID   uint `gorm:"primaryKey;autoIncrement:false;not null"` // Foreign key to associate with Record
	TagOrdinal int  `gorm:"primaryKey;autoIncrement:false"`
	Position   int  `gorm:"not null"`
}

// LeqBatch pairs one Leq summary with its band values, the unit the
// producer appends and readers page through.
type LeqBatch struct {
	Leq    Leq
	Values []LeqValue
}
