// Package export renders a record's located measurements as GeoJSON, the
// interchange format used to publish noise measurement traces.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/noise-planet/noisecapture-go/internal/errors"
	"github.com/noise-planet/noisecapture-go/internal/measurement"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RecordTrace builds a FeatureCollection with one point feature per Leq that
// carries a GPS position. Epochs without a fix are skipped, they have no
// place on a map.
func RecordTrace(m *measurement.Manager, recordID uint) (*geojson.FeatureCollection, error) {
	record, err := m.GetRecord(recordID, true)
	if err != nil {
		return nil, err
	}

	batches, err := m.GetRecordMeasurements(recordID, true)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for i := range batches {
		leq := &batches[i].Leq
		if leq.Latitude == nil || leq.Longitude == nil {
			continue
		}

		feature := geojson.NewFeature(orb.Point{*leq.Longitude, *leq.Latitude})
		feature.Properties["leq"] = leq.Level
		feature.Properties["timestamp"] = leq.Timestamp.UTC().Format(time.RFC3339)
		feature.Properties["elapsed_ms"] = leq.Elapsed.Milliseconds()
		if leq.Altitude != nil {
			feature.Properties["altitude"] = *leq.Altitude
		}
		if leq.Accuracy != nil {
			feature.Properties["accuracy"] = *leq.Accuracy
		}
		for _, value := range batches[i].Values {
			feature.Properties[fmt.Sprintf("leq_%d", value.BandID)] = value.Value
		}
		fc.Append(feature)
	}

	tagLabels, err := m.GetTags(recordID)
	if err != nil {
		return nil, err
	}

	fc.ExtraMembers = map[string]any{
		"record_id":   record.ID,
		"record_utc":  record.UTC.UTC().Format(time.RFC3339),
		"leq_mean":    record.LeqMean,
		"duration_ms": record.Duration.Milliseconds(),
		"description": record.Description,
		"tags":        tagLabels,
	}

	return fc, nil
}

// WriteRecordTrace writes the GeoJSON trace of a record to w.
func WriteRecordTrace(m *measurement.Manager, recordID uint, w io.Writer) error {
	fc, err := RecordTrace(m, recordID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fc); err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryExport).
			Context("record_id", recordID).
			Build()
	}
	return nil
}
