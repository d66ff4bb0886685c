// Package export renders bounded close-approach result streams to their
// external CSV and JSON representations.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/neo-approach-service/internal/domain"
)

// csvHeader is the exact column contract, in order.
var csvHeader = []string{
	"datetime_utc", "distance_au", "velocity_km_s",
	"designation", "name", "diameter_km", "potentially_hazardous",
}

// NEORecord is the nested NEO portion of a serialized approach. DiameterKm is
// nil when the diameter is unknown, since NaN has no JSON representation.
type NEORecord struct {
	Designation          string   `json:"designation"`
	Name                 string   `json:"name"`
	DiameterKm           *float64 `json:"diameter_km"`
	PotentiallyHazardous bool     `json:"potentially_hazardous"`
}

// Record is the external representation of one close approach. It is shared
// by the JSON file export, the query API, and the Kafka publisher.
type Record struct {
	DatetimeUTC string    `json:"datetime_utc"`
	DistanceAU  float64   `json:"distance_au"`
	VelocityKmS float64   `json:"velocity_km_s"`
	NEO         NEORecord `json:"neo"`
}

// NewRecord builds the external representation of a linked close approach.
// An absent name stays the empty string, never placeholder text.
func NewRecord(ca *domain.CloseApproach) Record {
	rec := Record{
		DatetimeUTC: domain.FormatApproachTime(ca.Time),
		DistanceAU:  ca.Distance,
		VelocityKmS: ca.Velocity,
		NEO: NEORecord{
			Designation: ca.Designation,
		},
	}
	if ca.NEO != nil {
		rec.NEO.Designation = ca.NEO.Designation
		rec.NEO.Name = ca.NEO.Name
		rec.NEO.PotentiallyHazardous = ca.NEO.Hazardous
		if ca.NEO.HasDiameter() {
			d := ca.NEO.Diameter
			rec.NEO.DiameterKm = &d
		}
	}
	return rec
}

// WriteCSV renders results as CSV: a fixed seven-column header followed by
// one row per approach.
func WriteCSV(w io.Writer, results iter.Seq[*domain.CloseApproach]) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for ca := range results {
		row := []string{
			domain.FormatApproachTime(ca.Time),
			formatFloat(ca.Distance),
			formatFloat(ca.Velocity),
		}
		if ca.NEO != nil {
			row = append(row,
				ca.NEO.Designation,
				ca.NEO.Name,
				formatDiameter(ca.NEO.Diameter),
				strconv.FormatBool(ca.NEO.Hazardous),
			)
		} else {
			row = append(row, ca.Designation, "", formatDiameter(math.NaN()), "false")
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON renders results as a JSON array of Records.
func WriteJSON(w io.Writer, results iter.Seq[*domain.CloseApproach]) error {
	records := make([]Record, 0)
	for ca := range results {
		records = append(records, NewRecord(ca))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteFile writes results to path, choosing the serializer by extension
// (.csv or .json). An unsupported extension or an unwritable path is a write
// failure surfaced to the caller.
func WriteFile(path string, results iter.Seq[*domain.CloseApproach]) error {
	var write func(io.Writer, iter.Seq[*domain.CloseApproach]) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = WriteCSV
	case ".json":
		write = WriteJSON
	default:
		return fmt.Errorf("unsupported output extension %q (want .csv or .json)", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := write(f, results); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

// formatFloat renders a measured value with the shortest exact decimal form.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatDiameter renders a diameter, keeping "NaN" for unknown values so the
// CSV round-trips the unknown sentinel.
func formatDiameter(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
