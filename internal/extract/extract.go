// Package extract loads NEO and close-approach data sets from their native
// file formats into domain records.
package extract

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/couchcryptid/neo-approach-service/internal/domain"
)

// CSV columns consumed from the SBDB export. The file carries many more;
// unknown columns are ignored.
const (
	colDesignation = "pdes"
	colName        = "name"
	colDiameter    = "diameter"
	colHazardous   = "pha"
)

// JSON fields consumed from the CNEOS close-approach document.
const (
	fieldDesignation = "des"
	fieldTime        = "cd"
	fieldDistance    = "dist"
	fieldVelocity    = "v_rel"
)

// LoadNEOs reads near-Earth objects from an SBDB CSV export.
// The header row is required and must contain the "pdes" column; rows with a
// missing designation fail the load.
func LoadNEOs(path string) ([]*domain.NearEarthObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open neo file: %w", err)
	}
	defer f.Close()

	neos, err := readNEOs(f)
	if err != nil {
		return nil, fmt.Errorf("load neos from %s: %w", path, err)
	}
	return neos, nil
}

func readNEOs(r io.Reader) ([]*domain.NearEarthObject, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // some SBDB exports pad trailing columns unevenly

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	if _, ok := cols[colDesignation]; !ok {
		return nil, fmt.Errorf("header is missing required column %q", colDesignation)
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var neos []*domain.NearEarthObject
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		neo, err := domain.NewNEO(domain.RawNEORecord{
			Designation: field(row, colDesignation),
			Name:        field(row, colName),
			Diameter:    field(row, colDiameter),
			Hazardous:   field(row, colHazardous),
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		neos = append(neos, neo)
	}

	return neos, nil
}

// cadDocument is the columnar CNEOS payload: a "fields" header naming each
// column and row arrays in "data". Values arrive as strings or numbers
// depending on the API version, so rows decode as any.
type cadDocument struct {
	Fields []string `json:"fields"`
	Data   [][]any  `json:"data"`
}

// LoadApproaches reads close approaches from a CNEOS close-approach JSON
// document. The "fields" header must name the des, cd, dist, and v_rel
// columns; a row with a missing designation key fails the load.
func LoadApproaches(path string) ([]*domain.CloseApproach, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open approach file: %w", err)
	}
	defer f.Close()

	approaches, err := readApproaches(f)
	if err != nil {
		return nil, fmt.Errorf("load approaches from %s: %w", path, err)
	}
	return approaches, nil
}

func readApproaches(r io.Reader) ([]*domain.CloseApproach, error) {
	var doc cadDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	cols := make(map[string]int, len(doc.Fields))
	for i, name := range doc.Fields {
		cols[name] = i
	}
	for _, required := range []string{fieldDesignation, fieldTime, fieldDistance, fieldVelocity} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("fields header is missing %q", required)
		}
	}

	cell := func(row []any, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return stringify(row[i])
	}

	approaches := make([]*domain.CloseApproach, 0, len(doc.Data))
	for i, row := range doc.Data {
		ca, err := domain.NewCloseApproach(domain.RawApproachRecord{
			Designation: cell(row, fieldDesignation),
			Time:        cell(row, fieldTime),
			Distance:    cell(row, fieldDistance),
			Velocity:    cell(row, fieldVelocity),
		})
		if err != nil {
			return nil, fmt.Errorf("data row %d: %w", i, err)
		}
		approaches = append(approaches, ca)
	}

	return approaches, nil
}

// stringify renders a decoded JSON cell for the record coercers, which expect
// string inputs. nil cells become empty strings.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
