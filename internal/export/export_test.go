package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/neo-approach-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkedApproaches() []*domain.CloseApproach {
	eros := &domain.NearEarthObject{Designation: "433", Name: "Eros", Diameter: 16.84, Hazardous: false}
	cerberus := &domain.NearEarthObject{Designation: "1865", Name: "Cerberus", Diameter: 1.2, Hazardous: true}
	unnamed := &domain.NearEarthObject{Designation: "2020 AB", Diameter: math.NaN(), Hazardous: false}

	mk := func(neo *domain.NearEarthObject, ts string, dist, vel float64) *domain.CloseApproach {
		return &domain.CloseApproach{
			Designation: neo.Designation,
			Time:        domain.ParseApproachTime(ts),
			Distance:    dist,
			Velocity:    vel,
			NEO:         neo,
		}
	}

	return []*domain.CloseApproach{
		mk(eros, "2020-Mar-02 01:00", 0.05, 10.1),
		mk(cerberus, "2020-Mar-02 13:30", 0.2, 25.3),
		mk(eros, "2020-Jun-01 09:15", 0.35, 15),
		mk(unnamed, "2021-Jan-15 22:45", 0.5, 40.2),
		mk(cerberus, "2021-Feb-01 05:00", 0.1, 30),
	}
}

func TestWriteCSV(t *testing.T) {
	approaches := linkedApproaches()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, slices.Values(approaches)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6, "header plus five data rows")

	t.Run("exact header", func(t *testing.T) {
		assert.Equal(t, []string{
			"datetime_utc", "distance_au", "velocity_km_s",
			"designation", "name", "diameter_km", "potentially_hazardous",
		}, rows[0])
	})

	t.Run("first data row", func(t *testing.T) {
		assert.Equal(t, []string{"2020-03-02 01:00", "0.05", "10.1", "433", "Eros", "16.84", "false"}, rows[1])
	})

	t.Run("hazardous row", func(t *testing.T) {
		assert.Equal(t, "true", rows[2][6])
	})

	t.Run("unnamed neo serializes an empty name", func(t *testing.T) {
		assert.Equal(t, "2020 AB", rows[4][3])
		assert.Equal(t, "", rows[4][4])
		assert.Equal(t, "NaN", rows[4][5])
	})
}

func TestWriteJSON(t *testing.T) {
	approaches := linkedApproaches()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, slices.Values(approaches)))

	var records []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 5)

	t.Run("neo designation matches the linked object", func(t *testing.T) {
		for i, rec := range records {
			assert.Equal(t, approaches[i].NEO.Designation, rec.NEO.Designation)
		}
	})

	t.Run("field contract", func(t *testing.T) {
		first := records[0]
		assert.Equal(t, "2020-03-02 01:00", first.DatetimeUTC)
		assert.Equal(t, 0.05, first.DistanceAU)
		assert.Equal(t, 10.1, first.VelocityKmS)
		assert.Equal(t, "Eros", first.NEO.Name)
		require.NotNil(t, first.NEO.DiameterKm)
		assert.Equal(t, 16.84, *first.NEO.DiameterKm)
		assert.False(t, first.NEO.PotentiallyHazardous)
	})

	t.Run("unknown diameter is null, absent name is empty", func(t *testing.T) {
		unnamed := records[3]
		assert.Nil(t, unnamed.NEO.DiameterKm)
		assert.Empty(t, unnamed.NEO.Name)
		assert.NotContains(t, buf.String(), "no name")
	})

	t.Run("raw keys", func(t *testing.T) {
		for _, key := range []string{"datetime_utc", "distance_au", "velocity_km_s", "neo",
			"designation", "name", "diameter_km", "potentially_hazardous"} {
			assert.Contains(t, buf.String(), `"`+key+`"`)
		}
	})

	t.Run("empty stream is an empty array", func(t *testing.T) {
		var empty bytes.Buffer
		require.NoError(t, WriteJSON(&empty, slices.Values([]*domain.CloseApproach{})))
		assert.Equal(t, "[]", strings.TrimSpace(empty.String()))
	})
}

func TestNewRecord_UnlinkedApproach(t *testing.T) {
	ca := &domain.CloseApproach{
		Designation: "433",
		Time:        time.Date(2020, time.March, 2, 1, 0, 0, 0, time.UTC),
	}

	rec := NewRecord(ca)
	assert.Equal(t, "433", rec.NEO.Designation, "falls back to the designation key")
	assert.Nil(t, rec.NEO.DiameterKm)
}

func TestWriteFile(t *testing.T) {
	approaches := linkedApproaches()

	t.Run("csv extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		require.NoError(t, WriteFile(path, slices.Values(approaches)))
		assert.FileExists(t, path)
	})

	t.Run("json extension, case-insensitive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.JSON")
		require.NoError(t, WriteFile(path, slices.Values(approaches)))
		assert.FileExists(t, path)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		err := WriteFile(filepath.Join(t.TempDir(), "out.xml"), slices.Values(approaches))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported output extension")
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := WriteFile(filepath.Join(t.TempDir(), "missing", "dir", "out.csv"), slices.Values(approaches))
		require.Error(t, err)
	})
}
