package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RawNEORecord is one row of the SBDB CSV export, before coercion.
// All values arrive as strings; missing columns are empty strings.
type RawNEORecord struct {
	Designation string // "pdes" column, required
	Name        string // "name" column, optional
	Diameter    string // "diameter" column, kilometers, often empty
	Hazardous   string // "pha" column, "Y"/"N"/empty
}

// RawApproachRecord is one row of the CNEOS close-approach JSON, before coercion.
type RawApproachRecord struct {
	Designation string // "des" column, required, matches an NEO's designation
	Time        string // "cd" column, "YYYY-Mon-DD HH:MM"
	Distance    string // "dist" column, astronomical units
	Velocity    string // "v_rel" column, km/s
}

// NearEarthObject is a single near-Earth object. Designation is immutable
// after construction; Approaches is populated exactly once by the database
// linker and holds this object's close approaches in input order.
type NearEarthObject struct {
	Designation string
	Name        string  // "" when the object has no IAU name
	Diameter    float64 // kilometers; NaN when unknown
	Hazardous   bool
	Approaches  []*CloseApproach
}

// CloseApproach is a single recorded close approach of an NEO to Earth.
// NEO is nil until the database linker resolves the designation key.
type CloseApproach struct {
	Designation string // foreign key to NearEarthObject.Designation
	Time        time.Time
	Distance    float64 // astronomical units
	Velocity    float64 // km/s
	NEO         *NearEarthObject
}

// NewNEO coerces a raw SBDB record into a NearEarthObject.
// A missing designation is fatal; every other field recovers to its
// documented default (empty name, NaN diameter, non-hazardous).
func NewNEO(rec RawNEORecord) (*NearEarthObject, error) {
	designation := strings.TrimSpace(rec.Designation)
	if designation == "" {
		return nil, fmt.Errorf("neo record missing primary designation")
	}

	return &NearEarthObject{
		Designation: designation,
		Name:        strings.TrimSpace(rec.Name),
		Diameter:    parseDiameter(rec.Diameter),
		Hazardous:   strings.TrimSpace(rec.Hazardous) == "Y",
	}, nil
}

// NewCloseApproach coerces a raw CNEOS record into a CloseApproach.
// A missing designation key is fatal; distance and velocity default to 0 and
// an unparsable timestamp coerces to the zero time.
func NewCloseApproach(rec RawApproachRecord) (*CloseApproach, error) {
	designation := strings.TrimSpace(rec.Designation)
	if designation == "" {
		return nil, fmt.Errorf("close approach record missing designation key")
	}

	return &CloseApproach{
		Designation: designation,
		Time:        ParseApproachTime(rec.Time),
		Distance:    parseFloatOrZero(rec.Distance),
		Velocity:    parseFloatOrZero(rec.Velocity),
	}, nil
}

// HasName reports whether the object has an IAU name.
func (n *NearEarthObject) HasName() bool {
	return n.Name != ""
}

// HasDiameter reports whether the object's diameter is known.
func (n *NearEarthObject) HasDiameter() bool {
	return !math.IsNaN(n.Diameter)
}

// Fullname renders the designation with the IAU name when one exists,
// e.g. "433 (Eros)".
func (n *NearEarthObject) Fullname() string {
	if n.HasName() {
		return fmt.Sprintf("%s (%s)", n.Designation, n.Name)
	}
	return n.Designation
}

func (n *NearEarthObject) String() string {
	diameter := "an unknown diameter"
	if n.HasDiameter() {
		diameter = fmt.Sprintf("a diameter of %.3f km", n.Diameter)
	}
	hazard := "is not potentially hazardous"
	if n.Hazardous {
		hazard = "is potentially hazardous"
	}
	return fmt.Sprintf("NEO %s has %s and %s.", n.Fullname(), diameter, hazard)
}

// Fullname renders the linked NEO's fullname, falling back to the raw
// designation key before linking.
func (c *CloseApproach) Fullname() string {
	if c.NEO != nil {
		return c.NEO.Fullname()
	}
	return c.Designation
}

func (c *CloseApproach) String() string {
	return fmt.Sprintf("At %s, %s approaches Earth at a distance of %.2f au and a velocity of %.2f km/s.",
		FormatApproachTime(c.Time), c.Fullname(), c.Distance, c.Velocity)
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseDiameter parses a diameter in kilometers, returning NaN for empty or
// unparsable values so unknown sizes never compare equal to a real one.
func parseDiameter(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
