// Package filters builds predicate filters over close approaches and bounds
// lazy result streams.
//
// Each Filter is one criterion: an attribute of a close approach (or of its
// linked NEO) compared against a reference value. The query engine combines
// filters with logical AND. Criteria the caller leaves unset produce no filter
// at all rather than an always-true one.
package filters

import (
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/neo-approach-service/internal/domain"
)

// ErrUnsupportedCriterion reports a filter constructed with a criterion kind
// it does not support. This is a programming error, surfaced at construction
// so that matching itself never fails.
var ErrUnsupportedCriterion = errors.New("unsupported filter criterion")

// Kind identifies the attribute and comparison a filter performs.
type Kind int

const (
	// Date kinds compare the calendar date of the approach time, ignoring
	// time of day.
	KindDate      Kind = iota // equality
	KindStartDate             // on or after
	KindEndDate               // on or before

	// Range kinds compare a numeric attribute against a bound.
	KindDistanceMin
	KindDistanceMax
	KindVelocityMin
	KindVelocityMax
	KindDiameterMin // linked NEO's diameter
	KindDiameterMax

	// KindHazardous compares the linked NEO's hazard flag for equality.
	KindHazardous
)

var kindNames = map[Kind]string{
	KindDate:        "date",
	KindStartDate:   "start_date",
	KindEndDate:     "end_date",
	KindDistanceMin: "distance_min",
	KindDistanceMax: "distance_max",
	KindVelocityMin: "velocity_min",
	KindVelocityMax: "velocity_max",
	KindDiameterMin: "diameter_min",
	KindDiameterMax: "diameter_max",
	KindHazardous:   "hazardous",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Filter is one comparison criterion against a close approach. The zero value
// is not usable; construct filters with NewDateFilter, NewRangeFilter,
// NewHazardousFilter, or Create.
type Filter struct {
	kind  Kind
	date  time.Time
	bound float64
	flag  bool
}

// NewDateFilter builds a calendar-date filter. kind must be KindDate,
// KindStartDate, or KindEndDate.
func NewDateFilter(kind Kind, date time.Time) (Filter, error) {
	switch kind {
	case KindDate, KindStartDate, KindEndDate:
		return Filter{kind: kind, date: domain.DateOnly(date)}, nil
	default:
		return Filter{}, fmt.Errorf("%w: %s is not a date criterion", ErrUnsupportedCriterion, kind)
	}
}

// NewRangeFilter builds a numeric bound filter. kind must be one of the
// distance, velocity, or diameter min/max kinds.
func NewRangeFilter(kind Kind, bound float64) (Filter, error) {
	switch kind {
	case KindDistanceMin, KindDistanceMax, KindVelocityMin, KindVelocityMax, KindDiameterMin, KindDiameterMax:
		return Filter{kind: kind, bound: bound}, nil
	default:
		return Filter{}, fmt.Errorf("%w: %s is not a range criterion", ErrUnsupportedCriterion, kind)
	}
}

// NewHazardousFilter builds an equality filter on the linked NEO's hazard
// flag. hazardous=false is a real restriction, distinct from no filter.
func NewHazardousFilter(hazardous bool) Filter {
	return Filter{kind: KindHazardous, flag: hazardous}
}

func (f Filter) String() string {
	switch f.kind {
	case KindDate, KindStartDate, KindEndDate:
		return fmt.Sprintf("Filter(%s=%s)", f.kind, f.date.Format(time.DateOnly))
	case KindHazardous:
		return fmt.Sprintf("Filter(%s=%t)", f.kind, f.flag)
	default:
		return fmt.Sprintf("Filter(%s=%g)", f.kind, f.bound)
	}
}

// Matches reports whether a close approach satisfies this criterion.
// Diameter bounds over an unknown (NaN) diameter never match, so range
// queries exclude objects whose size is unmeasured.
func (f Filter) Matches(ca *domain.CloseApproach) bool {
	switch f.kind {
	case KindDate:
		return domain.SameDate(ca.Time, f.date)
	case KindStartDate:
		return !domain.DateOnly(ca.Time).Before(f.date)
	case KindEndDate:
		return !domain.DateOnly(ca.Time).After(f.date)
	case KindDistanceMin:
		return ca.Distance >= f.bound
	case KindDistanceMax:
		return ca.Distance <= f.bound
	case KindVelocityMin:
		return ca.Velocity >= f.bound
	case KindVelocityMax:
		return ca.Velocity <= f.bound
	case KindDiameterMin:
		return ca.NEO != nil && ca.NEO.Diameter >= f.bound
	case KindDiameterMax:
		return ca.NEO != nil && ca.NEO.Diameter <= f.bound
	case KindHazardous:
		return ca.NEO != nil && ca.NEO.Hazardous == f.flag
	default:
		// Unreachable: constructors reject unknown kinds.
		return false
	}
}

// MatchesAll reports whether a close approach satisfies every filter.
// An empty filter set matches everything.
func MatchesAll(fs []Filter, ca *domain.CloseApproach) bool {
	for _, f := range fs {
		if !f.Matches(ca) {
			return false
		}
	}
	return true
}

// Criteria is the full set of user-specifiable query options. Nil fields mean
// "no constraint", never zero or false. In particular Hazardous=false filters
// to non-hazardous objects, while a nil Hazardous does not filter at all.
type Criteria struct {
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time

	DistanceMin *float64
	DistanceMax *float64
	VelocityMin *float64
	VelocityMax *float64
	DiameterMin *float64
	DiameterMax *float64

	Hazardous *bool
}

// Create builds the filter set for the given criteria. It is a pure function:
// unset criteria contribute nothing, and self-contradictory bounds (for
// example DistanceMin > DistanceMax) build normally but match no approaches.
func Create(c Criteria) []Filter {
	var fs []Filter

	addDate := func(kind Kind, date *time.Time) {
		if date == nil {
			return
		}
		f, _ := NewDateFilter(kind, *date)
		fs = append(fs, f)
	}
	addRange := func(kind Kind, bound *float64) {
		if bound == nil {
			return
		}
		f, _ := NewRangeFilter(kind, *bound)
		fs = append(fs, f)
	}

	addDate(KindDate, c.Date)
	addDate(KindStartDate, c.StartDate)
	addDate(KindEndDate, c.EndDate)
	addRange(KindDistanceMin, c.DistanceMin)
	addRange(KindDistanceMax, c.DistanceMax)
	addRange(KindVelocityMin, c.VelocityMin)
	addRange(KindVelocityMax, c.VelocityMax)
	addRange(KindDiameterMin, c.DiameterMin)
	addRange(KindDiameterMax, c.DiameterMax)

	if c.Hazardous != nil {
		fs = append(fs, NewHazardousFilter(*c.Hazardous))
	}

	return fs
}
