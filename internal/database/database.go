// Package database links near-Earth objects to their close approaches and
// answers filtered queries over the joined data set.
package database

import (
	"fmt"
	"iter"
	"strings"

	"github.com/couchcryptid/neo-approach-service/internal/domain"
	"github.com/couchcryptid/neo-approach-service/internal/filters"
)

// Database holds an interconnected set of NEOs and close approaches.
//
// Construction performs the one and only mutation: a single linking pass that
// resolves each approach's designation key to its NEO, sets the back-reference,
// and appends the approach to that NEO's collection in input order. After New
// returns, the data set is immutable and Query is safe for concurrent readers.
type Database struct {
	neos       []*domain.NearEarthObject
	approaches []*domain.CloseApproach

	// byDesignation keys a normalized copy of each designation; the stored
	// entities keep their original spelling. One entry per NEO.
	byDesignation map[string]*domain.NearEarthObject

	// byName holds only named NEOs. Names are not unique in the source data;
	// the index keeps the first NEO encountered in input order, so GetByName
	// returns that single representative for a duplicated name.
	byName map[string]*domain.NearEarthObject
}

// New links the given NEOs and close approaches into a Database.
//
// Preconditions: no approach is linked yet (nil NEO reference, empty approach
// collections) and every approach's designation key matches exactly one NEO.
// A duplicate designation or an approach referencing an unknown NEO is a load
// failure; records are never silently dropped or mis-linked.
func New(neos []*domain.NearEarthObject, approaches []*domain.CloseApproach) (*Database, error) {
	db := &Database{
		neos:          neos,
		approaches:    approaches,
		byDesignation: make(map[string]*domain.NearEarthObject, len(neos)),
		byName:        make(map[string]*domain.NearEarthObject),
	}

	for _, neo := range neos {
		key := normalize(neo.Designation)
		if key == "" {
			return nil, fmt.Errorf("neo has empty designation")
		}
		if _, exists := db.byDesignation[key]; exists {
			return nil, fmt.Errorf("duplicate neo designation %q", neo.Designation)
		}
		db.byDesignation[key] = neo

		if neo.HasName() {
			name := normalize(neo.Name)
			if _, exists := db.byName[name]; !exists {
				db.byName[name] = neo
			}
		}
	}

	for _, ca := range approaches {
		neo, ok := db.byDesignation[normalize(ca.Designation)]
		if !ok {
			return nil, fmt.Errorf("close approach at %s references unknown neo %q",
				domain.FormatApproachTime(ca.Time), ca.Designation)
		}
		ca.NEO = neo
		neo.Approaches = append(neo.Approaches, ca)
	}

	return db, nil
}

// GetByDesignation returns the NEO with the given primary designation, or nil
// when there is no match. Matching trims whitespace and ignores case.
func (db *Database) GetByDesignation(designation string) *domain.NearEarthObject {
	key := normalize(designation)
	if key == "" {
		return nil
	}
	return db.byDesignation[key]
}

// GetByName returns an NEO with the given IAU name, or nil when there is no
// match. Matching trims whitespace and ignores case. No NEO is indexed under
// an empty name, so empty input never matches. When several NEOs share a name
// the first one in input order is returned.
func (db *Database) GetByName(name string) *domain.NearEarthObject {
	key := normalize(name)
	if key == "" {
		return nil
	}
	return db.byName[key]
}

// NEOs returns the full object collection in input order.
func (db *Database) NEOs() []*domain.NearEarthObject {
	return db.neos
}

// ApproachCount returns the number of close approaches in the data set.
func (db *Database) ApproachCount() int {
	return len(db.approaches)
}

// NEOCount returns the number of NEOs in the data set.
func (db *Database) NEOCount() int {
	return len(db.neos)
}

// Query lazily produces every close approach matching all of the given
// filters, in internal storage order (not guaranteed time-sorted). An empty
// filter set yields the whole collection.
//
// Results are produced on demand; nothing is materialized. Ranging over the
// sequence again restarts the scan from the beginning.
func (db *Database) Query(fs []filters.Filter) iter.Seq[*domain.CloseApproach] {
	return func(yield func(*domain.CloseApproach) bool) {
		for _, ca := range db.approaches {
			if !filters.MatchesAll(fs, ca) {
				continue
			}
			if !yield(ca) {
				return
			}
		}
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
