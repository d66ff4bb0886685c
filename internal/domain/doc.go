// Package domain models NASA near-Earth object (NEO) data and close approaches.
//
// # Data Sources
//
// NEO records come from NASA/JPL's Small-Body Database (SBDB), distributed as
// CSV (one row per object). Close-approach records come from the CNEOS close
// approach database (cad.api), distributed as a columnar JSON document with a
// "fields" header array and a "data" array of rows.
//
// # Field Conventions
//
// Primary designation ("pdes" / "des"):
//
//	Required, unique identifier for an NEO, e.g. "433" or "2020 AB".
//	Distinct from the optional IAU name ("name" column, e.g. "Eros").
//	Most NEOs are unnamed; an empty name means the object has no name,
//	never that its name is the empty string.
//
// Diameter ("diameter" column, kilometers):
//
//	Frequently missing or unparsable. Unknown diameters are represented as
//	NaN so they propagate through comparisons as "unknown" instead of
//	masquerading as zero. Close-approach distance and velocity differ:
//	every recorded approach was measured, so those default to 0 on bad input.
//
// Hazard flag ("pha" column):
//
//	"Y" marks a potentially hazardous asteroid; anything else (including
//	blank and "N") is non-hazardous.
//
// Close-approach time ("cd" column):
//
//	Calendar date/time with minute resolution using English month
//	abbreviations, e.g. "2020-Dec-31 12:00". Parsed with [ApproachTimeLayout];
//	unparsable values coerce to the zero time.
package domain
