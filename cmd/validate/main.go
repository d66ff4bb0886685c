// Command validate performs integrity checks across a NEO/close-approach
// data file pair: object uniqueness, field sanity, and referential
// consistency between the two files.
//
// Usage:
//
//	go run ./cmd/validate -neo-file data/neos.csv -cad-file data/cad.json
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/neo-approach-service/internal/database"
	"github.com/couchcryptid/neo-approach-service/internal/domain"
	"github.com/couchcryptid/neo-approach-service/internal/extract"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	neoFile := flag.String("neo-file", "", "path to the NEO CSV data file")
	cadFile := flag.String("cad-file", "", "path to the close-approach JSON data file")
	flag.Parse()

	if *neoFile == "" || *cadFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*neoFile, *cadFile); code != 0 {
		os.Exit(code)
	}
}

func run(neoFile, cadFile string) int {
	fmt.Println("=== NEO Data Set Integrity Validation ===")
	fmt.Println()

	neos, err := extract.LoadNEOs(neoFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load neos: %v\n", err)
		return 1
	}
	approaches, err := extract.LoadApproaches(cadFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load close approaches: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateNEOs(neos),
		validateApproaches(approaches),
		validateLinkage(neos, approaches),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d NEOs, %d close approaches\n", len(neos), len(approaches))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: NEO integrity ──

func validateNEOs(neos []*domain.NearEarthObject) *phase {
	p := &phase{name: "Phase 1: NEO Integrity"}

	seen := make(map[string]int, len(neos))
	for i, neo := range neos {
		if strings.TrimSpace(neo.Designation) == "" {
			p.errorf("neo %d: empty primary designation", i)
			continue
		}
		key := strings.ToLower(strings.TrimSpace(neo.Designation))
		if prev, dup := seen[key]; dup {
			p.errorf("neo %d: designation %q duplicates neo %d", i, neo.Designation, prev)
		}
		seen[key] = i

		if neo.HasName() && strings.TrimSpace(neo.Name) == "" {
			p.errorf("neo %d (%s): name is whitespace", i, neo.Designation)
		}
		if neo.HasDiameter() && neo.Diameter <= 0 {
			p.errorf("neo %d (%s): non-positive diameter %g", i, neo.Designation, neo.Diameter)
		}
	}
	return p
}

// ── Phase 2: Close-approach integrity ──

func validateApproaches(approaches []*domain.CloseApproach) *phase {
	p := &phase{name: "Phase 2: Close-Approach Integrity"}

	zeroTimes := 0
	for i, ca := range approaches {
		if strings.TrimSpace(ca.Designation) == "" {
			p.errorf("approach %d: empty designation key", i)
		}
		if ca.Time.IsZero() {
			zeroTimes++
		}
		if ca.Distance < 0 {
			p.errorf("approach %d (%s): negative distance %g", i, ca.Designation, ca.Distance)
		}
		if ca.Velocity < 0 {
			p.errorf("approach %d (%s): negative velocity %g", i, ca.Designation, ca.Velocity)
		}
		if ca.NEO != nil {
			p.errorf("approach %d (%s): already linked before load", i, ca.Designation)
		}
	}
	if zeroTimes > 0 {
		fmt.Printf("  Note: %d approach(es) have unparsable timestamps (coerced to zero time)\n", zeroTimes)
	}
	return p
}

// ── Phase 3: Referential integrity ──

func validateLinkage(neos []*domain.NearEarthObject, approaches []*domain.CloseApproach) *phase {
	p := &phase{name: "Phase 3: Referential Integrity"}

	db, err := database.New(neos, approaches)
	if err != nil {
		p.errorf("link failed: %v", err)
		return p
	}

	linked := 0
	for _, neo := range db.NEOs() {
		for _, ca := range neo.Approaches {
			if ca.NEO != neo {
				p.errorf("neo %s: approach at %s back-references a different neo",
					neo.Designation, domain.FormatApproachTime(ca.Time))
			}
			linked++
		}
	}
	if linked != len(approaches) {
		p.errorf("linked %d approaches through neo collections, expected %d", linked, len(approaches))
	}

	for i, ca := range approaches {
		if ca.NEO == nil {
			p.errorf("approach %d (%s): nil neo reference after linking", i, ca.Designation)
		}
	}
	return p
}
