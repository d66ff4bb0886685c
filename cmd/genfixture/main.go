// Command genfixture derives small test fixtures from the full NASA data
// sets. It picks a handful of NEOs that actually make close approaches and
// writes a loader-compatible CSV/JSON pair containing just those objects.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  -neo-in data/neos.csv -cad-in data/cad.json \
//	  -neo-out internal/extract/testdata/neos.csv \
//	  -cad-out internal/extract/testdata/cad.json \
//	  -max-neos 5
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/couchcryptid/neo-approach-service/internal/database"
	"github.com/couchcryptid/neo-approach-service/internal/domain"
	"github.com/couchcryptid/neo-approach-service/internal/extract"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	neoIn := flag.String("neo-in", "", "path to the full NEO CSV data file")
	cadIn := flag.String("cad-in", "", "path to the full close-approach JSON data file")
	neoOut := flag.String("neo-out", "", "output path for the NEO fixture CSV")
	cadOut := flag.String("cad-out", "", "output path for the close-approach fixture JSON")
	maxNEOs := flag.Int("max-neos", 5, "number of NEOs to include")
	flag.Parse()

	if *neoIn == "" || *cadIn == "" || *neoOut == "" || *cadOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -neo-in, -cad-in, -neo-out, -cad-out")
	}

	neos, err := extract.LoadNEOs(*neoIn)
	if err != nil {
		return fmt.Errorf("load neos: %w", err)
	}
	approaches, err := extract.LoadApproaches(*cadIn)
	if err != nil {
		return fmt.Errorf("load close approaches: %w", err)
	}

	db, err := database.New(neos, approaches)
	if err != nil {
		return fmt.Errorf("link data set: %w", err)
	}

	// Take the first N objects (input order) that make at least one approach,
	// preferring named ones so lookup tests have something to find.
	var picked []*domain.NearEarthObject
	for _, pass := range []func(*domain.NearEarthObject) bool{
		func(n *domain.NearEarthObject) bool { return n.HasName() },
		func(n *domain.NearEarthObject) bool { return !n.HasName() },
	} {
		for _, neo := range db.NEOs() {
			if len(picked) == *maxNEOs {
				break
			}
			if len(neo.Approaches) > 0 && pass(neo) {
				picked = append(picked, neo)
			}
		}
	}
	if len(picked) == 0 {
		return fmt.Errorf("no NEOs with close approaches in the input data")
	}

	if err := writeNEOFixture(*neoOut, picked); err != nil {
		return err
	}
	count := 0
	for _, neo := range picked {
		count += len(neo.Approaches)
	}
	if err := writeCADFixture(*cadOut, picked); err != nil {
		return err
	}

	log.Printf("fixture: %d NEOs, %d close approaches", len(picked), count)
	return nil
}

func writeNEOFixture(path string, neos []*domain.NearEarthObject) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"pdes", "name", "pha", "diameter"}); err != nil {
		return err
	}
	for _, neo := range neos {
		pha := "N"
		if neo.Hazardous {
			pha = "Y"
		}
		diameter := ""
		if neo.HasDiameter() {
			diameter = strconv.FormatFloat(neo.Diameter, 'f', -1, 64)
		}
		if err := w.Write([]string{neo.Designation, neo.Name, pha, diameter}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// cadFixture mirrors the CNEOS CAD API response shape the loader reads.
type cadFixture struct {
	Fields []string   `json:"fields"`
	Data   [][]string `json:"data"`
	Count  string     `json:"count"`
}

func writeCADFixture(path string, neos []*domain.NearEarthObject) error {
	fixture := cadFixture{Fields: []string{"des", "cd", "dist", "v_rel"}}
	for _, neo := range neos {
		for _, ca := range neo.Approaches {
			fixture.Data = append(fixture.Data, []string{
				ca.Designation,
				ca.Time.Format(domain.ApproachTimeLayout),
				strconv.FormatFloat(ca.Distance, 'f', -1, 64),
				strconv.FormatFloat(ca.Velocity, 'f', -1, 64),
			})
		}
	}
	fixture.Count = strconv.Itoa(len(fixture.Data))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(fixture)
}
