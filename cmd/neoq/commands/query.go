package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/neo-approach-service/internal/export"
	"github.com/couchcryptid/neo-approach-service/internal/filters"
)

// maxPrinted caps stdout output when no outfile is given.
const maxPrinted = 10

func newQueryCmd(a *app) *cobra.Command {
	cf := &criteriaFlags{}
	var (
		limit   int
		outfile string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter close approaches, print or export the results",
		Long: `Query the close-approach data set with any combination of filters.
Results print to stdout, or write to a CSV or JSON file with --outfile.

Examples:
  neoq query --date 2020-03-02
  neoq query --start-date 2020-01-01 --end-date 2020-12-31 --max-distance 0.1
  neoq query --hazardous --min-velocity 30 --limit 5 --outfile results.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := cf.criteria(cmd)
			if err != nil {
				return err
			}
			db, err := a.database()
			if err != nil {
				return err
			}

			results := filters.Limit(db.Query(filters.Create(criteria)), limit)

			if outfile != "" {
				return export.WriteFile(outfile, results)
			}

			out := cmd.OutOrStdout()
			printed := 0
			for ca := range results {
				if printed == maxPrinted {
					fmt.Fprintf(out, "... (truncated; use --limit or --outfile for more)\n")
					break
				}
				fmt.Fprintln(out, ca)
				printed++
			}
			if printed == 0 {
				fmt.Fprintln(out, "No matching close approaches.")
			}
			return nil
		},
	}

	cf.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of results (0 means no limit)")
	cmd.Flags().StringVarP(&outfile, "outfile", "o", "", "write results to this .csv or .json file")

	return cmd
}
