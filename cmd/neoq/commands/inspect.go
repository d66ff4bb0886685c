package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/neo-approach-service/internal/domain"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		pdes    string
		name    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Look up a single NEO by designation or name",
		Long: `Look up one near-Earth object by primary designation or by IAU name
and print its attributes. With --verbose, also list every close approach
the object makes in the data set.

Examples:
  neoq inspect --pdes 433
  neoq inspect --name Halley --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (pdes == "") == (name == "") {
				return errors.New("exactly one of --pdes or --name is required")
			}

			db, err := a.database()
			if err != nil {
				return err
			}

			var neo *domain.NearEarthObject
			if pdes != "" {
				neo = db.GetByDesignation(pdes)
			} else {
				neo = db.GetByName(name)
			}
			if neo == nil {
				return errors.New("no matching NEOs exist in the database")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, neo)
			if verbose {
				for _, ca := range neo.Approaches {
					fmt.Fprintf(out, "- %v\n", ca)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pdes, "pdes", "p", "", "the primary designation of the NEO to inspect")
	cmd.Flags().StringVarP(&name, "name", "n", "", "the IAU name of the NEO to inspect")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also list each of the NEO's close approaches")

	return cmd
}
