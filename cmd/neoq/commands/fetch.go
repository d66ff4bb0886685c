package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/neo-approach-service/internal/adapter/sbdb"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		dateMin string
		dateMax string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download fresh data sets from the JPL SSD API",
		Long: `Download the near-Earth object table and the close-approach table from
the JPL Solar System Dynamics API and write them to the configured data file
paths (NEO_FILE, CAD_FILE, or the --neofile/--cadfile flags).

Examples:
  neoq fetch
  neoq fetch --date-min 2020-01-01 --date-max 2021-01-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := sbdb.NewClient(a.cfg.SBDBTimeout, a.logger)
			ctx := cmd.Context()

			if err := writeTo(a.neoPath(), func(f *os.File) error {
				return client.DownloadNEOs(ctx, f)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.neoPath())

			if err := writeTo(a.cadPath(), func(f *os.File) error {
				return client.DownloadApproaches(ctx, f, dateMin, dateMax)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.cadPath())

			return nil
		},
	}

	cmd.Flags().StringVar(&dateMin, "date-min", "", "earliest close-approach date to fetch (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dateMax, "date-max", "", "latest close-approach date to fetch (YYYY-MM-DD)")

	return cmd
}

func writeTo(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
