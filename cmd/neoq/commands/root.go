// Package commands implements the neoq command tree.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/neo-approach-service/internal/config"
	"github.com/couchcryptid/neo-approach-service/internal/database"
	"github.com/couchcryptid/neo-approach-service/internal/extract"
	"github.com/couchcryptid/neo-approach-service/internal/observability"
)

// app holds state shared across commands: configuration, the logger, and the
// lazily loaded database. The data files are read at most once per process,
// so the interactive shell reuses one loaded data set across many commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	// flag overrides for the data file paths
	neoFile string
	cadFile string

	db *database.Database
}

func (a *app) neoPath() string {
	if a.neoFile != "" {
		return a.neoFile
	}
	return a.cfg.NEOFile
}

func (a *app) cadPath() string {
	if a.cadFile != "" {
		return a.cadFile
	}
	return a.cfg.CADFile
}

// database loads, links, and caches the data set.
func (a *app) database() (*database.Database, error) {
	if a.db != nil {
		return a.db, nil
	}

	neos, err := extract.LoadNEOs(a.neoPath())
	if err != nil {
		return nil, fmt.Errorf("load neos: %w", err)
	}
	approaches, err := extract.LoadApproaches(a.cadPath())
	if err != nil {
		return nil, fmt.Errorf("load close approaches: %w", err)
	}

	db, err := database.New(neos, approaches)
	if err != nil {
		return nil, fmt.Errorf("link data set: %w", err)
	}

	a.logger.Debug("data set loaded",
		"neos", db.NEOCount(), "approaches", db.ApproachCount())
	a.db = db
	return db, nil
}

// NewRootCmd builds the full command tree. Configuration and logging are
// initialized once in the persistent pre-run so every subcommand sees them.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "neoq",
		Short: "Explore near-Earth object close approaches",
		Long: `neoq loads NASA's near-Earth object and close-approach data sets and
answers questions about them.

Available commands:
  inspect      Look up a single NEO by designation or name
  query        Filter close approaches, print or export the results
  publish      Publish filtered close approaches to Kafka
  serve        Run the HTTP query API
  interactive  Run an interactive query shell
  fetch        Download fresh data sets from the JPL SSD API

Examples:
  neoq inspect --pdes 433
  neoq query --date 2020-03-02 --max-distance 0.1
  neoq query --hazardous --limit 5 --outfile results.json
  neoq serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.logger = observability.NewLogger(cfg)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.neoFile, "neofile", "", "path to the NEO CSV data file (overrides NEO_FILE)")
	root.PersistentFlags().StringVar(&a.cadFile, "cadfile", "", "path to the close-approach JSON data file (overrides CAD_FILE)")

	root.AddCommand(
		newInspectCmd(a),
		newQueryCmd(a),
		newPublishCmd(a),
		newServeCmd(a),
		newInteractiveCmd(a),
		newFetchCmd(a),
	)

	return root
}
