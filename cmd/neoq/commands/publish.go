package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/neo-approach-service/internal/adapter/kafka"
	"github.com/couchcryptid/neo-approach-service/internal/filters"
	"github.com/couchcryptid/neo-approach-service/internal/observability"
)

func newPublishCmd(a *app) *cobra.Command {
	cf := &criteriaFlags{}
	var limit int

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish filtered close approaches to Kafka",
		Long: `Run a filtered query and publish every matching close approach to the
configured Kafka sink topic (KAFKA_BROKERS, KAFKA_SINK_TOPIC). Messages are
keyed by the NEO's primary designation and written in batches.

Examples:
  neoq publish --hazardous
  neoq publish --start-date 2026-01-01 --max-distance 0.05 --limit 100`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := cf.criteria(cmd)
			if err != nil {
				return err
			}
			db, err := a.database()
			if err != nil {
				return err
			}

			publisher := kafkaadapter.NewPublisher(a.cfg, observability.NewMetrics(), a.logger)
			defer publisher.Close()

			results := filters.Limit(db.Query(filters.Create(criteria)), limit)
			published, err := publisher.PublishAll(cmd.Context(), results)
			if err != nil {
				return fmt.Errorf("publish: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Published %d close approaches to %s.\n",
				published, a.cfg.KafkaSinkTopic)
			return nil
		},
	}

	cf.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of results (0 means no limit)")

	return cmd
}
