package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"supstonad/internal/platform/config"
	"supstonad/internal/platform/kafka/admin"
)

func topicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Manage the Kafka topics supstonad uses",
	}

	var (
		partitions  int32
		replication int16
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create the kravgrunnlag and tilbakekrevingsvedtak topics unless they exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			results, err := admin.EnsureTopics(cmd.Context(), cfg.Kafka.Brokers, partitions, replication,
				cfg.Kafka.KravgrunnlagTopic, cfg.Kafka.TilbakekrevingsTopic)
			if err != nil {
				return err
			}
			for _, r := range results {
				state := "exists"
				if r.Created {
					state = "created"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Topic, state)
			}
			return nil
		},
	}
	create.Flags().Int32Var(&partitions, "partitions", 1, "partitions per topic")
	create.Flags().Int16Var(&replication, "replication", 1, "replication factor")
	cmd.AddCommand(create)
	return cmd
}
