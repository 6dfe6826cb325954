package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hendelsestore "supstonad/internal/hendelse/store"
	kravgrunnlagservice "supstonad/internal/kravgrunnlag/service"
	"supstonad/internal/platform/config"
	"supstonad/internal/platform/logger"
	"supstonad/internal/platform/postgres"
	sakstore "supstonad/internal/sak/store"
)

func knyttCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "knytt",
		Short: "Link unprocessed kravgrunnlag to their saker once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := postgres.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := kravgrunnlagservice.New(hendelsestore.NewPostgres(db), sakstore.NewPostgres(db),
				postgres.NewTxRunner(db, cfg.Database.TxTimeout),
				kravgrunnlagservice.WithLogger(logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, "text")),
				kravgrunnlagservice.WithBatchSize(cfg.Jobs.KnyttBatchSize),
			)
			res, err := svc.KnyttTilSak(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "knyttet=%d duplikat=%d utsatt=%d\n", res.Knyttet, res.Duplikat, res.Utsatt)
			return nil
		},
	}
}
