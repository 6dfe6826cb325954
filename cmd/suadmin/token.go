package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"supstonad/internal/platform/config"
	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/middleware/auth"
)

// tokenCmd signs a bearer token with the configured development key.
func tokenCmd() *cobra.Command {
	var (
		groups []string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <nav-ident>",
		Short: "Issue a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				groups = []string{cfg.Auth.SaksbehandlerGroup}
			}
			v := auth.NewHMACValidator(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience, nil)
			token, err := v.Issue(id.NavIdent(args[0]), groups, time.Now(), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&groups, "group", nil, "group claim, repeatable (default: the saksbehandler group)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
