package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/maxviazov/lexico-users/internal/ingest"
	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		count    int64
		endpoint string
		seed     int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate synthetic users and POST them one by one to the users API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("count") {
				a.cfg.Ingest.Count = count
			}
			if cmd.Flags().Changed("endpoint") {
				a.cfg.Ingest.Endpoint = endpoint
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gen := ingest.NewGenerator()
			if cmd.Flags().Changed("seed") {
				gen = ingest.NewSeededGenerator(seed)
			}
			sub := ingest.NewHTTPSubmitter(a.cfg.Ingest.Endpoint, a.cfg.Ingest.RequestTimeout)

			sum, err := ingest.New(gen, sub, a.log).Run(ctx, a.cfg.Ingest.Count)
			if errors.Is(err, context.Canceled) {
				a.log.Warn().Int64("attempted", sum.Attempted).Msg("seed interrupted")
				return nil
			}
			return err
		},
	}
	cmd.Flags().Int64VarP(&count, "count", "n", 0, "Number of records to submit (keys 1..count); defaults to ingest.count")
	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "Record creation URL; defaults to ingest.endpoint")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for reproducible fake data")
	return cmd
}
