package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded Postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Store.Driver != "postgres" {
				return errors.New("migrate needs store.driver=postgres (or --store postgres)")
			}
			b, err := a.open(cmd.Context(), a.cfg, a.log, true)
			if err != nil {
				return err
			}
			b.Close()
			return nil
		},
	}
}
