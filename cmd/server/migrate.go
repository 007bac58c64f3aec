package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastygo/neighborly/internal/config"
	pgInfra "github.com/fastygo/neighborly/internal/infrastructure/postgres"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the Postgres schema",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(pgInfra.Up), string(pgInfra.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := pgInfra.Up
			if len(args) == 1 {
				direction = pgInfra.Direction(args[0])
			}
			if direction != pgInfra.Up && direction != pgInfra.Down {
				return fmt.Errorf("unknown direction %q", args[0])
			}

			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.Store.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations only apply to the %s driver, STORE_DRIVER is %q", config.DriverPostgres, cfg.Store.Driver)
			}
			return pgInfra.Migrate(cfg, direction, log)
		},
	}
}
