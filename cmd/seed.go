package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hdfops/field-console/internal/core/service"
	"github.com/hdfops/field-console/internal/infrastructure/config"
	redisdb "github.com/hdfops/field-console/internal/infrastructure/db/redis"
	"github.com/hdfops/field-console/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the persisted credential records to the fixed defaults",
	Long: `Overwrites the persisted users and roles records with the fixed
default set. The running service does this on every startup; this command is
for resetting a shared environment without restarting it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

		rdb, err := redisdb.Connect(cmd.Context(), redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()

		store := service.NewCredentialStore(redisdb.NewCredentialRepository(rdb, log), log)
		if err := store.Seed(cmd.Context()); err != nil {
			return fmt.Errorf("seed credentials: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
