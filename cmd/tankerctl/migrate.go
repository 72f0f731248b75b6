package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tanker-ledger/config"
	"tanker-ledger/pkg/database"
	applogger "tanker-ledger/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	var (
		configPath string
		rollback   bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "执行内嵌的数据库迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := applogger.NewLogger(&cfg.Log)
			if err != nil {
				return err
			}
			defer applogger.Sync(logger)

			db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if rollback {
				return database.RollbackMigration(sqlDB, logger)
			}
			logger.Info("开始执行迁移", zap.String("db", cfg.Database.Name))
			return database.RunMigrations(sqlDB, logger)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "配置文件路径（默认 ./config/config.yaml）")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "回滚最近一次迁移")

	return cmd
}
