package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reisy1999/musatoku-thanks/config"
	"github.com/reisy1999/musatoku-thanks/pkg/database"
	applogger "github.com/reisy1999/musatoku-thanks/pkg/logger"
)

var (
	// configFile 配置文件路径，为空时按默认位置查找
	configFile string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCommand = &cobra.Command{
	Use:           "musatoku-thanks",
	Short:         "部署感谢留言板后端",
	SilenceUsage:  true,
	SilenceErrors: true,
	// 所有子命令共用：加载配置并初始化日志
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		logger, err = applogger.NewLogger(&cfg.Log)
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	// 无子命令时等同于 serve
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")

	rootCommand.AddCommand(serveCommand)
	rootCommand.AddCommand(migrateCommand)
	rootCommand.AddCommand(seedCommand)
}

// openDatabase 连接数据库并执行迁移
func openDatabase() (*gorm.DB, error) {
	db, err := database.NewDB(&cfg.Database, applogger.GormLevel(cfg.Log.Level), logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	if err := database.RunMigrations(db, logger); err != nil {
		closeDatabase(db)
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
