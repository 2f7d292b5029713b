package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reisy1999/musatoku-thanks/internal/repository"
	"github.com/reisy1999/musatoku-thanks/internal/seed"
	"github.com/reisy1999/musatoku-thanks/pkg/password"
)

var seedCommand = &cobra.Command{
	Use:   "seed",
	Short: "迁移后写入默认部署与用户（幂等）",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		repo := repository.NewRepository(db)
		if err := seed.Run(cmd.Context(), repo, password.NewHasher(cfg.Auth.BcryptCost), logger); err != nil {
			return fmt.Errorf("写入初始数据失败: %w", err)
		}
		return nil
	},
}
