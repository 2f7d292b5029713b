// Package seed 启动时写入默认部署与测试账号，可重复执行
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reisy1999/musatoku-thanks/internal/model"
	"github.com/reisy1999/musatoku-thanks/internal/repository"
	"github.com/reisy1999/musatoku-thanks/pkg/kana"
	"github.com/reisy1999/musatoku-thanks/pkg/password"
)

// DefaultDepartments 内置部署（写入时转换为半角）
var DefaultDepartments = []string{"テスト部署", "2A病棟", "3B病棟", "情報システム"}

// DefaultUser 内置账号
type DefaultUser struct {
	EmployeeID string
	Name       string
	Password   string
	Department string
	IsAdmin    bool
}

// DefaultUsers 内置账号，密码仅在首次创建时写入
var DefaultUsers = []DefaultUser{
	{EmployeeID: "000000", Name: "ﾃｽﾄﾕｰｻﾞｰ", Password: "pass", Department: "テスト部署"},
	{EmployeeID: "000001", Name: "ﾃｽﾄｲﾁ", Password: "000001", Department: "2A病棟"},
	{EmployeeID: "000002", Name: "ﾃｽﾄﾆ", Password: "000002", Department: "3B病棟"},
	{EmployeeID: "000003", Name: "ﾃｽﾄｻﾝ", Password: "000003", Department: "情報システム"},
	{EmployeeID: "999999", Name: "ﾃｽﾄｶﾝﾘｼｬ", Password: "admin", Department: "テスト部署", IsAdmin: true},
}

// Run 在一个事务内确保内置部署与账号存在
// 已存在的账号只同步部署、カナ氏名与管理员标记
func Run(ctx context.Context, repo *repository.Repository, hasher *password.Hasher, logger *zap.Logger) error {
	return repo.Transaction(ctx, func(tx *repository.Repository) error {
		depts := make(map[string]*model.Department, len(DefaultDepartments))
		for _, raw := range DefaultDepartments {
			dept, err := ensureDepartment(ctx, tx, kana.ToHalfWidth(raw))
			if err != nil {
				return fmt.Errorf("初始化部署 %s 失败: %w", raw, err)
			}
			depts[raw] = dept
		}

		for _, item := range DefaultUsers {
			dept := depts[item.Department]
			if err := ensureUser(ctx, tx, hasher, item, dept.ID); err != nil {
				return fmt.Errorf("初始化账号 %s 失败: %w", item.EmployeeID, err)
			}
		}

		logger.Info("初始数据已就绪",
			zap.Int("departments", len(DefaultDepartments)),
			zap.Int("users", len(DefaultUsers)),
		)
		return nil
	})
}

func ensureDepartment(ctx context.Context, tx *repository.Repository, name string) (*model.Department, error) {
	dept, err := tx.Department.GetByName(ctx, name)
	switch {
	case err == nil:
		return dept, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	dept = &model.Department{Name: name}
	if err := tx.Department.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func ensureUser(ctx context.Context, tx *repository.Repository, hasher *password.Hasher, item DefaultUser, deptID uint) error {
	name := kana.ToHalfWidth(item.Name)

	existing, err := tx.User.GetByEmployeeIDAny(ctx, item.EmployeeID)
	switch {
	case err == nil:
		if existing.Name == name && existing.IsAdmin == item.IsAdmin &&
			existing.DepartmentID != nil && *existing.DepartmentID == deptID {
			return nil
		}
		existing.Name = name
		existing.IsAdmin = item.IsAdmin
		existing.DepartmentID = &deptID
		existing.Department = nil
		return tx.User.Update(ctx, existing)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	hash, err := hasher.Hash(item.Password)
	if err != nil {
		return err
	}

	return tx.User.Create(ctx, &model.User{
		EmployeeID:     item.EmployeeID,
		Name:           name,
		DisplayName:    name,
		HashedPassword: hash,
		DepartmentID:   &deptID,
		IsAdmin:        item.IsAdmin,
		IsActive:       true,
	})
}
