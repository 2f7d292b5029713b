package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/reisy1999/musatoku-thanks/config"
	"github.com/reisy1999/musatoku-thanks/internal/model"
	"github.com/reisy1999/musatoku-thanks/internal/repository"
	"github.com/reisy1999/musatoku-thanks/pkg/jwt"
	"github.com/reisy1999/musatoku-thanks/pkg/password"
)

// testEnv 基于内存 sqlite 的完整 Service 环境
type testEnv struct {
	db     *gorm.DB
	repo   *repository.Repository
	svc    *Service
	jwtMgr *jwt.Manager
	hasher *password.Hasher
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL: 30 * time.Minute,
			BcryptCost:     bcrypt.MinCost,
			OnlineWindow:   5 * time.Minute,
		},
	}
}

func newTestEnv(t *testing.T, blacklist TokenBlacklist) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&_foreign_keys=1", t.Name())), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	cfg := testConfig()
	repo := repository.NewRepository(db)
	jwtMgr := jwt.NewManager(&cfg.Auth)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)

	svc := NewService(Deps{
		Config:    cfg,
		Repo:      repo,
		JWT:       jwtMgr,
		Hasher:    hasher,
		Blacklist: blacklist,
		Logger:    zap.NewNop(),
	})

	return &testEnv{db: db, repo: repo, svc: svc, jwtMgr: jwtMgr, hasher: hasher}
}

func (e *testEnv) dept(t *testing.T, name string) *model.Department {
	t.Helper()
	d := &model.Department{Name: name}
	require.NoError(t, e.repo.Department.Create(context.Background(), d))
	return d
}

// user 创建在职用户，密码与社员编号相同
func (e *testEnv) user(t *testing.T, employeeID, name string, dept *model.Department) *model.User {
	t.Helper()
	hash, err := e.hasher.Hash(employeeID)
	require.NoError(t, err)
	u := &model.User{
		EmployeeID:     employeeID,
		Name:           name,
		DisplayName:    name,
		HashedPassword: hash,
		IsActive:       true,
	}
	if dept != nil {
		u.DepartmentID = &dept.ID
	}
	require.NoError(t, e.repo.User.Create(context.Background(), u))
	return u
}

func (e *testEnv) reload(t *testing.T, id uint) *model.User {
	t.Helper()
	u, err := e.repo.User.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func uintPtr(v uint) *uint { return &v }
