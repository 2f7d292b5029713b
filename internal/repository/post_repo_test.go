package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/reisy1999/musatoku-thanks/internal/model"
)

var base = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func TestPostRepo_CreateDeduplicatesMentions(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	dept := seedDept(t, repo, "2A病棟")
	a := seedUser(t, repo, "000001", "ｱ", nil)
	b := seedUser(t, repo, "000002", "ｲ", nil)

	p := seedPost(t, repo, a.ID, "ありがとう", base, []uint{b.ID, b.ID}, []uint{dept.ID, dept.ID})

	got, err := repo.Post.GetDetail(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Mentions, 1)
	assert.Equal(t, b.ID, got.Mentions[0].ID)
	require.Len(t, got.MentionDepartments, 1)
	assert.Equal(t, model.ReportStatusPending, got.ReportStatus)
	require.NotNil(t, got.Author)
	assert.Equal(t, a.ID, got.Author.ID)
}

func TestPostRepo_ListActiveOrderAndPaging(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	a := seedUser(t, repo, "000001", "ｱ", nil)

	p1 := seedPost(t, repo, a.ID, "1", base, nil, nil)
	p2 := seedPost(t, repo, a.ID, "2", base.Add(time.Minute), nil, nil)
	p3 := seedPost(t, repo, a.ID, "3", base.Add(time.Minute), nil, nil)
	hidden := seedPost(t, repo, a.ID, "4", base.Add(time.Hour), nil, nil)
	require.NoError(t, repo.Post.SetReportStatus(ctx, hidden.ID, model.ReportStatusDeleted))

	posts, err := repo.Post.ListActive(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []uint{p3.ID, p2.ID, p1.ID}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})

	posts, err = repo.Post.ListActive(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, p2.ID, posts[0].ID)

	posts, err = repo.Post.ListActive(ctx, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepo_ListMentioning(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	d2 := seedDept(t, repo, "2A病棟")
	d3 := seedDept(t, repo, "3B病棟")
	a := seedUser(t, repo, "000001", "ｱ", &d2.ID)
	b := seedUser(t, repo, "000002", "ｲ", &d3.ID)
	c := seedUser(t, repo, "000003", "ｳ", &d2.ID)

	direct := seedPost(t, repo, a.ID, "direct", base, []uint{b.ID}, nil)
	viaDept := seedPost(t, repo, a.ID, "dept", base.Add(time.Minute), nil, []uint{d3.ID})
	deleted := seedPost(t, repo, a.ID, "deleted", base.Add(2*time.Minute), []uint{b.ID}, nil)
	require.NoError(t, repo.Post.SetReportStatus(ctx, deleted.ID, model.ReportStatusDeleted))

	posts, err := repo.Post.ListMentioning(ctx, b.ID, b.DepartmentID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, viaDept.ID, posts[0].ID)
	assert.Equal(t, direct.ID, posts[1].ID)

	posts, err = repo.Post.ListMentioning(ctx, b.ID, nil)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, direct.ID, posts[0].ID)

	posts, err = repo.Post.ListMentioning(ctx, c.ID, c.DepartmentID)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepo_LikeIsSet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	a := seedUser(t, repo, "000001", "ｱ", nil)
	b := seedUser(t, repo, "000002", "ｲ", nil)
	p := seedPost(t, repo, a.ID, "like me", base, nil, nil)

	changed, err := repo.Post.AddLike(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Post.AddLike(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	n, err := repo.Post.CountLikes(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	changed, err = repo.Post.RemoveLike(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Post.RemoveLike(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestPostRepo_AdminListings(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	a := seedUser(t, repo, "000001", "ｱ", nil)
	b := seedUser(t, repo, "000002", "ｲ", nil)

	plain := seedPost(t, repo, a.ID, "plain", base, nil, nil)
	reported := seedPost(t, repo, a.ID, "reported", base.Add(time.Minute), nil, nil)
	require.NoError(t, repo.Report.Create(ctx, &model.Report{ReportedPostID: reported.ID, ReporterUserID: b.ID, Reason: "spam"}))

	posts, err := repo.Post.ListReported(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, reported.ID, posts[0].ID)
	require.Len(t, posts[0].Reports, 1)
	require.NotNil(t, posts[0].Reports[0].Reporter)
	assert.Equal(t, b.ID, posts[0].Reports[0].Reporter.ID)

	require.NoError(t, repo.Post.SetReportStatus(ctx, reported.ID, model.ReportStatusDeleted))

	posts, err = repo.Post.ListAdmin(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, plain.ID, posts[0].ID)

	posts, err = repo.Post.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, reported.ID, posts[0].ID)

	// 删除状态下仍出现在被举报列表
	posts, err = repo.Post.ListReported(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestPostRepo_SetReportStatusNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	err := repo.Post.SetReportStatus(context.Background(), 42, model.ReportStatusIgnored)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepo_HardDelete(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	dept := seedDept(t, repo, "2A病棟")
	a := seedUser(t, repo, "000001", "ｱ", nil)
	b := seedUser(t, repo, "000002", "ｲ", nil)
	p := seedPost(t, repo, a.ID, "bye", base, []uint{b.ID}, []uint{dept.ID})
	_, err := repo.Post.AddLike(ctx, p.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Report.Create(ctx, &model.Report{ReportedPostID: p.ID, ReporterUserID: b.ID}))

	require.NoError(t, repo.Post.HardDelete(ctx, p.ID))

	_, err = repo.Post.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, m := range []interface{}{&model.PostLike{}, &model.PostMention{}, &model.PostDepartmentMention{}, &model.Report{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}

	assert.ErrorIs(t, repo.Post.HardDelete(ctx, p.ID), gorm.ErrRecordNotFound)
}
