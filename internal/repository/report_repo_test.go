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

func TestReportRepo_StatusSharedAcrossReports(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	a := seedUser(t, repo, "000001", "ｱ", nil)
	b := seedUser(t, repo, "000002", "ｲ", nil)
	c := seedUser(t, repo, "000003", "ｳ", nil)
	p := seedPost(t, repo, a.ID, "問題の投稿", base, nil, nil)

	r1 := &model.Report{ReportedPostID: p.ID, ReporterUserID: b.ID, Reason: "spam"}
	r2 := &model.Report{ReportedPostID: p.ID, ReporterUserID: c.ID, Reason: "abuse", ReportedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Report.Create(ctx, r1))
	require.NoError(t, repo.Report.Create(ctx, r2))

	require.NoError(t, repo.Post.SetReportStatus(ctx, p.ID, model.ReportStatusIgnored))

	got, err := repo.Report.GetByID(ctx, r2.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusIgnored, got.Status())
	require.NotNil(t, got.ReportedPost.Author)
	assert.Equal(t, a.ID, got.ReportedPost.Author.ID)
	require.NotNil(t, got.Reporter)
	assert.Equal(t, c.ID, got.Reporter.ID)

	list, err := repo.Report.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, r := range list {
		assert.Equal(t, model.ReportStatusIgnored, r.Status())
	}
}

func TestReportRepo_GetByIDNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Report.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
