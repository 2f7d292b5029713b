package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPost_IsDeletedFollowsStatus(t *testing.T) {
	p := &Post{ReportStatus: ReportStatusPending}
	assert.False(t, p.IsDeleted())

	p.ReportStatus = ReportStatusDeleted
	assert.True(t, p.IsDeleted())

	p.ReportStatus = ReportStatusIgnored
	assert.False(t, p.IsDeleted())
}

func TestReportStatus_Valid(t *testing.T) {
	for _, s := range []ReportStatus{ReportStatusPending, ReportStatusDeleted, ReportStatusIgnored} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ReportStatus("closed").Valid())
	assert.False(t, ReportStatus("").Valid())
}

func TestReport_StatusReadsPost(t *testing.T) {
	r := &Report{}
	assert.Equal(t, ReportStatusPending, r.Status())

	r.ReportedPost = &Post{ReportStatus: ReportStatusIgnored}
	assert.Equal(t, ReportStatusIgnored, r.Status())
}

func TestUser_MentionName(t *testing.T) {
	u := &User{Name: "ﾃｽﾄ", IsActive: true}
	assert.Equal(t, "ﾃｽﾄ", u.MentionName())

	u.IsActive = false
	assert.Equal(t, DeletedUserPlaceholder, u.MentionName())
}

func TestUser_IsOnline(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	u := &User{LastSeen: now.Add(-4 * time.Minute)}
	assert.True(t, u.IsOnline(now, 5*time.Minute))

	u.LastSeen = now.Add(-5 * time.Minute)
	assert.False(t, u.IsOnline(now, 5*time.Minute))
}

func TestPost_LikedBy(t *testing.T) {
	p := &Post{Likers: []User{{ID: 1}, {ID: 3}}}
	assert.True(t, p.LikedBy(3))
	assert.False(t, p.LikedBy(2))
}

func TestUser_DepartmentName(t *testing.T) {
	u := &User{}
	assert.Nil(t, u.DepartmentName())

	u.Department = &Department{ID: 2, Name: "2A病棟"}
	if assert.NotNil(t, u.DepartmentName()) {
		assert.Equal(t, "2A病棟", *u.DepartmentName())
	}
}
