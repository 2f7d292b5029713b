package dto

import "time"

// ── 认证模块响应 ──

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ── 用户模块响应 ──

// UserResponse 当前用户 / 搜索结果
type UserResponse struct {
	ID             uint    `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	Name           string  `json:"name"`
	DisplayName    string  `json:"display_name"`
	DepartmentID   *uint   `json:"department_id"`
	DepartmentName *string `json:"department_name"`
	IsAdmin        bool    `json:"is_admin"`
}

// AdminUserResponse 管理端用户信息
type AdminUserResponse struct {
	ID               uint    `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	DisplayName      string  `json:"display_name"`
	KanaName         string  `json:"kana_name"`
	DepartmentName   *string `json:"department_name"`
	IsAdmin          bool    `json:"is_admin"`
	IsActive         bool    `json:"is_active"`
	IsLoggedIn       bool    `json:"is_logged_in"`
	AppreciatedCount int     `json:"appreciated_count"`
	ExpressedCount   int     `json:"expressed_count"`
	LikesReceived    int     `json:"likes_received"`
}

// ── 部署模块响应 ──

// DepartmentResponse 部署信息
type DepartmentResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ── 投稿模块响应 ──

// PostResponse 公开投稿（不含作者信息）
type PostResponse struct {
	ID                     uint      `json:"id"`
	Content                string    `json:"content"`
	CreatedAt              time.Time `json:"created_at"`
	MentionUserIDs         []uint    `json:"mention_user_ids"`
	MentionUserNames       []string  `json:"mention_user_names"`
	MentionDepartmentIDs   []uint    `json:"mention_department_ids"`
	MentionDepartmentNames []string  `json:"mention_department_names"`
	LikeCount              int       `json:"like_count"`
	LikedByMe              bool      `json:"liked_by_me"`
}

// AdminPostResponse 管理端投稿信息
type AdminPostResponse struct {
	ID                     uint                `json:"id"`
	Content                string              `json:"content"`
	CreatedAt              time.Time           `json:"created_at"`
	AuthorID               uint                `json:"author_id"`
	AuthorName             string              `json:"author_name"`
	DepartmentName         *string             `json:"department_name"`
	MentionUserIDs         []uint              `json:"mention_user_ids"`
	MentionUserNames       []string            `json:"mention_user_names"`
	MentionDepartmentIDs   []uint              `json:"mention_department_ids"`
	MentionDepartmentNames []string            `json:"mention_department_names"`
	LikeCount              int                 `json:"like_count"`
	Status                 string              `json:"status"`
	IsDeleted              bool                `json:"is_deleted"`
	Reports                []PostReportSummary `json:"reports"`
}

// PostReportSummary 管理端投稿附带的举报摘要
type PostReportSummary struct {
	ID           uint      `json:"id"`
	ReporterName string    `json:"reporter_name"`
	Reason       string    `json:"reason"`
	ReportedAt   time.Time `json:"reported_at"`
	Status       string    `json:"status"`
}

// ── 举报模块响应 ──

// ReportResponse 举报信息（含举报人与投稿快照）
type ReportResponse struct {
	ID             uint      `json:"id"`
	ReportedPostID uint      `json:"reported_post_id"`
	ReporterUserID uint      `json:"reporter_user_id"`
	Reason         string    `json:"reason"`
	ReportedAt     time.Time `json:"reported_at"`
	Status         string    `json:"status"`
	ReporterName   string    `json:"reporter_name"`
	PostContent    string    `json:"post_content"`
	PostAuthorID   uint      `json:"post_author_id"`
	PostAuthorName string    `json:"post_author_name"`
	PostCreatedAt  time.Time `json:"post_created_at"`
	PostIsDeleted  bool      `json:"post_is_deleted"`
}

// ── 通用 ──

// ExportFile 导出文件内容
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// [自证通过] internal/dto/response.go
