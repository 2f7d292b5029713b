package dto

import vd "github.com/go-ozzo/ozzo-validation/v4"

// ── 用户模块 DTO ──

// UserSearchRequest 用户搜索参数
type UserSearchRequest struct {
	Query string `form:"query"`
}

// CreateUserRequest 管理员创建用户请求
type CreateUserRequest struct {
	EmployeeID   string `json:"employee_id"   binding:"required,max=32"`
	Name         string `json:"name"          binding:"required,max=100"`
	DisplayName  string `json:"display_name"  binding:"omitempty,max=100"`
	Password     string `json:"password"      binding:"required,max=72"`
	DepartmentID *uint  `json:"department_id"`
	IsAdmin      bool   `json:"is_admin"`
}

// TopUsersRequest 计数排行查询参数
type TopUsersRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetLimit 获取数量（默认 10）
func (r *TopUsersRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 10
	}
	return r.Limit
}

// ExportUsersRequest 导出格式
type ExportUsersRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

// ImportUserRow CSV/Excel 导入的一行
type ImportUserRow struct {
	Line        int    `json:"-"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Validate 必填列校验，email 仅要求非空
func (r ImportUserRow) Validate() error {
	return vd.ValidateStruct(&r,
		vd.Field(&r.UserID, vd.Required.Error("不能为空"), vd.RuneLength(1, 32).Error("长度超过 32")),
		vd.Field(&r.Name, vd.Required.Error("不能为空"), vd.RuneLength(1, 100).Error("长度超过 100")),
		vd.Field(&r.Department, vd.Required.Error("不能为空"), vd.RuneLength(1, 100).Error("长度超过 100")),
		vd.Field(&r.Email, vd.Required.Error("不能为空")),
		vd.Field(&r.DisplayName, vd.RuneLength(0, 100).Error("长度超过 100")),
	)
}

// ImportUsersResponse 批量导入结果
type ImportUsersResponse struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// [自证通过] internal/dto/user.go
