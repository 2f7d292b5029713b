package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reisy1999/musatoku-thanks/internal/api/middleware"
	"github.com/reisy1999/musatoku-thanks/internal/model"
	"github.com/reisy1999/musatoku-thanks/pkg/jwt"
	"github.com/reisy1999/musatoku-thanks/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.ContextKeyUserID)
	if !exists {
		response.Unauthorized(c, codeUnauthenticated, "未认证")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, codeUnauthenticated, "未认证")
		return 0, false
	}
	return id, true
}

// MustGetUser 提取当前在职用户
func MustGetUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(middleware.ContextKeyUser)
	if !exists {
		response.Unauthorized(c, codeUnauthenticated, "未认证")
		return nil, false
	}
	u, ok := v.(*model.User)
	if !ok || u == nil {
		response.Unauthorized(c, codeUnauthenticated, "未认证")
		return nil, false
	}
	return u, true
}

// MustGetClaims 提取当前 Token 声明
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.ContextKeyClaims)
	if !exists {
		response.Unauthorized(c, codeUnauthenticated, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, codeUnauthenticated, "未认证")
		return nil, false
	}
	return claims, true
}

// OptionalUserID 匿名访问时返回 nil
func OptionalUserID(c *gin.Context) *uint {
	v, exists := c.Get(middleware.ContextKeyUserID)
	if !exists {
		return nil
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

// parseIDParam 解析路径参数中的正整数 id，失败时写入 400
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, codeValidation, "无效的 "+name)
		return 0, false
	}
	return uint(id), true
}
