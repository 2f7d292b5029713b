package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reisy1999/musatoku-thanks/internal/dto"
	"github.com/reisy1999/musatoku-thanks/internal/service"
	"github.com/reisy1999/musatoku-thanks/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器（含管理端用户操作）
type UserHandler struct {
	userSvc service.UserService
	logger  *zap.Logger
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userSvc: userSvc, logger: logger}
}

// GetMe 当前用户信息
// GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetMe(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, user)
}

// Search 按カナ氏名部分匹配
// GET /users/search?query=
func (h *UserHandler) Search(c *gin.Context) {
	var req dto.UserSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	users, err := h.userSvc.Search(c.Request.Context(), req.Query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, users)
}

// ── 管理端 ──

// List 全部用户（含停用）
// GET /admin/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, users)
}

// Create 创建用户
// POST /admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Created(c, user)
}

// Deactivate 停用用户
// DELETE /admin/users/:id
func (h *UserHandler) Deactivate(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.Deactivate(c.Request.Context(), id, callerID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.NoContent(c)
}

// Top 计数排行
// GET /admin/users/top/:counter?limit=
func (h *UserHandler) Top(c *gin.Context) {
	var req dto.TopUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, codeValidation, "limit 须在 1-100 之间")
		return
	}

	users, err := h.userSvc.TopUsers(c.Request.Context(), c.Param("counter"), req.GetLimit())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, users)
}

// [自证通过] internal/api/handler/user_handler.go
