package service

import pkgerrors "github.com/reisy1999/musatoku-thanks/pkg/errors"

// ── 业务错误 ──
// 均归属于 pkg/errors 中的分类，Handler 按分类映射状态码

var (
	// 认证
	ErrInvalidCredentials = pkgerrors.New(pkgerrors.ErrUnauthenticated, "社员编号或密码错误")
	ErrInvalidToken       = pkgerrors.New(pkgerrors.ErrUnauthenticated, "认证信息无效")
	ErrTokenExpired       = pkgerrors.New(pkgerrors.ErrUnauthenticated, "登录已过期，请重新登录")
	ErrTokenRevoked       = pkgerrors.New(pkgerrors.ErrUnauthenticated, "Token 已注销")

	// 用户
	ErrUserNotFound        = pkgerrors.New(pkgerrors.ErrNotFound, "用户不存在")
	ErrEmployeeIDExists    = pkgerrors.New(pkgerrors.ErrConflict, "社员编号已存在")
	ErrUserSelfDeactivate  = pkgerrors.New(pkgerrors.ErrValidation, "不能停用自己")
	ErrInvalidCounter      = pkgerrors.New(pkgerrors.ErrValidation, "排行类型仅支持 appreciated / expressed / likes")
	ErrImportNotUTF8       = pkgerrors.New(pkgerrors.ErrValidation, "导入文件必须为 UTF-8 编码")
	ErrImportBadHeader     = pkgerrors.New(pkgerrors.ErrValidation, "表头缺少必要列（user_id / name / department / email）")
	ErrImportUnsupported   = pkgerrors.New(pkgerrors.ErrValidation, "仅支持 .csv / .xlsx 文件")
	ErrImportTooManyRows   = pkgerrors.Newf(pkgerrors.ErrValidation, "数据行数超过上限 %d 行", maxImportRows)
	ErrExportUnknownFormat = pkgerrors.New(pkgerrors.ErrValidation, "导出格式仅支持 csv / xlsx")

	// 部署
	ErrDepartmentNotFound   = pkgerrors.New(pkgerrors.ErrNotFound, "部署不存在")
	ErrDepartmentNameExists = pkgerrors.New(pkgerrors.ErrConflict, "部署名称已存在")
	ErrDepartmentHasMembers = pkgerrors.New(pkgerrors.ErrReferenced, "部署下存在用户，无法删除")
	ErrDepartmentMentioned  = pkgerrors.New(pkgerrors.ErrReferenced, "部署已被投稿提及，无法删除")

	// 投稿
	ErrPostNotFound = pkgerrors.New(pkgerrors.ErrNotFound, "投稿不存在")

	// 举报
	ErrReportNotFound      = pkgerrors.New(pkgerrors.ErrNotFound, "举报不存在")
	ErrInvalidReportStatus = pkgerrors.New(pkgerrors.ErrValidation, "状态仅支持 pending / deleted / ignored")
)
