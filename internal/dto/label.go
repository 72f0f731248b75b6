package dto

// ── 标签模块 DTO ──

// CreateLabelRequest 创建标签请求
type CreateLabelRequest struct {
	Name           string `json:"name"             binding:"required,max=100"`
	Color          string `json:"color"            binding:"omitempty,hexcolor"`
	IsDriverStatus bool   `json:"is_driver_status"`
}

// UpdateLabelRequest 更新标签请求（乐观锁）
type UpdateLabelRequest struct {
	Name           *string `json:"name"             binding:"omitempty,max=100"`
	Color          *string `json:"color"            binding:"omitempty,hexcolor"`
	IsDriverStatus *bool   `json:"is_driver_status"`
	Version        int     `json:"version"          binding:"required,min=1"`
}

// PinLabelRequest 置顶请求
type PinLabelRequest struct {
	Pinned bool `json:"pinned"`
}

// DieselAverageRequest 设置油耗（km/l）
type DieselAverageRequest struct {
	Average FlexString `json:"average" binding:"required"`
}

// LabelListRequest 标签列表查询参数
type LabelListRequest struct {
	Search string `form:"search" binding:"omitempty,max=100"`
}

// LabelResponse 标签信息响应
type LabelResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	IsDriverStatus bool   `json:"is_driver_status"`
	IsPinned       bool   `json:"is_pinned"`
	DieselAverage  string `json:"diesel_average"`
	Version        int    `json:"version"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
