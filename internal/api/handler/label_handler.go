package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tanker-ledger/internal/dto"
	"tanker-ledger/internal/service"
	pkgerrors "tanker-ledger/pkg/errors"
	"tanker-ledger/pkg/response"
)

// LabelHandler 标签模块 HTTP 处理器
type LabelHandler struct {
	labelSvc service.LabelService
}

// NewLabelHandler 创建 LabelHandler
func NewLabelHandler(labelSvc service.LabelService) *LabelHandler {
	return &LabelHandler{labelSvc: labelSvc}
}

// ListLabels 标签列表
// GET /api/v1/labels?search=
func (h *LabelHandler) ListLabels(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.LabelListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.labelSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetLabel 标签详情
// GET /api/v1/labels/:id
func (h *LabelHandler) GetLabel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.labelSvc.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateLabel 创建标签
// POST /api/v1/labels
func (h *LabelHandler) CreateLabel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.labelSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateLabel 更新标签
// PUT /api/v1/labels/:id
func (h *LabelHandler) UpdateLabel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.labelSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// SetPinned 置顶 / 取消置顶
// PUT /api/v1/labels/:id/pin
func (h *LabelHandler) SetPinned(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PinLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.labelSvc.SetPinned(c.Request.Context(), userID, c.Param("id"), req.Pinned)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// SetDieselAverage 设置油耗
// PUT /api/v1/labels/:id/diesel-average
func (h *LabelHandler) SetDieselAverage(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DieselAverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.labelSvc.SetDieselAverage(c.Request.Context(), userID, c.Param("id"), string(req.Average))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteLabel 删除标签（级联删除条目）
// DELETE /api/v1/labels/:id
func (h *LabelHandler) DeleteLabel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.labelSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *LabelHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLabelNotFound):
		response.NotFound(c, 12001, "标签不存在")
	case errors.Is(err, service.ErrLabelNameRequired),
		errors.Is(err, service.ErrLabelNameTooLong),
		errors.Is(err, service.ErrInvalidLabelColor),
		errors.Is(err, service.ErrInvalidDieselAverage):
		response.BadRequest(c, 12002, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 12003, err.Error())
	default:
		response.InternalError(c)
	}
}
