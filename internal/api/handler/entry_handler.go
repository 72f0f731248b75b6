package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tanker-ledger/internal/dto"
	"tanker-ledger/internal/ledger"
	"tanker-ledger/internal/service"
	"tanker-ledger/pkg/response"
)

// EntryHandler 按日条目 HTTP 处理器
type EntryHandler struct {
	entrySvc service.EntryService
}

// NewEntryHandler 创建 EntryHandler
func NewEntryHandler(entrySvc service.EntryService) *EntryHandler {
	return &EntryHandler{entrySvc: entrySvc}
}

// ListDay 查询某标签某一天的条目
// GET /api/v1/labels/:id/entries?date=2024-03-05
func (h *EntryHandler) ListDay(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.DayQuery
	if err := c.ShouldBindQuery(&q); err != nil || q.Date == "" {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.entrySvc.ListDay(c.Request.Context(), userID, c.Param("id"), q.Date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// SaveDay 整日保存：替换该日全部条目
// PUT /api/v1/labels/:id/entries
func (h *EntryHandler) SaveDay(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SaveDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "参数校验失败", err.Error())
		return
	}

	result, err := h.entrySvc.SaveDay(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteEntry 删除单条条目
// DELETE /api/v1/entries/:id
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.entrySvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *EntryHandler) handleError(c *gin.Context, err error) {
	var ve *ledger.ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(c, 13001, ve.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13002, err.Error())
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 13003, "条目不存在")
	case errors.Is(err, service.ErrLabelNotFound):
		response.NotFound(c, 12001, "标签不存在")
	default:
		response.InternalError(c)
	}
}
