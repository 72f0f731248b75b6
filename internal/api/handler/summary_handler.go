package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tanker-ledger/internal/dto"
	"tanker-ledger/internal/service"
	pkgerrors "tanker-ledger/pkg/errors"
	"tanker-ledger/pkg/response"
)

// SummaryHandler 月度汇总与日历 HTTP 处理器
type SummaryHandler struct {
	summarySvc service.SummaryService
}

// NewSummaryHandler 创建 SummaryHandler
func NewSummaryHandler(summarySvc service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summarySvc: summarySvc}
}

// MonthlySummary 月度汇总
// GET /api/v1/labels/:id/summary?year=2024&month=3&seq=7
func (h *SummaryHandler) MonthlySummary(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.summarySvc.MonthlySummary(c.Request.Context(), userID, c.Param("id"), &q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Calendar 月历视图
// GET /api/v1/labels/:id/calendar?year=2024&month=3
func (h *SummaryHandler) Calendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.summarySvc.Calendar(c.Request.Context(), userID, c.Param("id"), &q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *SummaryHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLabelNotFound):
		response.NotFound(c, 12001, "标签不存在")
	case errors.Is(err, pkgerrors.ErrStaleRequest):
		response.Conflict(c, 14001, err.Error())
	default:
		response.InternalError(c)
	}
}
