package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tanker-ledger/internal/dto"
	"tanker-ledger/internal/service"
	"tanker-ledger/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportMonthlyReport 导出月度报表
// GET /api/v1/labels/:id/export?year=2024&month=3&format=pdf
func (h *ExportHandler) ExportMonthlyReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	doc, err := h.exportSvc.MonthlyReport(c.Request.Context(), userID, c.Param("id"), &q)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, doc.Filename, doc.ContentType, doc.Data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLabelNotFound):
		response.NotFound(c, 12001, "标签不存在")
	case errors.Is(err, service.ErrExportFormat):
		response.BadRequest(c, 16101, "不支持的导出格式")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.ErrorWithDetails(c, 500, 16102, "生成报表文件失败", "请稍后重试")
	default:
		response.InternalError(c)
	}
}
