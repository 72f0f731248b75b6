package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"tanker-ledger/config"
	"tanker-ledger/internal/dto"
	"tanker-ledger/internal/ledger"
	"tanker-ledger/internal/report"
	"tanker-ledger/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportFormat       = errors.New("不支持的导出格式")
	ErrExportGenerateFail = errors.New("生成报表文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 支持 PDF / Excel (.xlsx) / iCalendar (.ics) 三种格式，默认 PDF
//   - 生成失败时不返回任何部分内容
//   - 文件以字节返回，由 Handler 层设置下载响应头
type ExportService interface {
	// MonthlyReport 导出标签某月的汇总报表
	MonthlyReport(ctx context.Context, userID, labelID string, q *dto.ExportQuery) (*report.Document, error)
}

type exportService struct {
	cfg       *config.ReportConfig
	repo      *repository.Repository
	generator *report.Generator
	now       func() time.Time
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.ReportConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{
		cfg:       cfg,
		repo:      repo,
		generator: report.NewGenerator(cfg.CurrencySymbol, cfg.PageThreshold),
		now:       time.Now,
		logger:    logger,
	}
}

// ═══════════════════════════════════════════════════════════
// MonthlyReport 月度汇总报表
// ═══════════════════════════════════════════════════════════
//
// 输出内容：
//   - 标题、按模式选择的合计行、生成时间
//   - 按日升序的小节：日期标题 + 当日条目表
//
// 返回值：Document（文件名、MIME、字节）

func (s *exportService) MonthlyReport(ctx context.Context, userID, labelID string, q *dto.ExportQuery) (*report.Document, error) {
	format, err := report.ParseFormat(q.Format)
	if err != nil {
		return nil, ErrExportFormat
	}

	label, m, err := loadMonth(ctx, s.repo, s.logger, userID, labelID, q.Year, time.Month(q.Month))
	if err != nil {
		return nil, err
	}

	doc, err := s.generator.Generate(
		ledger.Label{Name: label.Name, Mode: ledger.ModeOf(label.IsDriverStatus)},
		m,
		format,
		report.Options{GeneratedAt: s.now().In(s.cfg.Location())},
	)
	if err != nil {
		s.logger.Error("生成报表失败",
			zap.String("label_id", labelID),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return nil, ErrExportGenerateFail
	}

	s.logger.Info("报表已导出",
		zap.String("label_id", labelID),
		zap.String("filename", doc.Filename),
		zap.Int("bytes", len(doc.Data)),
	)
	return doc, nil
}
