package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"tanker-ledger/internal/dto"
	"tanker-ledger/internal/ledger"
	"tanker-ledger/internal/model"
	"tanker-ledger/internal/repository"
	pkgerrors "tanker-ledger/pkg/errors"
)

// SummaryService 月度视图业务接口
//
// 每次请求都从条目快照重新汇总，不缓存也不持久化汇总结果。
// 请求可携带递增序号 seq：序号落后于同一 (用户, 标签) 已处理的最新序号时
// 返回 ErrStaleRequest，响应原样回显 seq 供客户端丢弃乱序结果。
type SummaryService interface {
	MonthlySummary(ctx context.Context, userID, labelID string, q *dto.MonthQuery) (*dto.MonthlySummaryResponse, error)
	Calendar(ctx context.Context, userID, labelID string, q *dto.MonthQuery) (*dto.CalendarResponse, error)
}

type summaryService struct {
	repo   *repository.Repository
	seq    Sequencer
	logger *zap.Logger
}

// NewSummaryService 创建 SummaryService 实例
func NewSummaryService(repo *repository.Repository, seq Sequencer, logger *zap.Logger) SummaryService {
	return &summaryService{repo: repo, seq: seq, logger: logger}
}

// ════════════════════════════════════════════════════════════
// MonthlySummary 月度汇总
// ════════════════════════════════════════════════════════════

func (s *summaryService) MonthlySummary(ctx context.Context, userID, labelID string, q *dto.MonthQuery) (*dto.MonthlySummaryResponse, error) {
	label, m, err := loadMonth(ctx, s.repo, s.logger, userID, labelID, q.Year, time.Month(q.Month))
	if err != nil {
		return nil, err
	}
	// 标签确认存在后才推进序号
	if err := s.checkSequence(ctx, userID, labelID, q.Seq); err != nil {
		return nil, err
	}

	resp := &dto.MonthlySummaryResponse{
		LabelID:   label.LabelID,
		LabelName: label.Name,
		Mode:      string(ledger.ModeOf(label.IsDriverStatus)),
		Year:      q.Year,
		Month:     q.Month,
		Totals:    toTotalsResponse(m.Totals),
		Days:      make([]dto.DailyRollupResponse, 0, m.Len()),
		Seq:       q.Seq,
	}

	for _, d := range m.Days() {
		day := dto.DailyRollupResponse{
			Day:     d.Key(),
			Date:    d.Date(m.Year, m.Month).Format(dateLayout),
			Status:  string(d.Totals.DayStatus()),
			Totals:  toTotalsResponse(d.Totals),
			Entries: make([]dto.EntryResponse, 0, len(d.Entries)),
		}
		var notes []string
		for _, e := range d.Entries {
			day.Entries = append(day.Entries, toEntryResponse(e))
			if e.Notes != nil && *e.Notes != "" {
				notes = append(notes, *e.Notes)
			}
		}
		day.Notes = strings.Join(notes, "; ")
		resp.Days = append(resp.Days, day)
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// Calendar 月历徽标
// ════════════════════════════════════════════════════════════

func (s *summaryService) Calendar(ctx context.Context, userID, labelID string, q *dto.MonthQuery) (*dto.CalendarResponse, error) {
	month := time.Month(q.Month)
	label, m, err := loadMonth(ctx, s.repo, s.logger, userID, labelID, q.Year, month)
	if err != nil {
		return nil, err
	}
	if err := s.checkSequence(ctx, userID, labelID, q.Seq); err != nil {
		return nil, err
	}

	n := ledger.DaysInMonth(q.Year, month)
	resp := &dto.CalendarResponse{
		LabelID:      label.LabelID,
		Year:         q.Year,
		Month:        q.Month,
		DaysInMonth:  n,
		FirstWeekday: int(time.Date(q.Year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()),
		TotalTankers: m.TotalTankers,
		Days:         make([]dto.CalendarDay, 0, n),
		Seq:          q.Seq,
	}
	for day := 1; day <= n; day++ {
		cell := dto.CalendarDay{
			Day:  day,
			Date: time.Date(q.Year, month, day, 0, 0, 0, 0, time.UTC).Format(dateLayout),
		}
		if d, ok := m.Day(ledger.DayKey(day)); ok {
			cell.Tankers = d.TotalTankers
			cell.EntryCount = len(d.Entries)
			cell.Status = string(d.Totals.DayStatus())
		}
		resp.Days = append(resp.Days, cell)
	}
	return resp, nil
}

// ────────────────────── 内部方法 ──────────────────────

// checkSequence 序号存储不可用时放行，只记录告警
func (s *summaryService) checkSequence(ctx context.Context, userID, labelID string, seq *int64) error {
	if seq == nil || s.seq == nil {
		return nil
	}
	ok, err := s.seq.Advance(ctx, userID+":"+labelID, *seq)
	if err != nil {
		s.logger.Warn("请求序号检查失败，已放行", zap.String("label_id", labelID), zap.Error(err))
		return nil
	}
	if !ok {
		return pkgerrors.ErrStaleRequest
	}
	return nil
}

// loadMonth 并发读取标签与当月条目，按标签当前模式解读后汇总
func loadMonth(
	ctx context.Context,
	repo *repository.Repository,
	logger *zap.Logger,
	userID, labelID string,
	year int, month time.Month,
) (*model.Label, ledger.MonthlyRollup, error) {
	from, to := ledger.MonthRange(year, month)

	var (
		label *model.Label
		rows  []model.TankerEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := repo.Label.GetByID(gctx, userID, labelID)
		if err != nil {
			return err
		}
		label = l
		return nil
	})
	g.Go(func() error {
		r, err := repo.Entry.ListRange(gctx, userID, labelID, from, to)
		if err != nil {
			return err
		}
		rows = r
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.MonthlyRollup{}, ErrLabelNotFound
		}
		logger.Error("读取月度数据失败",
			zap.String("label_id", labelID),
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err),
		)
		return nil, ledger.MonthlyRollup{}, err
	}

	mode := ledger.ModeOf(label.IsDriverStatus)
	entries := make([]ledger.Entry, len(rows))
	for i, row := range rows {
		entries[i] = toLedgerEntry(row).ForMode(mode)
	}
	return label, ledger.Aggregate(year, month, entries), nil
}

func toTotalsResponse(t ledger.Totals) dto.TotalsResponse {
	return dto.TotalsResponse{
		TotalTankers:     t.TotalTankers,
		TotalCash:        t.TotalCash.StringFixed(2),
		TotalKm:          t.TotalKm.StringFixed(2),
		TotalCashTaken:   t.TotalCashTaken.StringFixed(2),
		TotalDieselAdded: t.TotalDieselAdded.StringFixed(2),
		PresentCount:     t.PresentCount,
		AbsentCount:      t.AbsentCount,
	}
}
