package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tanker-ledger/internal/dto"
	"tanker-ledger/internal/ledger"
	"tanker-ledger/internal/model"
	"tanker-ledger/internal/repository"
)

// ── 条目模块业务错误 ──

var (
	ErrEntryNotFound = errors.New("条目不存在")
	ErrInvalidDate   = errors.New("日期格式须为 YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

// EntryService 条目业务接口
type EntryService interface {
	// ListDay 某标签某日的条目，按时间排序
	ListDay(ctx context.Context, userID, labelID, date string) ([]dto.EntryResponse, error)
	// SaveDay 整批校验后在一个事务内保存；任一行校验失败返回 *ledger.ValidationError
	SaveDay(ctx context.Context, userID, labelID string, req *dto.SaveDayRequest) (*dto.SaveDayResponse, error)
	Delete(ctx context.Context, userID, entryID string) error
}

type entryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEntryService 创建 EntryService 实例
func NewEntryService(repo *repository.Repository, logger *zap.Logger) EntryService {
	return &entryService{repo: repo, logger: logger}
}

// ────────────────────── ListDay ──────────────────────

func (s *entryService) ListDay(ctx context.Context, userID, labelID, date string) ([]dto.EntryResponse, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	label, err := s.getLabel(ctx, userID, labelID)
	if err != nil {
		return nil, err
	}
	return s.listDay(ctx, label, day)
}

// ────────────────────── SaveDay ──────────────────────

func (s *entryService) SaveDay(ctx context.Context, userID, labelID string, req *dto.SaveDayRequest) (*dto.SaveDayResponse, error) {
	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	label, err := s.getLabel(ctx, userID, labelID)
	if err != nil {
		return nil, err
	}

	// 1. 整批规范化，任何一行失败都不落库
	raws := make([]ledger.RawEntry, len(req.Entries))
	for i, in := range req.Entries {
		raws[i] = toRawEntry(req.Date, in)
	}
	entries, err := ledger.NormalizeAll(raws, ledger.ModeOf(label.IsDriverStatus))
	if err != nil {
		return nil, err
	}

	// 2. 事务保存
	rows := make([]*model.TankerEntry, len(entries))
	for i, e := range entries {
		rows[i] = toEntryModel(e)
	}
	if err := s.repo.Entry.SaveDay(ctx, userID, labelID, day, rows); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("保存条目失败", zap.String("label_id", labelID), zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}

	// 3. 返回保存后的当日全部条目
	list, err := s.listDay(ctx, label, day)
	if err != nil {
		return nil, err
	}
	return &dto.SaveDayResponse{Date: req.Date, Entries: list}, nil
}

// ────────────────────── Delete ──────────────────────

func (s *entryService) Delete(ctx context.Context, userID, entryID string) error {
	if err := s.repo.Entry.Delete(ctx, userID, entryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		s.logger.Error("删除条目失败", zap.String("entry_id", entryID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 内部方法 ──────────────────────

func (s *entryService) getLabel(ctx context.Context, userID, labelID string) (*model.Label, error) {
	label, err := s.repo.Label.GetByID(ctx, userID, labelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabelNotFound
		}
		s.logger.Error("查询标签失败", zap.String("label_id", labelID), zap.Error(err))
		return nil, err
	}
	return label, nil
}

func (s *entryService) listDay(ctx context.Context, label *model.Label, day time.Time) ([]dto.EntryResponse, error) {
	rows, err := s.repo.Entry.ListRange(ctx, label.UserID, label.LabelID, day, day.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("查询条目失败", zap.String("label_id", label.LabelID), zap.Error(err))
		return nil, err
	}

	mode := ledger.ModeOf(label.IsDriverStatus)
	result := make([]dto.EntryResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, toEntryResponse(toLedgerEntry(row).ForMode(mode)))
	}
	return result, nil
}

// ── 模型 / 核心类型 / DTO 转换 ──

func toRawEntry(date string, in dto.EntryInput) ledger.RawEntry {
	return ledger.RawEntry{
		ID:           in.ID,
		Date:         date,
		Time:         string(in.Time),
		CashAmount:   string(in.CashAmount),
		TotalTankers: string(in.TotalTankers),
		DriverStatus: string(in.DriverStatus),
		TotalKm:      string(in.TotalKm),
		CashTaken:    string(in.CashTaken),
		Notes:        string(in.Notes),
		DieselAdded:  string(in.DieselAdded),
	}
}

// toLedgerEntry 已落库的行直接按列类型转换，不再重复校验
func toLedgerEntry(row model.TankerEntry) ledger.Entry {
	e := ledger.Entry{
		ID:           row.EntryID,
		Date:         time.Date(row.Date.Year(), row.Date.Month(), row.Date.Day(), 0, 0, 0, 0, time.UTC),
		Time:         row.Time,
		CashAmount:   row.CashAmount,
		TotalTankers: row.TotalTankers,
		TotalKm:      row.TotalKm,
		CashTaken:    row.CashTaken,
		Notes:        row.Notes,
		DieselAdded:  row.DieselAdded,
	}
	if row.DriverStatus != nil {
		e.DriverStatus = ledger.DriverStatus(*row.DriverStatus)
	}
	return e
}

func toEntryModel(e ledger.Entry) *model.TankerEntry {
	row := &model.TankerEntry{
		EntryID:      e.ID,
		Date:         e.Date,
		Time:         e.Time,
		CashAmount:   e.CashAmount,
		TotalTankers: e.TotalTankers,
		TotalKm:      e.TotalKm,
		CashTaken:    e.CashTaken,
		Notes:        e.Notes,
		DieselAdded:  e.DieselAdded,
	}
	if e.DriverStatus != ledger.StatusNone {
		status := string(e.DriverStatus)
		row.DriverStatus = &status
	}
	return row
}

func toEntryResponse(e ledger.Entry) dto.EntryResponse {
	resp := dto.EntryResponse{
		ID:           e.ID,
		Date:         e.Date.Format(dateLayout),
		Time:         e.Time,
		CashAmount:   fixed2(e.CashAmount),
		TotalTankers: e.TotalTankers,
		TankerCount:  e.TankerCount(),
		TotalKm:      fixed2(e.TotalKm),
		CashTaken:    fixed2(e.CashTaken),
		Notes:        e.Notes,
		DieselAdded:  fixed2(e.DieselAdded),
	}
	if e.DriverStatus != ledger.StatusNone {
		status := string(e.DriverStatus)
		resp.DriverStatus = &status
	}
	return resp
}

func fixed2(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}
