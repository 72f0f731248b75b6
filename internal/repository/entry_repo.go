package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tanker-ledger/internal/model"
)

// EntryRepository 条目数据访问接口
type EntryRepository interface {
	// ListRange 查询 [from, to) 日期区间内的条目，按日期、时间、创建时间排序
	ListRange(ctx context.Context, userID, labelID string, from, to time.Time) ([]model.TankerEntry, error)
	// SaveDay 在一个事务内保存某日的一批条目：无 ID 的新建，有 ID 的更新
	SaveDay(ctx context.Context, userID, labelID string, date time.Time, entries []*model.TankerEntry) error
	Delete(ctx context.Context, userID, entryID string) error
}

type entryRepo struct {
	db *gorm.DB
}

// NewEntryRepo 创建 EntryRepository 实例
func NewEntryRepo(db *gorm.DB) EntryRepository {
	return &entryRepo{db: db}
}

func (r *entryRepo) ListRange(ctx context.Context, userID, labelID string, from, to time.Time) ([]model.TankerEntry, error) {
	var entries []model.TankerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND label_id = ?", userID, labelID).
		Where("date >= ? AND date < ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date ASC").Order("time ASC").Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *entryRepo) SaveDay(ctx context.Context, userID, labelID string, date time.Time, entries []*model.TankerEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			e.UserID = userID
			e.LabelID = labelID
			e.Date = date

			if e.EntryID == "" {
				if err := tx.Create(e).Error; err != nil {
					return err
				}
				continue
			}

			result := tx.Model(&model.TankerEntry{}).
				Where("entry_id = ? AND user_id = ? AND label_id = ?", e.EntryID, userID, labelID).
				Updates(map[string]interface{}{
					"date":          e.Date,
					"time":          e.Time,
					"cash_amount":   e.CashAmount,
					"total_tankers": e.TotalTankers,
					"driver_status": e.DriverStatus,
					"total_km":      e.TotalKm,
					"cash_taken":    e.CashTaken,
					"notes":         e.Notes,
					"diesel_added":  e.DieselAdded,
					"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *entryRepo) Delete(ctx context.Context, userID, entryID string) error {
	result := r.db.WithContext(ctx).
		Where("entry_id = ? AND user_id = ?", entryID, userID).
		Delete(&model.TankerEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
