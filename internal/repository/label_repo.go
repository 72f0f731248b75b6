package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tanker-ledger/internal/model"
	pkgerrors "tanker-ledger/pkg/errors"
)

// LabelRepository 标签数据访问接口
// 所有查询均按 user_id 限定范围
type LabelRepository interface {
	Create(ctx context.Context, label *model.Label) error
	GetByID(ctx context.Context, userID, labelID string) (*model.Label, error)
	List(ctx context.Context, userID, search string) ([]model.Label, error)
	Update(ctx context.Context, label *model.Label) error
	SetPinned(ctx context.Context, userID, labelID string, pinned bool) error
	SetDieselAverage(ctx context.Context, userID, labelID string, avg decimal.Decimal) error
	Delete(ctx context.Context, userID, labelID string) error
}

type labelRepo struct {
	db *gorm.DB
}

// NewLabelRepo 创建 LabelRepository 实例
func NewLabelRepo(db *gorm.DB) LabelRepository {
	return &labelRepo{db: db}
}

func (r *labelRepo) Create(ctx context.Context, label *model.Label) error {
	return r.db.WithContext(ctx).Create(label).Error
}

func (r *labelRepo) GetByID(ctx context.Context, userID, labelID string) (*model.Label, error) {
	var label model.Label
	err := r.db.WithContext(ctx).
		Where("label_id = ? AND user_id = ?", labelID, userID).
		First(&label).Error
	if err != nil {
		return nil, err
	}
	return &label, nil
}

// List 置顶优先，其次按名称排序；search 按名称模糊匹配（不区分大小写）
func (r *labelRepo) List(ctx context.Context, userID, search string) ([]model.Label, error) {
	var labels []model.Label
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if s := strings.TrimSpace(search); s != "" {
		db = db.Where("name ILIKE ?", "%"+escapeLike(s)+"%")
	}
	err := db.Order("is_pinned DESC").Order("name ASC").Find(&labels).Error
	return labels, err
}

// Update 乐观锁更新名称、颜色与模式
func (r *labelRepo) Update(ctx context.Context, label *model.Label) error {
	oldVersion := label.Version
	result := r.db.WithContext(ctx).
		Model(&model.Label{}).
		Where("label_id = ? AND user_id = ? AND version = ?", label.LabelID, label.UserID, oldVersion).
		Updates(map[string]interface{}{
			"name":             label.Name,
			"color":            label.Color,
			"is_driver_status": label.IsDriverStatus,
			"version":          oldVersion + 1,
			"updated_at":       gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	label.Version = oldVersion + 1
	return nil
}

func (r *labelRepo) SetPinned(ctx context.Context, userID, labelID string, pinned bool) error {
	return r.updateColumn(ctx, userID, labelID, "is_pinned", pinned)
}

func (r *labelRepo) SetDieselAverage(ctx context.Context, userID, labelID string, avg decimal.Decimal) error {
	return r.updateColumn(ctx, userID, labelID, "diesel_average", avg)
}

func (r *labelRepo) updateColumn(ctx context.Context, userID, labelID, column string, value interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Label{}).
		Where("label_id = ? AND user_id = ?", labelID, userID).
		Updates(map[string]interface{}{
			column:       value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除标签，条目由外键级联删除
func (r *labelRepo) Delete(ctx context.Context, userID, labelID string) error {
	result := r.db.WithContext(ctx).
		Where("label_id = ? AND user_id = ?", labelID, userID).
		Delete(&model.Label{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
