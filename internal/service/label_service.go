package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tanker-ledger/internal/dto"
	"tanker-ledger/internal/model"
	"tanker-ledger/internal/repository"
	pkgerrors "tanker-ledger/pkg/errors"
)

// ── 标签模块业务错误 ──

var (
	ErrLabelNotFound        = errors.New("标签不存在")
	ErrLabelNameRequired    = errors.New("标签名称不能为空")
	ErrLabelNameTooLong     = errors.New("标签名称不能超过 100 个字符")
	ErrInvalidLabelColor    = errors.New("颜色须为 #RRGGBB 格式")
	ErrInvalidDieselAverage = errors.New("油耗须为大于 0 的数值")
)

const maxLabelNameRunes = 100

var labelColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// LabelService 标签业务接口
type LabelService interface {
	Create(ctx context.Context, userID string, req *dto.CreateLabelRequest) (*dto.LabelResponse, error)
	GetByID(ctx context.Context, userID, labelID string) (*dto.LabelResponse, error)
	List(ctx context.Context, userID string, req *dto.LabelListRequest) ([]dto.LabelResponse, error)
	Update(ctx context.Context, userID, labelID string, req *dto.UpdateLabelRequest) (*dto.LabelResponse, error)
	SetPinned(ctx context.Context, userID, labelID string, pinned bool) (*dto.LabelResponse, error)
	SetDieselAverage(ctx context.Context, userID, labelID, average string) (*dto.LabelResponse, error)
	Delete(ctx context.Context, userID, labelID string) error
}

type labelService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLabelService 创建 LabelService 实例
func NewLabelService(repo *repository.Repository, logger *zap.Logger) LabelService {
	return &labelService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *labelService) Create(ctx context.Context, userID string, req *dto.CreateLabelRequest) (*dto.LabelResponse, error) {
	name, err := normalizeLabelName(req.Name)
	if err != nil {
		return nil, err
	}
	color := req.Color
	if color == "" {
		color = model.DefaultLabelColor
	}
	if !labelColorPattern.MatchString(color) {
		return nil, ErrInvalidLabelColor
	}

	label := &model.Label{
		UserID:         userID,
		Name:           name,
		Color:          color,
		IsDriverStatus: req.IsDriverStatus,
	}
	if err := s.repo.Label.Create(ctx, label); err != nil {
		s.logger.Error("创建标签失败", zap.Error(err))
		return nil, err
	}

	return toLabelResponse(label), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *labelService) GetByID(ctx context.Context, userID, labelID string) (*dto.LabelResponse, error) {
	label, err := s.get(ctx, userID, labelID)
	if err != nil {
		return nil, err
	}
	return toLabelResponse(label), nil
}

// ────────────────────── List ──────────────────────

func (s *labelService) List(ctx context.Context, userID string, req *dto.LabelListRequest) ([]dto.LabelResponse, error) {
	labels, err := s.repo.Label.List(ctx, userID, req.Search)
	if err != nil {
		s.logger.Error("列出标签失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LabelResponse, 0, len(labels))
	for i := range labels {
		result = append(result, *toLabelResponse(&labels[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

// Update 修改名称、颜色或模式；version 与当前不一致时返回乐观锁冲突
// 切换模式不改写已有条目，汇总时按新模式解读
func (s *labelService) Update(ctx context.Context, userID, labelID string, req *dto.UpdateLabelRequest) (*dto.LabelResponse, error) {
	label, err := s.get(ctx, userID, labelID)
	if err != nil {
		return nil, err
	}
	if label.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.Name != nil {
		name, err := normalizeLabelName(*req.Name)
		if err != nil {
			return nil, err
		}
		label.Name = name
	}
	if req.Color != nil {
		if !labelColorPattern.MatchString(*req.Color) {
			return nil, ErrInvalidLabelColor
		}
		label.Color = *req.Color
	}
	if req.IsDriverStatus != nil {
		label.IsDriverStatus = *req.IsDriverStatus
	}

	if err := s.repo.Label.Update(ctx, label); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("更新标签失败", zap.String("label_id", labelID), zap.Error(err))
		return nil, err
	}

	return toLabelResponse(label), nil
}

// ────────────────────── SetPinned ──────────────────────

func (s *labelService) SetPinned(ctx context.Context, userID, labelID string, pinned bool) (*dto.LabelResponse, error) {
	if err := s.repo.Label.SetPinned(ctx, userID, labelID, pinned); err != nil {
		return nil, s.mapWriteErr(err, labelID, "置顶标签失败")
	}
	return s.GetByID(ctx, userID, labelID)
}

// ────────────────────── SetDieselAverage ──────────────────────

func (s *labelService) SetDieselAverage(ctx context.Context, userID, labelID, average string) (*dto.LabelResponse, error) {
	avg, err := decimal.NewFromString(strings.TrimSpace(average))
	if err != nil || !avg.IsPositive() {
		return nil, ErrInvalidDieselAverage
	}

	if err := s.repo.Label.SetDieselAverage(ctx, userID, labelID, avg.Round(2)); err != nil {
		return nil, s.mapWriteErr(err, labelID, "更新油耗失败")
	}
	return s.GetByID(ctx, userID, labelID)
}

// ────────────────────── Delete ──────────────────────

// Delete 删除标签及其全部条目
func (s *labelService) Delete(ctx context.Context, userID, labelID string) error {
	if err := s.repo.Label.Delete(ctx, userID, labelID); err != nil {
		return s.mapWriteErr(err, labelID, "删除标签失败")
	}
	s.logger.Info("标签已删除", zap.String("label_id", labelID), zap.String("user_id", userID))
	return nil
}

// ────────────────────── 内部方法 ──────────────────────

func (s *labelService) get(ctx context.Context, userID, labelID string) (*model.Label, error) {
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

func (s *labelService) mapWriteErr(err error, labelID, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrLabelNotFound
	}
	s.logger.Error(msg, zap.String("label_id", labelID), zap.Error(err))
	return err
}

func normalizeLabelName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrLabelNameRequired
	}
	if len([]rune(name)) > maxLabelNameRunes {
		return "", ErrLabelNameTooLong
	}
	return name, nil
}

func toLabelResponse(l *model.Label) *dto.LabelResponse {
	return &dto.LabelResponse{
		ID:             l.LabelID,
		Name:           l.Name,
		Color:          l.Color,
		IsDriverStatus: l.IsDriverStatus,
		IsPinned:       l.IsPinned,
		DieselAverage:  l.DieselAverage.StringFixed(2),
		Version:        l.Version,
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      l.UpdatedAt.Format(time.RFC3339),
	}
}
