package model

import "github.com/shopspring/decimal"

// DefaultLabelColor 新建标签的默认颜色
const DefaultLabelColor = "#EF4444"

// Label 标签表：对应 labels
// IsDriverStatus 为 true 时为司机出勤标签，否则为罐车计数标签
type Label struct {
	LabelID        string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"label_id"`
	UserID         string          `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Name           string          `gorm:"type:varchar(100);not null"                     json:"name"`
	Color          string          `gorm:"type:varchar(7);not null;default:'#EF4444'"     json:"color"`
	IsDriverStatus bool            `gorm:"not null;default:false"                         json:"is_driver_status"`
	IsPinned       bool            `gorm:"not null;default:false"                         json:"is_pinned"`
	DieselAverage  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"          json:"diesel_average"`
	VersionedModel
}

// TableName 指定表名
func (Label) TableName() string { return "labels" }
