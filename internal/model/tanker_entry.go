package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TankerEntry 条目表：对应 tanker_entries
// 可空数值列使用 decimal.NullDecimal，空值与 0 严格区分
type TankerEntry struct {
	EntryID      string              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	LabelID      string              `gorm:"type:uuid;not null;index:idx_entries_label_date,priority:1" json:"label_id"`
	UserID       string              `gorm:"type:uuid;not null"                             json:"user_id"`
	Date         time.Time           `gorm:"type:date;not null;index:idx_entries_label_date,priority:2" json:"date"`
	Time         string              `gorm:"type:varchar(5);not null"                       json:"time"`
	CashAmount   decimal.NullDecimal `gorm:"type:numeric(12,2)"                             json:"cash_amount"`
	TotalTankers *int                `gorm:"type:int"                                       json:"total_tankers"`
	DriverStatus *string             `gorm:"type:varchar(10)"                               json:"driver_status"`
	TotalKm      decimal.NullDecimal `gorm:"type:numeric(12,2)"                             json:"total_km"`
	CashTaken    decimal.NullDecimal `gorm:"type:numeric(12,2)"                             json:"cash_taken"`
	Notes        *string             `gorm:"type:text"                                      json:"notes"`
	DieselAdded  decimal.NullDecimal `gorm:"type:numeric(10,2)"                             json:"diesel_added"`
	BaseModel

	// 关联
	Label *Label `gorm:"foreignKey:LabelID;references:LabelID" json:"-"`
}

// TableName 指定表名
func (TankerEntry) TableName() string { return "tanker_entries" }
