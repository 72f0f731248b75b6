package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ── 条目模块 DTO ──

// FlexString 表单字段：接受 JSON 字符串、数字或 null，统一保存为文本
// null 与空串等价，数值保留原始字面量交给规范化处理
type FlexString string

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*f = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
	case s == "true" || s == "false" || strings.HasPrefix(s, "{") || strings.HasPrefix(s, "["):
		return fmt.Errorf("不支持的字段值: %s", s)
	default:
		*f = FlexString(s)
	}
	return nil
}

// EntryInput 单行表单：新行不带 id，编辑行带 id
type EntryInput struct {
	ID           string     `json:"id"            binding:"omitempty,uuid"`
	Time         FlexString `json:"time"`
	CashAmount   FlexString `json:"cash_amount"`
	TotalTankers FlexString `json:"total_tankers"`
	DriverStatus FlexString `json:"driver_status"`
	TotalKm      FlexString `json:"total_km"`
	CashTaken    FlexString `json:"cash_taken"`
	Notes        FlexString `json:"notes"`
	DieselAdded  FlexString `json:"diesel_added"`
}

// SaveDayRequest 批量保存某日条目
type SaveDayRequest struct {
	Date    string       `json:"date"    binding:"required,datetime=2006-01-02"`
	Entries []EntryInput `json:"entries" binding:"required,min=1,max=200,dive"`
}

// DayQuery 按日查询条目
type DayQuery struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// EntryResponse 条目响应；可空数值以字符串形式返回，null 表示未填写
type EntryResponse struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	CashAmount   *string `json:"cash_amount"`
	TotalTankers *int    `json:"total_tankers"`
	TankerCount  int     `json:"tanker_count"`
	DriverStatus *string `json:"driver_status"`
	TotalKm      *string `json:"total_km"`
	CashTaken    *string `json:"cash_taken"`
	Notes        *string `json:"notes"`
	DieselAdded  *string `json:"diesel_added"`
}

// SaveDayResponse 批量保存结果
type SaveDayResponse struct {
	Date    string          `json:"date"`
	Entries []EntryResponse `json:"entries"`
}
