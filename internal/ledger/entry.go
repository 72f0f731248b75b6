// Package ledger 月度汇总核心：条目规范化、按日汇总、按月汇总。
//
// 本包只做纯计算，不访问存储也不持有可变状态：
// 输入为 (标签模式, 条目快照)，输出为全新的汇总结构。
package ledger

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Mode 标签模式：决定哪些条目字段有意义、报表使用哪套列
type Mode string

const (
	ModeTankerCount  Mode = "tanker_count"
	ModeDriverStatus Mode = "driver_status"
)

// ModeOf 由标签的 is_driver_status 标志得到模式
func ModeOf(isDriverStatus bool) Mode {
	if isDriverStatus {
		return ModeDriverStatus
	}
	return ModeTankerCount
}

// Label 汇总与报表所需的标签描述
type Label struct {
	Name string
	Mode Mode
}

// IsDriverStatus 是否司机出勤模式
func (l Label) IsDriverStatus() bool { return l.Mode == ModeDriverStatus }

// DriverStatus 司机出勤状态，空串表示未填写
type DriverStatus string

const (
	StatusNone    DriverStatus = ""
	StatusPresent DriverStatus = "present"
	StatusAbsent  DriverStatus = "absent"
)

// Entry 规范化后的条目（不可变）
type Entry struct {
	ID           string
	Date         time.Time // UTC 零点
	Time         string    // HH:MM
	CashAmount   decimal.NullDecimal
	TotalTankers *int
	DriverStatus DriverStatus
	TotalKm      decimal.NullDecimal
	CashTaken    decimal.NullDecimal
	Notes        *string
	DieselAdded  decimal.NullDecimal
}

// Day 条目所属的日（1-31）
func (e Entry) Day() int { return e.Date.Day() }

// TankerCount 条目的有效罐车数
func (e Entry) TankerCount() int { return TankerCount(e.TotalTankers, e.DriverStatus) }

// TankerCount 有效罐车数规则：
// 填写了 total_tankers 时取其值；否则缺勤记 0，其余记 1
func TankerCount(totalTankers *int, status DriverStatus) int {
	if totalTankers != nil {
		return *totalTankers
	}
	if status == StatusAbsent {
		return 0
	}
	return 1
}

// RawEntry 来自表单或 JSON 的原始条目，全部字段为文本，空串即 null
type RawEntry struct {
	ID           string
	Date         string
	Time         string
	CashAmount   string
	TotalTankers string
	DriverStatus string
	TotalKm      string
	CashTaken    string
	Notes        string
	DieselAdded  string
}

// ValidationError 条目校验失败
// Index 为批量中的 1 起始序号，单条校验时为 0
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	subject := "entry"
	if e.Index > 0 {
		subject = fmt.Sprintf("Entry #%d", e.Index)
	}
	return fmt.Sprintf("%s %s.", subject, e.Reason)
}

var (
	timePattern  = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])(:[0-5][0-9])?$`)
	floatPrefix  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	intPrefix    = regexp.MustCompile(`^[+-]?\d+`)
	dateLayout   = "2006-01-02"
	maxNotesRune = 500
)

// 与存储列精度一致：金额与公里为 NUMERIC(12,2)，加油量为 NUMERIC(10,2)，罐车数为 INT
const (
	amountScale = 2
	maxCount    = math.MaxInt32
)

var (
	amountLimit = decimal.New(1, 10)
	dieselLimit = decimal.New(1, 8)
)

// Normalize 校验并转换单条原始条目
//
// 非司机出勤模式下，仅属于司机出勤的字段（状态、公里、取现、备注、加油量）
// 在校验后被置空，它们只在司机出勤标签下参与汇总。
func Normalize(raw RawEntry, mode Mode) (Entry, error) {
	e := Entry{ID: raw.ID}

	dateText := strings.TrimSpace(raw.Date)
	if dateText == "" {
		return Entry{}, &ValidationError{Field: "date", Reason: "is missing a date"}
	}
	date, err := time.Parse(dateLayout, dateText)
	if err != nil {
		return Entry{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("has an invalid date %q", dateText)}
	}
	e.Date = date

	timeText := strings.TrimSpace(raw.Time)
	if timeText == "" {
		return Entry{}, &ValidationError{Field: "time", Reason: "is missing a time"}
	}
	m := timePattern.FindStringSubmatch(timeText)
	if m == nil {
		return Entry{}, &ValidationError{Field: "time", Reason: fmt.Sprintf("has an invalid time %q", timeText)}
	}
	hour, _ := strconv.Atoi(m[1])
	e.Time = fmt.Sprintf("%02d:%s", hour, m[2])

	switch DriverStatus(strings.TrimSpace(raw.DriverStatus)) {
	case StatusNone:
		e.DriverStatus = StatusNone
	case StatusPresent:
		e.DriverStatus = StatusPresent
	case StatusAbsent:
		e.DriverStatus = StatusAbsent
	default:
		return Entry{}, &ValidationError{Field: "driver_status", Reason: fmt.Sprintf("has an invalid driver status %q", raw.DriverStatus)}
	}
	if mode == ModeDriverStatus && e.DriverStatus == StatusNone {
		return Entry{}, &ValidationError{Field: "driver_status", Reason: "is missing a driver status"}
	}

	if e.CashAmount, err = parseAmount("cash_amount", raw.CashAmount, amountLimit); err != nil {
		return Entry{}, err
	}
	if e.TotalKm, err = parseAmount("total_km", raw.TotalKm, amountLimit); err != nil {
		return Entry{}, err
	}
	if e.CashTaken, err = parseAmount("cash_taken", raw.CashTaken, amountLimit); err != nil {
		return Entry{}, err
	}
	if e.DieselAdded, err = parseAmount("diesel_added", raw.DieselAdded, dieselLimit); err != nil {
		return Entry{}, err
	}
	if e.TotalTankers, err = parseCount("total_tankers", raw.TotalTankers); err != nil {
		return Entry{}, err
	}

	if notes := strings.TrimSpace(raw.Notes); notes != "" {
		if len([]rune(notes)) > maxNotesRune {
			return Entry{}, &ValidationError{Field: "notes", Reason: fmt.Sprintf("has notes longer than %d characters", maxNotesRune)}
		}
		e.Notes = &notes
	}

	return e.ForMode(mode), nil
}

// ForMode 按标签模式投影条目：非司机出勤模式下清空司机专属字段
// 读取已入库条目时同样调用，标签切换模式后旧数据不会污染合计
func (e Entry) ForMode(mode Mode) Entry {
	if mode == ModeDriverStatus {
		return e
	}
	e.DriverStatus = StatusNone
	e.TotalKm = decimal.NullDecimal{}
	e.CashTaken = decimal.NullDecimal{}
	e.Notes = nil
	e.DieselAdded = decimal.NullDecimal{}
	return e
}

// NormalizeAll 批量规范化；任一条失败即返回，错误带 1 起始序号
func NormalizeAll(raws []RawEntry, mode Mode) ([]Entry, error) {
	entries := make([]Entry, 0, len(raws))
	for i, raw := range raws {
		e, err := Normalize(raw, mode)
		if err != nil {
			if ve, ok := err.(*ValidationError); ok {
				ve.Index = i + 1
			}
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// parseAmount 按 parseFloat 前缀语义解析非负小数，保留两位小数
// 空串或无法解析时为 null；负数或舍入后不小于 limit 时报错
func parseAmount(field, text string, limit decimal.Decimal) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	prefix := floatPrefix.FindString(s)
	if prefix == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.Replace(prefix, ".e", "e", 1))
	if err != nil {
		// "12." 这类以小数点结尾的前缀
		d, err = decimal.NewFromString(strings.TrimSuffix(prefix, "."))
		if err != nil {
			return decimal.NullDecimal{}, nil
		}
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, &ValidationError{Field: field, Reason: "has a negative " + field}
	}
	d = d.Round(amountScale)
	if d.GreaterThanOrEqual(limit) {
		return decimal.NullDecimal{}, &ValidationError{Field: field, Reason: fmt.Sprintf("has %s out of range (must be below %s)", field, limit)}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// parseCount 按 parseInt 前缀语义解析非负整数
// 数字前缀一旦存在就不是 null，超出 INT 范围时报错
func parseCount(field, text string) (*int, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, nil
	}
	prefix := intPrefix.FindString(s)
	if prefix == "" {
		return nil, nil
	}
	outOfRange := &ValidationError{Field: field, Reason: fmt.Sprintf("has %s out of range (max %d)", field, maxCount)}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		// 前缀只含数字，失败只可能是溢出
		if strings.HasPrefix(prefix, "-") {
			return nil, &ValidationError{Field: field, Reason: "has a negative " + field}
		}
		return nil, outOfRange
	}
	if n < 0 {
		return nil, &ValidationError{Field: field, Reason: "has a negative " + field}
	}
	if n > maxCount {
		return nil, outOfRange
	}
	return &n, nil
}
