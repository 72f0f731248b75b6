package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Totals 日汇总与月汇总共用的累加字段
type Totals struct {
	TotalTankers     int
	TotalCash        decimal.Decimal
	TotalKm          decimal.Decimal
	TotalCashTaken   decimal.Decimal
	TotalDieselAdded decimal.Decimal
	PresentCount     int
	AbsentCount      int
}

// Plus 返回两份合计之和，不修改接收者
func (t Totals) Plus(o Totals) Totals {
	return Totals{
		TotalTankers:     t.TotalTankers + o.TotalTankers,
		TotalCash:        t.TotalCash.Add(o.TotalCash),
		TotalKm:          t.TotalKm.Add(o.TotalKm),
		TotalCashTaken:   t.TotalCashTaken.Add(o.TotalCashTaken),
		TotalDieselAdded: t.TotalDieselAdded.Add(o.TotalDieselAdded),
		PresentCount:     t.PresentCount + o.PresentCount,
		AbsentCount:      t.AbsentCount + o.AbsentCount,
	}
}

// Equal 逐字段比较，小数按数值比较
func (t Totals) Equal(o Totals) bool {
	return t.TotalTankers == o.TotalTankers &&
		t.TotalCash.Equal(o.TotalCash) &&
		t.TotalKm.Equal(o.TotalKm) &&
		t.TotalCashTaken.Equal(o.TotalCashTaken) &&
		t.TotalDieselAdded.Equal(o.TotalDieselAdded) &&
		t.PresentCount == o.PresentCount &&
		t.AbsentCount == o.AbsentCount
}

// DayStatus 出勤概况：有出勤记录时优先为 present
func (t Totals) DayStatus() DriverStatus {
	switch {
	case t.PresentCount > 0:
		return StatusPresent
	case t.AbsentCount > 0:
		return StatusAbsent
	}
	return StatusNone
}

// addEntry 累加单条条目；各字段独立累加，与标签模式无关
func (t Totals) addEntry(e Entry) Totals {
	t.TotalTankers += e.TankerCount()
	t.TotalCash = t.TotalCash.Add(orZero(e.CashAmount))
	t.TotalKm = t.TotalKm.Add(orZero(e.TotalKm))
	t.TotalCashTaken = t.TotalCashTaken.Add(orZero(e.CashTaken))
	t.TotalDieselAdded = t.TotalDieselAdded.Add(orZero(e.DieselAdded))
	switch e.DriverStatus {
	case StatusPresent:
		t.PresentCount++
	case StatusAbsent:
		t.AbsentCount++
	}
	return t
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// ── 日汇总 ──

// DailyRollup 单日汇总
type DailyRollup struct {
	Day     int
	Entries []Entry // 保持输入顺序
	Totals
}

// Key 两位补零的日键，如 "05"
func (d DailyRollup) Key() string { return DayKey(d.Day) }

// Date 该日的日期
func (d DailyRollup) Date(year int, month time.Month) time.Time {
	return time.Date(year, month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DayKey 日键格式化
func DayKey(day int) string { return fmt.Sprintf("%02d", day) }

// AggregateDays 将单标签单月的条目按日分组并汇总
// 返回顺序为各日首次出现的顺序，需要按日排序时由调用方处理
func AggregateDays(entries []Entry) []DailyRollup {
	index := make(map[int]int)
	var days []DailyRollup
	for _, e := range entries {
		day := e.Day()
		i, ok := index[day]
		if !ok {
			i = len(days)
			index[day] = i
			days = append(days, DailyRollup{Day: day})
		}
		days[i].Entries = append(days[i].Entries, e)
		days[i].Totals = days[i].Totals.addEntry(e)
	}
	return days
}

// ── 月汇总 ──

// MonthlyRollup 单标签单月汇总
type MonthlyRollup struct {
	Year  int
	Month time.Month
	Totals
	days map[string]DailyRollup
}

// FoldMonth 将日汇总折叠为月汇总
// 同一天出现多次时合并，条目按输入顺序拼接
func FoldMonth(year int, month time.Month, days []DailyRollup) MonthlyRollup {
	m := MonthlyRollup{
		Year:  year,
		Month: month,
		days:  make(map[string]DailyRollup, len(days)),
	}
	for _, d := range days {
		m.Totals = m.Totals.Plus(d.Totals)

		key := d.Key()
		if prev, ok := m.days[key]; ok {
			entries := make([]Entry, 0, len(prev.Entries)+len(d.Entries))
			entries = append(entries, prev.Entries...)
			entries = append(entries, d.Entries...)
			d = DailyRollup{Day: d.Day, Entries: entries, Totals: prev.Totals.Plus(d.Totals)}
		}
		m.days[key] = d
	}
	return m
}

// Aggregate 条目直接到月汇总的便捷入口
func Aggregate(year int, month time.Month, entries []Entry) MonthlyRollup {
	return FoldMonth(year, month, AggregateDays(entries))
}

// Days 按日数值升序返回日汇总（"2" 在 "10" 之前）
func (m MonthlyRollup) Days() []DailyRollup {
	out := make([]DailyRollup, 0, len(m.days))
	for _, d := range m.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Day 按日键查找
func (m MonthlyRollup) Day(key string) (DailyRollup, bool) {
	d, ok := m.days[key]
	return d, ok
}

// Len 有数据的天数
func (m MonthlyRollup) Len() int { return len(m.days) }

// ── 日历辅助 ──

// DaysInMonth 某月天数
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange 返回 [当月第一天, 下月第一天)
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
