// Package report 月度汇总报表
//
// 流程：Build 将 (标签, 月汇总) 组装为与输出格式无关的 Report，
// Paginate 在 mm 坐标系中完成排版与分页，最后由 PDF / XLSX / ICS 后端输出字节。
package report

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"tanker-ledger/internal/ledger"
)

// ErrGeneration 报表生成失败，调用方不会拿到任何部分输出
var ErrGeneration = errors.New("报表生成失败")

// Format 导出格式
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatICS  Format = "ics"
)

// ParseFormat 解析导出格式，空串视为 pdf
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatICS:
		return FormatICS, nil
	}
	return "", fmt.Errorf("不支持的导出格式: %s", s)
}

// ContentType 对应的 MIME 类型
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatICS:
		return "text/calendar; charset=utf-8"
	default:
		return "application/pdf"
	}
}

// Options 报表渲染参数
type Options struct {
	CurrencySymbol string
	GeneratedAt    time.Time // 已转换到展示时区
}

// Column 表格列；Weight 为相对宽度
type Column struct {
	Title  string
	Weight float64
}

var (
	driverColumns = []Column{
		{"#", 10}, {"Time", 20}, {"Status", 24}, {"Tankers", 22},
		{"KM", 24}, {"Cash Taken", 32}, {"Notes", 50},
	}
	tankerColumns = []Column{
		{"#", 20}, {"Time", 50}, {"Tankers", 50}, {"Cash Amount", 62},
	}
)

// Report 与输出格式无关的报表内容
type Report struct {
	Label       ledger.Label
	Year        int
	Month       time.Month
	Title       string
	Summary     []string
	Generated   string
	GeneratedAt time.Time
	Columns     []Column
	Sections    []Section
	Totals      ledger.Totals
	Currency    string
}

// Section 单日小节
type Section struct {
	Day     int
	Date    time.Time
	Heading string
	Rows    [][]string
	Totals  ledger.Totals
	Notes   []string // 当日非空备注，供概览使用
}

// Build 由月汇总构建报表；日小节按日数值升序
func Build(label ledger.Label, m ledger.MonthlyRollup, opts Options) *Report {
	cur := opts.CurrencySymbol
	r := &Report{
		Label:       label,
		Year:        m.Year,
		Month:       m.Month,
		Title:       fmt.Sprintf("%s - %s %d Summary", label.Name, m.Month, m.Year),
		Generated:   "Generated on: " + opts.GeneratedAt.Format("January 2, 2006, 3:04 PM"),
		GeneratedAt: opts.GeneratedAt,
		Totals:      m.Totals,
		Currency:    cur,
	}

	r.Summary = []string{fmt.Sprintf("Total Tankers: %d", m.TotalTankers)}
	if label.IsDriverStatus() {
		r.Columns = driverColumns
		r.Summary = append(r.Summary,
			"Total KM: "+m.TotalKm.StringFixed(2),
			"Total Cash Taken: "+cur+m.TotalCashTaken.StringFixed(2),
			fmt.Sprintf("Present Days: %d", m.PresentCount),
			fmt.Sprintf("Absent Days: %d", m.AbsentCount),
		)
	} else {
		r.Columns = tankerColumns
		r.Summary = append(r.Summary, "Total Cash: "+cur+m.TotalCash.StringFixed(2))
	}

	for _, d := range m.Days() {
		r.Sections = append(r.Sections, buildSection(label, d, m.Year, m.Month, cur))
	}
	return r
}

func buildSection(label ledger.Label, d ledger.DailyRollup, year int, month time.Month, cur string) Section {
	date := d.Date(year, month)
	s := Section{Day: d.Day, Date: date, Totals: d.Totals}

	heading := fmt.Sprintf("%s - %d Tankers", date.Format("January 2, 2006"), d.TotalTankers)
	if label.IsDriverStatus() {
		heading += fmt.Sprintf(" - %s KM - %s%s taken", d.TotalKm.String(), cur, d.TotalCashTaken.StringFixed(2))
		if d.PresentCount > 0 {
			heading += " - Present"
		}
		if d.AbsentCount > 0 {
			heading += " - Absent"
		}
	} else {
		heading += " - " + cur + d.TotalCash.StringFixed(2)
	}
	s.Heading = heading

	for i, e := range d.Entries {
		idx := strconv.Itoa(i + 1)
		tankers := strconv.Itoa(e.TankerCount())
		if label.IsDriverStatus() {
			status := "-"
			if e.DriverStatus != ledger.StatusNone {
				status = string(e.DriverStatus)
			}
			notes := "-"
			if e.Notes != nil && *e.Notes != "" {
				notes = *e.Notes
				s.Notes = append(s.Notes, notes)
			}
			km := "-"
			if e.TotalKm.Valid {
				km = e.TotalKm.Decimal.StringFixed(2)
			}
			s.Rows = append(s.Rows, []string{idx, e.Time, status, tankers, km, money(cur, e.CashTaken), notes})
		} else {
			s.Rows = append(s.Rows, []string{idx, e.Time, tankers, money(cur, e.CashAmount)})
		}
	}
	return s
}

// money 空值或 0 显示为 "-"
func money(cur string, d decimal.NullDecimal) string {
	if !d.Valid || d.Decimal.IsZero() {
		return "-"
	}
	return cur + d.Decimal.StringFixed(2)
}

// DayStatus 当日出勤概况
func (s Section) DayStatus() ledger.DriverStatus { return s.Totals.DayStatus() }

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename 导出文件名：标签名中的连续空白替换为下划线
func Filename(labelName string, year int, month time.Month, format Format) string {
	if format == "" {
		format = FormatPDF
	}
	base := whitespaceRun.ReplaceAllString(labelName, "_")
	return fmt.Sprintf("%s_%s_%d_Summary.%s", base, month, year, format)
}
