package report

import (
	"strings"
	"testing"
	"time"

	"tanker-ledger/internal/ledger"
)

var fixedNow = time.Date(2024, time.April, 2, 15, 4, 0, 0, time.UTC)

func rollup(t *testing.T, mode ledger.Mode, raws ...ledger.RawEntry) ledger.MonthlyRollup {
	t.Helper()
	entries, err := ledger.NormalizeAll(raws, mode)
	if err != nil {
		t.Fatalf("NormalizeAll 失败: %v", err)
	}
	return ledger.Aggregate(2024, time.March, entries)
}

func TestBuild_TankerMode(t *testing.T) {
	m := rollup(t, ledger.ModeTankerCount,
		ledger.RawEntry{Date: "2024-03-10", Time: "08:00", CashAmount: "100"},
		ledger.RawEntry{Date: "2024-03-02", Time: "10:00", TotalTankers: "3", CashAmount: "0"},
	)
	r := Build(ledger.Label{Name: "Water Supply", Mode: ledger.ModeTankerCount}, m, Options{CurrencySymbol: "Rs.", GeneratedAt: fixedNow})

	if r.Title != "Water Supply - March 2024 Summary" {
		t.Errorf("标题不符: %q", r.Title)
	}
	wantSummary := []string{"Total Tankers: 4", "Total Cash: Rs.100.00"}
	if strings.Join(r.Summary, "|") != strings.Join(wantSummary, "|") {
		t.Errorf("合计行不符: %v", r.Summary)
	}
	if r.Generated != "Generated on: April 2, 2024, 3:04 PM" {
		t.Errorf("生成时间行不符: %q", r.Generated)
	}
	if len(r.Columns) != 4 || r.Columns[3].Title != "Cash Amount" {
		t.Errorf("罐车模式列不符: %v", r.Columns)
	}
	if len(r.Sections) != 2 || r.Sections[0].Day != 2 || r.Sections[1].Day != 10 {
		t.Fatalf("小节应按日升序: %+v", r.Sections)
	}
	if r.Sections[0].Heading != "March 2, 2024 - 3 Tankers - Rs.0.00" {
		t.Errorf("小节标题不符: %q", r.Sections[0].Heading)
	}
	if got := strings.Join(r.Sections[0].Rows[0], ","); got != "1,10:00,3,-" {
		t.Errorf("金额为 0 时应显示 -，实际=%s", got)
	}
	if got := strings.Join(r.Sections[1].Rows[0], ","); got != "1,08:00,1,Rs.100.00" {
		t.Errorf("明细行不符: %s", got)
	}
}

func TestBuild_DriverMode(t *testing.T) {
	m := rollup(t, ledger.ModeDriverStatus,
		ledger.RawEntry{Date: "2024-03-07", Time: "09:00", DriverStatus: "absent"},
		ledger.RawEntry{Date: "2024-03-07", Time: "11:00", DriverStatus: "present", TotalKm: "12.5", CashTaken: "40", Notes: "fuel stop"},
	)
	r := Build(ledger.Label{Name: "Ravi", Mode: ledger.ModeDriverStatus}, m, Options{CurrencySymbol: "Rs.", GeneratedAt: fixedNow})

	want := []string{
		"Total Tankers: 1",
		"Total KM: 12.50",
		"Total Cash Taken: Rs.40.00",
		"Present Days: 1",
		"Absent Days: 1",
	}
	if strings.Join(r.Summary, "|") != strings.Join(want, "|") {
		t.Errorf("合计行不符: %v", r.Summary)
	}
	if len(r.Columns) != 7 {
		t.Errorf("司机模式应有 7 列，实际=%d", len(r.Columns))
	}

	s := r.Sections[0]
	if s.Heading != "March 7, 2024 - 1 Tankers - 12.5 KM - Rs.40.00 taken - Present - Absent" {
		t.Errorf("小节标题不符: %q", s.Heading)
	}
	if got := strings.Join(s.Rows[0], ","); got != "1,09:00,absent,0,-,-,-" {
		t.Errorf("缺勤行不符: %s", got)
	}
	if got := strings.Join(s.Rows[1], ","); got != "2,11:00,present,1,12.50,Rs.40.00,fuel stop" {
		t.Errorf("出勤行不符: %s", got)
	}
	if s.DayStatus() != ledger.StatusPresent {
		t.Errorf("同日有出勤时概况应为 present，实际=%s", s.DayStatus())
	}
}

func TestBuild_Empty(t *testing.T) {
	r := Build(ledger.Label{Name: "Empty", Mode: ledger.ModeTankerCount},
		ledger.Aggregate(2024, time.March, nil), Options{CurrencySymbol: "Rs.", GeneratedAt: fixedNow})
	if len(r.Sections) != 0 {
		t.Error("无条目时不应有小节")
	}
	if r.Summary[0] != "Total Tankers: 0" || r.Summary[1] != "Total Cash: Rs.0.00" {
		t.Errorf("空报表合计不符: %v", r.Summary)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		format Format
		want   string
	}{
		{"单空格", "Water Supply", FormatPDF, "Water_Supply_March_2024_Summary.pdf"},
		{"连续空白", "North  Depot\tTruck", FormatPDF, "North_Depot_Truck_March_2024_Summary.pdf"},
		{"默认格式", "Ravi", "", "Ravi_March_2024_Summary.pdf"},
		{"Excel", "Ravi", FormatXLSX, "Ravi_March_2024_Summary.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.label, 2024, time.March, tt.format); got != tt.want {
				t.Errorf("Filename()=%q，期望 %q", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatPDF {
		t.Errorf("空串应解析为 pdf，实际=%s,%v", f, err)
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Error("不支持的格式应返回错误")
	}
	if FormatICS.ContentType() != "text/calendar; charset=utf-8" {
		t.Errorf("ICS MIME 不符: %s", FormatICS.ContentType())
	}
}
