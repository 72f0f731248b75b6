package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tanker-ledger/internal/ledger"
)

// ── 测试辅助 ──

func writeEntries(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entries.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	return path
}

const driverMonth = `[
  {"date":"2024-03-05","time":"09:30","cash_amount":1500,"total_tankers":2,"driver_status":"present","total_km":"120.5"},
  {"date":"2024-03-05","time":"14:00","cash_amount":"500","driver_status":"present","diesel_added":40},
  {"date":"2024-03-12","time":"08:00","driver_status":"absent","notes":"sick"},
  {"date":"2024-04-01","time":"08:00","driver_status":"present"}
]`

// ── report 子命令 ──

func TestReportCmd_WritesPDF(t *testing.T) {
	out := t.TempDir()
	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{
		"report", "--label", "Ravi Kumar", "--driver",
		"--year", "2024", "--month", "3",
		"--entries", writeEntries(t, driverMonth),
		"--out", out,
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("生成报表应成功: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "Ravi_Kumar_March_2024_Summary.pdf"))
	if err != nil {
		t.Fatalf("应写出 PDF 文件: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("输出应为 PDF")
	}
	if !strings.Contains(stdout.String(), "Ravi_Kumar_March_2024_Summary.pdf") {
		t.Errorf("应输出文件路径，实际: %s", stdout.String())
	}
}

func TestReportCmd_ICSOnlyTargetMonth(t *testing.T) {
	out := t.TempDir()
	path, err := runReport(&reportOptions{
		label: "Depot", driver: true, year: 2024, month: 3,
		entries: writeEntries(t, driverMonth), format: "ics", out: out,
		currency: "Rs.", threshold: 270, timezone: "UTC",
		now: func() time.Time { return time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("生成 ics 应成功: %v", err)
	}

	data, _ := os.ReadFile(path)
	if got := strings.Count(string(data), "BEGIN:VEVENT"); got != 2 {
		t.Errorf("三月共 2 天有条目，实际事件数 %d", got)
	}
}

func TestReportCmd_ValidationErrorHasPosition(t *testing.T) {
	_, err := runReport(&reportOptions{
		label: "Depot", year: 2024, month: 3,
		entries: writeEntries(t, `[{"date":"2024-03-01","time":"09:00"},{"date":"2024-03-02","time":"10:00","cash_amount":"-1"}]`),
		format:  "pdf", out: t.TempDir(), currency: "Rs.", threshold: 270, timezone: "UTC", now: time.Now,
	})

	ve, ok := err.(*ledger.ValidationError)
	if !ok {
		t.Fatalf("期望 ValidationError，实际: %v", err)
	}
	if ve.Index != 2 {
		t.Errorf("期望第 2 条失败，实际 %d", ve.Index)
	}
}

func TestReportCmd_BadFormat(t *testing.T) {
	_, err := runReport(&reportOptions{
		label: "Depot", year: 2024, month: 3, entries: writeEntries(t, `[]`),
		format: "docx", out: t.TempDir(), timezone: "UTC", now: time.Now,
	})
	if err == nil {
		t.Error("未知格式应报错")
	}
}

func TestReportCmd_MissingRequiredFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "--label", "Depot"})

	if err := cmd.Execute(); err == nil {
		t.Error("缺少必填参数应报错")
	}
}

func TestMonthEntries_FiltersAndSortsByDateTime(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC) }
	note := func(s string) *string { return &s }
	entries := []ledger.Entry{
		{Date: day(12), Time: "08:00", Notes: note("c")},
		{Date: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), Time: "07:00", Notes: note("april")},
		{Date: day(5), Time: "14:00", Notes: note("b")},
		{Date: day(5), Time: "09:30", Notes: note("a")},
		{Date: day(12), Time: "08:00", Notes: note("d")},
	}

	got := monthEntries(entries, 2024, time.March)
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("期望 %d 条，实际=%d", len(want), len(got))
	}
	for i, e := range got {
		if *e.Notes != want[i] {
			t.Errorf("第 %d 条期望 %s，实际=%s", i, want[i], *e.Notes)
		}
	}
}
