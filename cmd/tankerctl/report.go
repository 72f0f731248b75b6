package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"tanker-ledger/internal/dto"
	"tanker-ledger/internal/ledger"
	"tanker-ledger/internal/report"
)

// fileEntry 导出 JSON 中的一条记录：日期 + 与 API 相同的条目字段
type fileEntry struct {
	Date string `json:"date"`
	dto.EntryInput
}

type reportOptions struct {
	label     string
	driver    bool
	year      int
	month     int
	entries   string
	format    string
	out       string
	currency  string
	threshold float64
	timezone  string
	now       func() time.Time
}

func newReportCmd() *cobra.Command {
	opts := &reportOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "离线生成月度报表（无需数据库）",
		Example: "  tankerctl report --label \"Ravi Kumar\" --driver --year 2024 --month 3 " +
			"--entries march.json --format pdf --out ./reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := runReport(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已生成 %s\n", path)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.label, "label", "", "标签名称")
	f.BoolVar(&opts.driver, "driver", false, "司机出勤模式")
	f.IntVar(&opts.year, "year", 0, "年份")
	f.IntVar(&opts.month, "month", 0, "月份 1-12")
	f.StringVar(&opts.entries, "entries", "", "条目 JSON 文件（数组）")
	f.StringVar(&opts.format, "format", "pdf", "输出格式 pdf|xlsx|ics")
	f.StringVar(&opts.out, "out", ".", "输出目录")
	f.StringVar(&opts.currency, "currency", "Rs.", "货币符号")
	f.Float64Var(&opts.threshold, "page-threshold", 270, "换页阈值（mm）")
	f.StringVar(&opts.timezone, "timezone", "Asia/Kolkata", "生成时间所用时区")
	for _, name := range []string{"label", "year", "month", "entries"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// runReport 读取条目文件，走规范化与汇总后写出报表，返回输出文件路径
func runReport(opts *reportOptions) (string, error) {
	if opts.month < 1 || opts.month > 12 {
		return "", fmt.Errorf("月份须在 1-12 之间: %d", opts.month)
	}
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return "", err
	}
	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return "", fmt.Errorf("无效的时区 %q: %w", opts.timezone, err)
	}

	raw, err := os.ReadFile(opts.entries)
	if err != nil {
		return "", fmt.Errorf("读取条目文件失败: %w", err)
	}
	var rows []fileEntry
	if err := json.Unmarshal(raw, &rows); err != nil {
		return "", fmt.Errorf("解析条目文件失败: %w", err)
	}

	mode := ledger.ModeOf(opts.driver)
	raws := make([]ledger.RawEntry, 0, len(rows))
	for _, r := range rows {
		raws = append(raws, ledger.RawEntry{
			ID:           r.ID,
			Date:         r.Date,
			Time:         string(r.Time),
			CashAmount:   string(r.CashAmount),
			TotalTankers: string(r.TotalTankers),
			DriverStatus: string(r.DriverStatus),
			TotalKm:      string(r.TotalKm),
			CashTaken:    string(r.CashTaken),
			Notes:        string(r.Notes),
			DieselAdded:  string(r.DieselAdded),
		})
	}
	entries, err := ledger.NormalizeAll(raws, mode)
	if err != nil {
		return "", err
	}

	month := time.Month(opts.month)
	inMonth := monthEntries(entries, opts.year, month)

	gen := report.NewGenerator(opts.currency, opts.threshold)
	doc, err := gen.Generate(
		ledger.Label{Name: opts.label, Mode: mode},
		ledger.Aggregate(opts.year, month, inMonth),
		format,
		report.Options{GeneratedAt: opts.now().In(loc)},
	)
	if err != nil {
		return "", fmt.Errorf("生成报表失败: %w", err)
	}

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(opts.out, doc.Filename)
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return "", fmt.Errorf("写入报表失败: %w", err)
	}
	return path, nil
}

// monthEntries 只保留目标月份的条目，并按日期、时间排序
// 与服务端查询的 ORDER BY date, time 一致；同一时刻保持文件中的先后顺序
func monthEntries(entries []ledger.Entry, year int, month time.Month) []ledger.Entry {
	inMonth := entries[:0]
	for _, e := range entries {
		if e.Date.Year() == year && e.Date.Month() == month {
			inMonth = append(inMonth, e)
		}
	}
	sort.SliceStable(inMonth, func(i, j int) bool {
		if !inMonth[i].Date.Equal(inMonth[j].Date) {
			return inMonth[i].Date.Before(inMonth[j].Date)
		}
		return inMonth[i].Time < inMonth[j].Time
	})
	return inMonth
}
