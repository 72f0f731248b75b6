package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func intPtr(n int) *int { return &n }

// ── 有效罐车数 ──

func TestTankerCount(t *testing.T) {
	tests := []struct {
		name   string
		total  *int
		status DriverStatus
		want   int
	}{
		{"填写数量优先", intPtr(3), StatusAbsent, 3},
		{"填写 0", intPtr(0), StatusPresent, 0},
		{"未填写且出勤", nil, StatusPresent, 1},
		{"未填写且无状态", nil, StatusNone, 1},
		{"未填写且缺勤", nil, StatusAbsent, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TankerCount(tt.total, tt.status); got != tt.want {
				t.Errorf("TankerCount()=%d，期望 %d", got, tt.want)
			}
		})
	}
}

// ── 单条规范化 ──

func TestNormalize_EmptyOptionalFieldsAreNull(t *testing.T) {
	e, err := Normalize(RawEntry{
		Date: "2024-03-05", Time: "08:00",
		CashAmount: "", TotalTankers: "", TotalKm: "", CashTaken: "", DieselAdded: "",
		DriverStatus: "present",
	}, ModeDriverStatus)
	if err != nil {
		t.Fatalf("Normalize 应成功: %v", err)
	}
	if e.CashAmount.Valid || e.TotalKm.Valid || e.CashTaken.Valid || e.DieselAdded.Valid {
		t.Error("空串数值字段应为 null")
	}
	if e.TotalTankers != nil {
		t.Error("空串 total_tankers 应为 null")
	}
	if e.Notes != nil {
		t.Error("空备注应为 null")
	}
}

func TestNormalize_PrefixParsing(t *testing.T) {
	e, err := Normalize(RawEntry{
		Date: "2024-03-05", Time: "9:05",
		CashAmount: " 120.50 rupees", TotalTankers: "3.7", TotalKm: "12.5km",
		CashTaken: "abc", DriverStatus: "present",
	}, ModeDriverStatus)
	if err != nil {
		t.Fatalf("Normalize 应成功: %v", err)
	}
	if e.Time != "09:05" {
		t.Errorf("期望时间补零为 09:05，实际=%s", e.Time)
	}
	if !e.CashAmount.Valid || !e.CashAmount.Decimal.Equal(decimal.RequireFromString("120.5")) {
		t.Errorf("期望 cash_amount=120.5，实际=%v", e.CashAmount)
	}
	if e.TotalTankers == nil || *e.TotalTankers != 3 {
		t.Errorf("期望 total_tankers 取整数前缀 3，实际=%v", e.TotalTankers)
	}
	if !e.TotalKm.Valid || !e.TotalKm.Decimal.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("期望 total_km=12.5，实际=%v", e.TotalKm)
	}
	if e.CashTaken.Valid {
		t.Error("无法解析的可选字段应为 null")
	}
}

func TestNormalize_NaNAndInfinityAreNull(t *testing.T) {
	e, err := Normalize(RawEntry{
		Date: "2024-03-05", Time: "08:00", CashAmount: "NaN", TotalTankers: "Infinity",
	}, ModeTankerCount)
	if err != nil {
		t.Fatalf("Normalize 应成功: %v", err)
	}
	if e.CashAmount.Valid {
		t.Error("NaN 应规范化为 null")
	}
	if e.TotalTankers != nil {
		t.Error("Infinity 应规范化为 null")
	}
}

func TestNormalize_TrailingDotAndExponent(t *testing.T) {
	e, err := Normalize(RawEntry{
		Date: "2024-03-05", Time: "08:00", CashAmount: "12.",
	}, ModeTankerCount)
	if err != nil {
		t.Fatalf("Normalize 应成功: %v", err)
	}
	if !e.CashAmount.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Errorf("期望 12，实际=%s", e.CashAmount.Decimal)
	}

	e, err = Normalize(RawEntry{
		Date: "2024-03-05", Time: "08:00", CashAmount: "1.5e2",
	}, ModeTankerCount)
	if err != nil {
		t.Fatalf("Normalize 应成功: %v", err)
	}
	if !e.CashAmount.Decimal.Equal(decimal.NewFromInt(150)) {
		t.Errorf("期望 150，实际=%s", e.CashAmount.Decimal)
	}
}

func TestNormalize_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawEntry
		mode  Mode
		field string
	}{
		{"缺少时间", RawEntry{Date: "2024-03-05"}, ModeTankerCount, "time"},
		{"时间格式错误", RawEntry{Date: "2024-03-05", Time: "25:00"}, ModeTankerCount, "time"},
		{"缺少日期", RawEntry{Time: "08:00"}, ModeTankerCount, "date"},
		{"日期格式错误", RawEntry{Date: "05/03/2024", Time: "08:00"}, ModeTankerCount, "date"},
		{"非法状态", RawEntry{Date: "2024-03-05", Time: "08:00", DriverStatus: "late"}, ModeTankerCount, "driver_status"},
		{"司机模式缺状态", RawEntry{Date: "2024-03-05", Time: "08:00"}, ModeDriverStatus, "driver_status"},
		{"负金额", RawEntry{Date: "2024-03-05", Time: "08:00", CashAmount: "-5"}, ModeTankerCount, "cash_amount"},
		{"负罐车数", RawEntry{Date: "2024-03-05", Time: "08:00", TotalTankers: "-1"}, ModeTankerCount, "total_tankers"},
		{"负公里", RawEntry{Date: "2024-03-05", Time: "08:00", DriverStatus: "present", TotalKm: "-0.5"}, ModeDriverStatus, "total_km"},
		{"罐车数溢出 int", RawEntry{Date: "2024-03-05", Time: "08:00", TotalTankers: "99999999999999999999"}, ModeTankerCount, "total_tankers"},
		{"罐车数超出 INT 列", RawEntry{Date: "2024-03-05", Time: "08:00", TotalTankers: "3000000000"}, ModeTankerCount, "total_tankers"},
		{"金额超出列精度", RawEntry{Date: "2024-03-05", Time: "08:00", CashAmount: "1e15"}, ModeTankerCount, "cash_amount"},
		{"金额舍入后越界", RawEntry{Date: "2024-03-05", Time: "08:00", CashAmount: "9999999999.999"}, ModeTankerCount, "cash_amount"},
		{"公里超出列精度", RawEntry{Date: "2024-03-05", Time: "08:00", DriverStatus: "present", TotalKm: "10000000000"}, ModeDriverStatus, "total_km"},
		{"加油量超出列精度", RawEntry{Date: "2024-03-05", Time: "08:00", DriverStatus: "present", DieselAdded: "1e8"}, ModeDriverStatus, "diesel_added"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw, tt.mode)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("期望 ValidationError，实际: %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("期望字段 %s，实际=%s", tt.field, ve.Field)
			}
		})
	}
}

func TestNormalize_BoundaryValuesAccepted(t *testing.T) {
	e, err := Normalize(RawEntry{
		Date: "2024-03-05", Time: "08:00", DriverStatus: "present",
		CashAmount: "9999999999.99", DieselAdded: "99999999.99", TotalTankers: "2147483647",
	}, ModeDriverStatus)
	if err != nil {
		t.Fatalf("Normalize 应成功: %v", err)
	}
	if e.TotalTankers == nil || *e.TotalTankers != 2147483647 {
		t.Errorf("期望 2147483647 辆，实际=%v", e.TotalTankers)
	}
	if e.TankerCount() != 2147483647 {
		t.Errorf("有效罐车数应为 2147483647，实际=%d", e.TankerCount())
	}
	if !e.DieselAdded.Decimal.Equal(decimal.RequireFromString("99999999.99")) {
		t.Errorf("期望 99999999.99，实际=%s", e.DieselAdded.Decimal)
	}
}

func TestNormalize_AmountsRoundedToCents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.005", "0.01"},
		{"12.345", "12.35"},
		{"12.344", "12.34"},
		{"0.004", "0"},
		{"7", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := Normalize(RawEntry{Date: "2024-03-05", Time: "08:00", CashAmount: tt.in}, ModeTankerCount)
			if err != nil {
				t.Fatalf("Normalize 应成功: %v", err)
			}
			if !e.CashAmount.Valid {
				t.Fatal("金额不应为 null")
			}
			if !e.CashAmount.Decimal.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("期望 %s，实际=%s", tt.want, e.CashAmount.Decimal)
			}
		})
	}
}

func TestNormalize_SecondsDropped(t *testing.T) {
	e, err := Normalize(RawEntry{Date: "2024-03-05", Time: "14:30:59"}, ModeTankerCount)
	if err != nil {
		t.Fatalf("Normalize 应成功: %v", err)
	}
	if e.Time != "14:30" {
		t.Errorf("期望 14:30，实际=%s", e.Time)
	}
}

func TestNormalize_TankerModeDropsDriverFields(t *testing.T) {
	e, err := Normalize(RawEntry{
		Date: "2024-03-05", Time: "08:00", CashAmount: "100",
		DriverStatus: "absent", TotalKm: "40", CashTaken: "20", Notes: "late start", DieselAdded: "10",
	}, ModeTankerCount)
	if err != nil {
		t.Fatalf("Normalize 应成功: %v", err)
	}
	if e.DriverStatus != StatusNone {
		t.Errorf("罐车模式下状态应为空，实际=%s", e.DriverStatus)
	}
	if e.TotalKm.Valid || e.CashTaken.Valid || e.DieselAdded.Valid || e.Notes != nil {
		t.Error("罐车模式下司机专属字段应为 null")
	}
	if !e.CashAmount.Valid {
		t.Error("罐车模式下 cash_amount 应保留")
	}
	if e.TankerCount() != 1 {
		t.Errorf("状态被丢弃后有效罐车数应为 1，实际=%d", e.TankerCount())
	}
}

// ── 批量规范化 ──

func TestNormalizeAll_ReportsFirstFailurePosition(t *testing.T) {
	raws := []RawEntry{
		{Date: "2024-03-05", Time: "08:00", DriverStatus: "present"},
		{Date: "2024-03-05", Time: "", DriverStatus: "present"},
		{Date: "2024-03-05", Time: "10:00"},
	}
	_, err := NormalizeAll(raws, ModeDriverStatus)
	if err == nil {
		t.Fatal("期望批量校验失败")
	}
	if err.Error() != "Entry #2 is missing a time." {
		t.Errorf("错误信息不符: %q", err.Error())
	}

	raws[1].Time = "09:00"
	_, err = NormalizeAll(raws, ModeDriverStatus)
	if err == nil || err.Error() != "Entry #3 is missing a driver status." {
		t.Errorf("错误信息不符: %v", err)
	}
}

func TestNormalizeAll_Success(t *testing.T) {
	entries, err := NormalizeAll([]RawEntry{
		{Date: "2024-03-05", Time: "08:00"},
		{Date: "2024-03-06", Time: "10:00", TotalTankers: "2"},
	}, ModeTankerCount)
	if err != nil {
		t.Fatalf("NormalizeAll 应成功: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("期望 2 条，实际=%d", len(entries))
	}
}

func TestEntry_ForMode(t *testing.T) {
	notes := "n"
	e := Entry{
		Time:         "08:00",
		DriverStatus: StatusAbsent,
		TotalKm:      decimal.NewNullDecimal(decimal.NewFromInt(5)),
		Notes:        &notes,
		CashAmount:   decimal.NewNullDecimal(decimal.NewFromInt(7)),
	}
	if got := e.ForMode(ModeDriverStatus); got.DriverStatus != StatusAbsent || got.Notes == nil {
		t.Error("司机模式下应保留全部字段")
	}
	got := e.ForMode(ModeTankerCount)
	if got.DriverStatus != StatusNone || got.TotalKm.Valid || got.Notes != nil {
		t.Error("罐车模式下应清空司机专属字段")
	}
	if !got.CashAmount.Valid {
		t.Error("罐车模式下应保留 cash_amount")
	}
	if e.DriverStatus != StatusAbsent {
		t.Error("ForMode 不应修改原条目")
	}
}
