package dto

// ── 月度视图 DTO ──

// MonthQuery 月度查询参数
// Seq 为客户端递增的请求序号，可选
type MonthQuery struct {
	Year  int    `form:"year"  binding:"required,min=1970,max=9999"`
	Month int    `form:"month" binding:"required,min=1,max=12"`
	Seq   *int64 `form:"seq"   binding:"omitempty,min=0"`
}

// ExportQuery 导出查询参数
type ExportQuery struct {
	Year   int    `form:"year"   binding:"required,min=1970,max=9999"`
	Month  int    `form:"month"  binding:"required,min=1,max=12"`
	Format string `form:"format" binding:"omitempty,oneof=pdf xlsx ics"`
}

// TotalsResponse 汇总数值；金额与公里为两位小数字符串
type TotalsResponse struct {
	TotalTankers     int    `json:"total_tankers"`
	TotalCash        string `json:"total_cash"`
	TotalKm          string `json:"total_km"`
	TotalCashTaken   string `json:"total_cash_taken"`
	TotalDieselAdded string `json:"total_diesel_added"`
	PresentCount     int    `json:"present_count"`
	AbsentCount      int    `json:"absent_count"`
}

// DailyRollupResponse 单日汇总
type DailyRollupResponse struct {
	Day     string          `json:"day"` // 补零的日，如 "05"
	Date    string          `json:"date"`
	Status  string          `json:"status,omitempty"` // present 优先于 absent
	Notes   string          `json:"notes,omitempty"`  // 当日备注以 "; " 连接
	Totals  TotalsResponse  `json:"totals"`
	Entries []EntryResponse `json:"entries"`
}

// MonthlySummaryResponse 月度汇总
type MonthlySummaryResponse struct {
	LabelID   string                `json:"label_id"`
	LabelName string                `json:"label_name"`
	Mode      string                `json:"mode"`
	Year      int                   `json:"year"`
	Month     int                   `json:"month"`
	Totals    TotalsResponse        `json:"totals"`
	Days      []DailyRollupResponse `json:"days"`
	Seq       *int64                `json:"seq,omitempty"`
}

// CalendarDay 日历单元格
type CalendarDay struct {
	Day        int    `json:"day"`
	Date       string `json:"date"`
	Tankers    int    `json:"tankers"`
	EntryCount int    `json:"entry_count"`
	Status     string `json:"status,omitempty"`
}

// CalendarResponse 月历视图
// FirstWeekday 为当月 1 日的星期（0=周日），前端据此留出空白格
type CalendarResponse struct {
	LabelID      string        `json:"label_id"`
	Year         int           `json:"year"`
	Month        int           `json:"month"`
	DaysInMonth  int           `json:"days_in_month"`
	FirstWeekday int           `json:"first_weekday"`
	TotalTankers int           `json:"total_tankers"`
	Days         []CalendarDay `json:"days"`
	Seq          *int64        `json:"seq,omitempty"`
}
