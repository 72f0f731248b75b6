package report

import (
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// 事件 UID 命名空间，保证同一标签同一天重复导出得到相同 UID
var icsNamespace = uuid.MustParse("6f1c2a7e-3d4b-4c8e-9a51-0b7d2e6f8c31")

// RenderICS 输出 iCalendar：每个有记录的日期一个全天事件
// 事件标题为当日小节标题，描述为当日明细
func RenderICS(r *Report) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tanker-ledger//monthly summary//EN")
	cal.SetXWRCalName(r.Title)

	header := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c.Title
	}

	for _, s := range r.Sections {
		uid := uuid.NewSHA1(icsNamespace, []byte(fmt.Sprintf("%s/%s", r.Label.Name, s.Date.Format("2006-01-02"))))
		ev := cal.AddEvent(uid.String() + "@tanker-ledger")
		ev.SetDtStampTime(r.GeneratedAt.UTC())
		ev.SetAllDayStartAt(s.Date)
		ev.SetAllDayEndAt(s.Date.AddDate(0, 0, 1))
		ev.SetSummary(s.Heading)

		lines := []string{strings.Join(header, " | ")}
		for _, row := range s.Rows {
			lines = append(lines, strings.Join(row, " | "))
		}
		ev.SetDescription(strings.Join(lines, "\n"))
	}

	out := cal.Serialize()
	if out == "" {
		return nil, fmt.Errorf("%w: 日历序列化结果为空", ErrGeneration)
	}
	return []byte(out), nil
}
