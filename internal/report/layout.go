package report

// ── 排版 ──
//
// 坐标单位为 mm，原点在页面左上角，文本 Y 为基线。
// 换页只在日小节之间判断：小节结束后游标超过阈值则另起一页。
// 单个表格过长时由表格自身续页，并在新页重复表头。

// Geometry A4 版面参数
type Geometry struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginRight  float64
	TableTop     float64 // 续页表格的起始纵坐标
	TableBottom  float64 // 表格可用的最低纵坐标
	RowHeight    float64
	Threshold    float64 // 小节后游标超过该值即换页
	ResetY       float64 // 换页后游标位置
	SectionGap   float64
	HeadingGap   float64
	SummaryStart float64
	SummaryStep  float64
}

// DefaultGeometry 默认版面；threshold<=0 时取 270
func DefaultGeometry(threshold float64) Geometry {
	if threshold <= 0 {
		threshold = 270
	}
	return Geometry{
		PageWidth:    210,
		PageHeight:   297,
		MarginLeft:   14,
		MarginRight:  14,
		TableTop:     14.1,
		TableBottom:  297 - 14.1,
		RowHeight:    7.6,
		Threshold:    threshold,
		ResetY:       20,
		SectionGap:   10,
		HeadingGap:   8,
		SummaryStart: 25,
		SummaryStep:  7,
	}
}

// ContentWidth 表格可用宽度
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// Align 文本对齐
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Text 单行文本
type Text struct {
	X, Y  float64
	Size  float64 // pt
	Bold  bool
	Align Align
	Value string
}

// Rule 水平分隔线
type Rule struct {
	X1, Y1, X2, Y2 float64
}

// Table 落在单页上的一段表格
type Table struct {
	X, Y      float64
	Widths    []float64
	RowHeight float64
	Header    []string
	Rows      [][]string
}

// Bottom 表格底边纵坐标
func (t Table) Bottom() float64 {
	return t.Y + t.RowHeight*float64(len(t.Rows)+1)
}

// Page 单页内容
type Page struct {
	Texts  []Text
	Rules  []Rule
	Tables []Table
}

// Placement 小节标题所在页与纵坐标
type Placement struct {
	Day  int
	Page int
	Y    float64
}

// Layout 排版结果
type Layout struct {
	Geometry Geometry
	Pages    []*Page
	Sections []Placement
}

func (l *Layout) addPage() *Page {
	p := &Page{}
	l.Pages = append(l.Pages, p)
	return p
}

// Paginate 排版报表
func Paginate(r *Report, g Geometry) *Layout {
	l := &Layout{Geometry: g}
	page := l.addPage()

	page.Texts = append(page.Texts, Text{X: g.PageWidth / 2, Y: 15, Size: 16, Align: AlignCenter, Value: r.Title})

	y := g.SummaryStart
	for _, line := range r.Summary {
		page.Texts = append(page.Texts, Text{X: g.MarginLeft, Y: y, Size: 12, Value: line})
		y += g.SummaryStep
	}
	page.Texts = append(page.Texts, Text{X: g.MarginLeft, Y: y, Size: 10, Value: r.Generated})
	page.Rules = append(page.Rules, Rule{X1: g.MarginLeft, Y1: y + 5, X2: g.PageWidth - g.MarginRight, Y2: y + 5})
	y += 10

	widths := columnWidths(r.Columns, g.ContentWidth())
	header := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c.Title
	}

	for i, s := range r.Sections {
		// 上一节结束后超过阈值，或本节标题连同表头首行放不下时另起一页
		if i > 0 && (y > g.Threshold || y+g.HeadingGap+2*g.RowHeight > g.TableBottom) {
			page = l.addPage()
			y = g.ResetY
		}

		l.Sections = append(l.Sections, Placement{Day: s.Day, Page: len(l.Pages) - 1, Y: y})
		page.Texts = append(page.Texts, Text{X: g.MarginLeft, Y: y, Size: 12, Bold: true, Value: s.Heading})
		y += g.HeadingGap

		page, y = l.placeTable(page, y, g, widths, header, s.Rows)
		y += g.SectionGap
	}
	return l
}

// placeTable 放置表格，返回最后一页与表格底边
func (l *Layout) placeTable(page *Page, y float64, g Geometry, widths []float64, header []string, rows [][]string) (*Page, float64) {
	rh := g.RowHeight
	fresh := false

	// 表头加首行放不下时整表移到下一页
	if y+2*rh > g.TableBottom {
		page = l.addPage()
		y = g.TableTop
		fresh = true
	}

	next := 0
	for {
		t := Table{X: g.MarginLeft, Y: y, Widths: widths, RowHeight: rh, Header: header}
		y += rh
		for next < len(rows) && (y+rh <= g.TableBottom || (fresh && len(t.Rows) == 0)) {
			t.Rows = append(t.Rows, rows[next])
			next++
			y += rh
		}
		page.Tables = append(page.Tables, t)
		if next >= len(rows) {
			return page, y
		}
		page = l.addPage()
		y = g.TableTop
		fresh = true
	}
}

func columnWidths(cols []Column, total float64) []float64 {
	var sum float64
	for _, c := range cols {
		sum += c.Weight
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		if sum > 0 {
			widths[i] = total * c.Weight / sum
		}
	}
	return widths
}
