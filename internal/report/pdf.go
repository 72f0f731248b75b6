package report

import (
	"bytes"
	"fmt"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontRegular = "GoRegular"
	fontBold    = "GoBold"

	mmToPt       = 72 / 25.4
	cellPadding  = 1.76 // mm
	ascentRatio  = 0.78
	tableFontPt  = 10
	gridLineWPt  = 0.28
	titleRuleWPt = 0.57
)

// PDF 表头配色
var (
	headFill  = [3]uint8{59, 130, 246}
	gridColor = [3]uint8{200, 200, 200}
)

// RenderPDF 将排版结果输出为 PDF
// 任一步失败即返回 ErrGeneration，不返回部分内容
func RenderPDF(l *Layout) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrGeneration, r)
		}
	}()

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	if err := pdf.AddTTFFontData(fontRegular, goregular.TTF); err != nil {
		return nil, fmt.Errorf("%w: 加载字体失败: %v", ErrGeneration, err)
	}
	if err := pdf.AddTTFFontData(fontBold, gobold.TTF); err != nil {
		return nil, fmt.Errorf("%w: 加载字体失败: %v", ErrGeneration, err)
	}

	w := &pdfWriter{pdf: &pdf}
	for _, p := range l.Pages {
		pdf.AddPage()
		if err := w.page(p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: 写出 PDF 失败: %v", ErrGeneration, err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf *gopdf.GoPdf
}

func pt(mm float64) float64 { return mm * mmToPt }

func (w *pdfWriter) page(p *Page) error {
	for _, t := range p.Texts {
		if err := w.text(t); err != nil {
			return err
		}
	}

	w.pdf.SetStrokeColor(0, 0, 0)
	w.pdf.SetLineWidth(titleRuleWPt)
	for _, r := range p.Rules {
		w.pdf.Line(pt(r.X1), pt(r.Y1), pt(r.X2), pt(r.Y2))
	}

	for _, t := range p.Tables {
		if err := w.table(t); err != nil {
			return err
		}
	}
	return nil
}

func (w *pdfWriter) font(bold bool, size float64) error {
	family := fontRegular
	if bold {
		family = fontBold
	}
	return w.pdf.SetFont(family, "", size)
}

func (w *pdfWriter) text(t Text) error {
	if err := w.font(t.Bold, t.Size); err != nil {
		return err
	}
	w.pdf.SetTextColor(0, 0, 0)

	x := pt(t.X)
	if t.Align == AlignCenter {
		width, err := w.pdf.MeasureTextWidth(t.Value)
		if err != nil {
			return err
		}
		x -= width / 2
	}
	w.pdf.SetX(x)
	w.pdf.SetY(pt(t.Y) - t.Size*ascentRatio)
	return w.pdf.Cell(nil, t.Value)
}

func (w *pdfWriter) table(t Table) error {
	rowH := pt(t.RowHeight)
	x0 := pt(t.X)
	var total float64
	for _, cw := range t.Widths {
		total += pt(cw)
	}

	// 表头
	y := pt(t.Y)
	w.pdf.SetFillColor(headFill[0], headFill[1], headFill[2])
	w.pdf.RectFromUpperLeftWithStyle(x0, y, total, rowH, "F")
	if err := w.font(true, tableFontPt); err != nil {
		return err
	}
	w.pdf.SetTextColor(255, 255, 255)
	if err := w.row(t.Header, t.Widths, x0, y, rowH); err != nil {
		return err
	}

	// 表体
	if err := w.font(false, tableFontPt); err != nil {
		return err
	}
	w.pdf.SetTextColor(0, 0, 0)
	for _, r := range t.Rows {
		y += rowH
		if err := w.row(r, t.Widths, x0, y, rowH); err != nil {
			return err
		}
	}

	// 网格线
	bottom := pt(t.Y) + rowH*float64(len(t.Rows)+1)
	w.pdf.SetStrokeColor(gridColor[0], gridColor[1], gridColor[2])
	w.pdf.SetLineWidth(gridLineWPt)
	for i := 0; i <= len(t.Rows)+1; i++ {
		ly := pt(t.Y) + rowH*float64(i)
		w.pdf.Line(x0, ly, x0+total, ly)
	}
	x := x0
	w.pdf.Line(x, pt(t.Y), x, bottom)
	for _, cw := range t.Widths {
		x += pt(cw)
		w.pdf.Line(x, pt(t.Y), x, bottom)
	}
	return nil
}

func (w *pdfWriter) row(cells []string, widths []float64, x0, top, rowH float64) error {
	x := x0
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		avail := pt(widths[i]) - 2*pt(cellPadding)
		text, err := w.fit(cell, avail)
		if err != nil {
			return err
		}
		w.pdf.SetX(x + pt(cellPadding))
		w.pdf.SetY(top + rowH/2 - tableFontPt*ascentRatio/2)
		if err := w.pdf.Cell(nil, text); err != nil {
			return err
		}
		x += pt(widths[i])
	}
	return nil
}

// fit 超出列宽时截断并追加省略号
func (w *pdfWriter) fit(s string, avail float64) (string, error) {
	width, err := w.pdf.MeasureTextWidth(s)
	if err != nil {
		return "", err
	}
	if width <= avail {
		return s, nil
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + "..."
		width, err = w.pdf.MeasureTextWidth(candidate)
		if err != nil {
			return "", err
		}
		if width <= avail {
			return candidate, nil
		}
	}
	return "", nil
}
