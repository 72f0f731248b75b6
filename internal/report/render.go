package report

import (
	"tanker-ledger/internal/ledger"
)

// Document 生成的文件
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Generator 报表生成器：持有货币符号与版面等固定参数
type Generator struct {
	CurrencySymbol string
	Geometry       Geometry
}

// NewGenerator 创建生成器；threshold 为换页阈值（mm）
func NewGenerator(currencySymbol string, threshold float64) *Generator {
	return &Generator{
		CurrencySymbol: currencySymbol,
		Geometry:       DefaultGeometry(threshold),
	}
}

// Generate 由月汇总生成指定格式的文件
func (g *Generator) Generate(label ledger.Label, m ledger.MonthlyRollup, format Format, opts Options) (*Document, error) {
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = g.CurrencySymbol
	}
	r := Build(label, m, opts)

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatXLSX:
		data, err = RenderXLSX(r)
	case FormatICS:
		data, err = RenderICS(r)
	default:
		format = FormatPDF
		data, err = RenderPDF(Paginate(r, g.Geometry))
	}
	if err != nil {
		return nil, err
	}

	return &Document{
		Filename:    Filename(label.Name, m.Year, m.Month, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}
