package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"foresight/internal/forecast"
)

// ChartPNG 绘制 预测日期 vs 实际日期 散点图（带 y=x 参考线），输出 PNG。
// 预测日期缺失的 DMU 不绘制
func ChartPNG(bundle *forecast.Bundle) ([]byte, error) {
	if bundle == nil {
		return nil, errors.New("no result to chart")
	}

	var pts plotter.XYs
	switch bundle.Pipeline {
	case "tfdea":
		for _, r := range bundle.TFDEA.Forecast {
			if r.ForecastDate == nil {
				continue
			}
			pts = append(pts, plotter.XY{X: r.ReleaseDate, Y: *r.ForecastDate})
		}
	case "lr":
		for _, r := range bundle.LR.Forecast {
			pts = append(pts, plotter.XY{X: r.ReleaseDate, Y: r.ForecastDate})
		}
	default:
		return nil, fmt.Errorf("unknown pipeline: %s", bundle.Pipeline)
	}
	if len(pts) == 0 {
		return nil, errors.New("no forecasted dates to chart")
	}

	p := plot.New()
	p.Title.Text = "Forecasted vs Actual Introduction Date"
	p.X.Label.Text = "Actual Date"
	p.Y.Label.Text = "Forecasted Date"
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("build scatter: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p.Add(scatter)

	// y=x 参考线：落在线上表示预测与实际一致
	lo, hi := pts[0].X, pts[0].X
	for _, pt := range pts {
		lo = min(lo, min(pt.X, pt.Y))
		hi = max(hi, max(pt.X, pt.Y))
	}
	ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return nil, fmt.Errorf("build reference line: %w", err)
	}
	ref.LineStyle.Color = color.RGBA{R: 200, G: 80, B: 80, A: 255}
	ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(ref)

	w, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
