package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"NavScan/internal/domain/models"
	"NavScan/internal/services/features"
	applogger "NavScan/pkg/logger"
)

var (
	outlierColor = color.RGBA{R: 220, A: 255}
	burstColor   = color.RGBA{R: 128, B: 128, A: 255}
	gridColor    = color.Gray{Y: 215}
)

func unixX(t time.Time) float64 { return float64(t.Unix()) }

func newTimePlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	g := plotter.NewGrid()
	g.Vertical.Color = gridColor
	g.Horizontal.Color = gridColor
	p.Add(g)
	return p
}

func addLine(p *plot.Plot, xys plotter.XYs, c color.Color, width vg.Length, label string) error {
	if len(xys) == 0 {
		return nil
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = width
	p.Add(l)
	if label != "" {
		p.Legend.Add(label, l)
	}
	return nil
}

func addScatter(p *plot.Plot, xys plotter.XYs, c color.Color, radius vg.Length, label string) error {
	if len(xys) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = radius
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	p.Legend.Add(label, s)
	return nil
}

// RenderVolatility draws one line per ticker and the bold peer median line.
func (r *FileReporter) RenderVolatility(tickers []string, series map[string]models.VolatilitySeries, peerMedian []models.VolPoint) (string, error) {
	path, err := r.path(VolPlotFile)
	if err != nil {
		return "", err
	}

	p := newTimePlot(fmt.Sprintf("%d-day Rolling Volatility – All Tickers", r.opts.VolWindow), "σ (std of daily return)")
	p.Legend.Top = true
	p.Legend.Left = true

	for i, t := range tickers {
		if err := addLine(p, volXYs(series[t].Points), plotutil.Color(i), vg.Points(1), t); err != nil {
			return "", fmt.Errorf("plot %s volatility: %w", t, err)
		}
	}
	if err := addLine(p, volXYs(peerMedian), color.Black, vg.Points(2.5), "Peer median σ"); err != nil {
		return "", fmt.Errorf("plot peer median: %w", err)
	}

	if err := p.Save(inches(r.opts.Width), inches(r.opts.VolHeight), path); err != nil {
		return "", fmt.Errorf("save volatility chart: %w", err)
	}
	r.l.Debug("volatility chart saved", applogger.String("path", path), applogger.Int("tickers", len(tickers)))
	return path, nil
}

func volXYs(points []models.VolPoint) plotter.XYs {
	xys := make(plotter.XYs, 0, len(points))
	for _, pt := range points {
		if pt.Valid && !math.IsNaN(pt.Sigma) {
			xys = append(xys, plotter.XY{X: unixX(pt.Date), Y: pt.Sigma})
		}
	}
	return xys
}

// RenderNAV draws the NAV panel with outlier and burst markers above a
// return panel one third of its height.
func (r *FileReporter) RenderNAV(ticker string, rows []models.TaggedRecord) (string, error) {
	path, err := r.path(NAVPlotFile(ticker))
	if err != nil {
		return "", err
	}

	var nav, outliers, bursts, rets plotter.XYs
	navs := make([]float64, len(rows))
	for i, row := range rows {
		x := unixX(row.Date)
		navs[i] = row.NAV
		nav = append(nav, plotter.XY{X: x, Y: row.NAV})
		if row.Outlier {
			outliers = append(outliers, plotter.XY{X: x, Y: row.NAV})
		}
		if row.Cluster {
			bursts = append(bursts, plotter.XY{X: x, Y: row.NAV})
		}
		if row.Return.Valid {
			rets = append(rets, plotter.XY{X: x, Y: row.Return.Float64 * 100})
		}
	}

	top := newTimePlot(ticker+" NAV", "Price")
	top.Legend.Top = true
	if err := addLine(top, nav, plotutil.Color(0), vg.Points(1.2), ""); err != nil {
		return "", fmt.Errorf("plot nav: %w", err)
	}
	if period := r.opts.NAVSMAPeriod; period > 1 {
		if err := addLine(top, smaXYs(rows, navs, period), plotutil.Color(1), vg.Points(1), fmt.Sprintf("SMA %d", period)); err != nil {
			return "", fmt.Errorf("plot sma: %w", err)
		}
	}
	if err := addScatter(top, outliers, outlierColor, vg.Points(2.5), "Outlier"); err != nil {
		return "", fmt.Errorf("plot outliers: %w", err)
	}
	if err := addScatter(top, bursts, burstColor, vg.Points(3), "Burst"); err != nil {
		return "", fmt.Errorf("plot bursts: %w", err)
	}

	bottom := newTimePlot("", "Return (%)")
	if err := addLine(bottom, rets, plotutil.Color(0), vg.Points(0.8), ""); err != nil {
		return "", fmt.Errorf("plot returns: %w", err)
	}
	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Black
	zero.Width = vg.Points(0.7)
	bottom.Add(zero)

	if len(rows) > 0 {
		lo, hi := unixX(rows[0].Date), unixX(rows[len(rows)-1].Date)
		top.X.Min, top.X.Max = lo, hi
		bottom.X.Min, bottom.X.Max = lo, hi
	}

	w, h := inches(r.opts.Width), inches(r.opts.NAVHeight)
	img := vgimg.New(w, h)
	dc := draw.New(img)
	top.Draw(draw.Crop(dc, 0, 0, h/4, 0))
	bottom.Draw(draw.Crop(dc, 0, 0, 0, -3*h/4))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create nav chart: %w", err)
	}
	defer f.Close()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return "", fmt.Errorf("write nav chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close nav chart: %w", err)
	}

	r.l.Debug("nav chart saved", applogger.String("path", path), applogger.Int("outliers", len(outliers)), applogger.Int("bursts", len(bursts)))
	return path, nil
}

func smaXYs(rows []models.TaggedRecord, navs []float64, period int) plotter.XYs {
	sma := features.SMA(navs, period)
	xys := make(plotter.XYs, 0, len(sma))
	for i, v := range sma {
		if v.Valid {
			xys = append(xys, plotter.XY{X: unixX(rows[i].Date), Y: v.Float64})
		}
	}
	return xys
}

func inches(v float64) vg.Length { return vg.Length(v) * vg.Inch }
