package debug

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rccircuit/export"
	"rccircuit/types"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// plotMaxPoints 图片曲线最大点数
const plotMaxPoints = 2000

var (
	colorVoltage = color.RGBA{R: 0x19, G: 0x87, B: 0xc7, A: 0xff}
	colorCurrent = color.RGBA{R: 0xc7, G: 0x19, B: 0x79, A: 0xff}
	colorEMF     = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// Plot 电压电流双图
// 上图电容电压(含电动势参考线),下图电路电流.
type Plot struct {
	Width  vg.Length // 图片宽度
	Height vg.Length // 图片高度
	DPI    int       // PNG 分辨率
}

// NewPlot 默认 8x6 英寸
func NewPlot() *Plot {
	return &Plot{Width: 8 * vg.Inch, Height: 6 * vg.Inch, DPI: 96}
}

func samples(r *types.Result, ys []float64) plotter.XYs {
	index := export.Indices(r.Len(), plotMaxPoints)
	pts := make(plotter.XYs, len(index))
	for k, i := range index {
		pts[k].X = r.Time[i]
		pts[k].Y = ys[i]
	}
	return pts
}

func (p *Plot) build(r *types.Result) (voltage, current *plot.Plot, err error) {
	if r == nil || r.Len() == 0 {
		return nil, nil, types.ErrNoResult
	}
	voltage = plot.New()
	voltage.Title.Text = fmt.Sprintf("RC %s  τ=%.3g s", r.Params.Source, r.Tau)
	voltage.Y.Label.Text = "Vc (V)"
	voltage.Add(plotter.NewGrid())
	lineV, err := plotter.NewLine(samples(r, r.Voltage))
	if err != nil {
		return nil, nil, err
	}
	lineV.LineStyle.Width = vg.Points(1.5)
	lineV.LineStyle.Color = colorVoltage
	emf := plotter.NewFunction(func(float64) float64 { return r.Params.EMF })
	emf.LineStyle.Color = colorEMF
	emf.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	voltage.Add(lineV, emf)
	voltage.Legend.Add("Vc", lineV)
	voltage.Legend.Add("EMF", emf)
	voltage.Legend.Top = true

	current = plot.New()
	current.X.Label.Text = "t (s)"
	current.Y.Label.Text = "I (A)"
	current.Add(plotter.NewGrid())
	lineI, err := plotter.NewLine(samples(r, r.Current))
	if err != nil {
		return nil, nil, err
	}
	lineI.LineStyle.Width = vg.Points(1.5)
	lineI.LineStyle.Color = colorCurrent
	current.Add(lineI)
	current.Legend.Add("I", lineI)
	current.Legend.Top = true
	return voltage, current, nil
}

func (p *Plot) draw(dc draw.Canvas, voltage, current *plot.Plot) {
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(8),
		PadY:      vg.Points(8),
	}
	canvases := plot.Align([][]*plot.Plot{{voltage}, {current}}, tiles, dc)
	voltage.Draw(canvases[0][0])
	current.Draw(canvases[1][0])
}

// WriteTo 以 png 或 svg 格式输出
func (p *Plot) WriteTo(w io.Writer, r *types.Result, format string) error {
	voltage, current, err := p.build(r)
	if err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "png":
		c := vgimg.NewWith(vgimg.UseWH(p.Width, p.Height), vgimg.UseDPI(p.DPI))
		p.draw(draw.New(c), voltage, current)
		_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	case "svg":
		c := vgsvg.New(p.Width, p.Height)
		p.draw(draw.New(c), voltage, current)
		_, err = c.WriteTo(w)
	default:
		err = fmt.Errorf("不支持的图片格式: %q", format)
	}
	return err
}

// Save 按文件扩展名保存图片
func (p *Plot) Save(filename string, r *types.Result) error {
	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录失败: %w", err)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("创建图片失败: %w", err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := p.WriteTo(bw, r, format); err != nil {
		return err
	}
	return bw.Flush()
}
