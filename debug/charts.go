package debug

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"rccircuit/export"
	rctypes "rccircuit/types"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// chartMaxPoints 网页曲线最大点数
const chartMaxPoints = 1000

// Charts 曲线绘制
type Charts struct {
	*Record
}

// NewCharts 基于记录创建曲线页面
func NewCharts(record *Record) *Charts {
	if record == nil {
		record = NewRecord(0)
	}
	return &Charts{Record: record}
}

func newLine(title, subtitle, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "t (s)",
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  yName,
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	return line
}

// Render 输出最近一次结果的电压和电流曲线
func (c *Charts) Render(w io.Writer) error {
	run, ok := c.Last()
	if !ok {
		return rctypes.ErrNoResult
	}
	r := run.Result
	lineV := newLine("电容电压", "电容电压随时间变化曲线 "+run.ID.String(), "V")
	lineA := newLine("电路电流", "电路电流随时间变化曲线 "+run.ID.String(), "A")
	// 处理数据
	{
		index := export.Indices(r.Len(), chartMaxPoints)
		xAxis := make([]string, len(index))
		itemsV := make([]opts.LineData, len(index))
		itemsE := make([]opts.LineData, len(index))
		itemsA := make([]opts.LineData, len(index))
		for x, i := range index {
			xAxis[x] = strconv.FormatFloat(r.Time[i], 'g', 6, 64)
			itemsV[x] = opts.LineData{Value: r.Voltage[i]}
			itemsE[x] = opts.LineData{Value: r.Params.EMF}
			itemsA[x] = opts.LineData{Value: r.Current[i]}
		}
		hideSymbol := charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})
		lineV.SetXAxis(xAxis).
			AddSeries("Vc", itemsV, hideSymbol).
			AddSeries("EMF", itemsE, hideSymbol,
				charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
		lineA.SetXAxis(xAxis).
			AddSeries("I", itemsA, hideSymbol)
	}
	// 构建界面
	page := components.NewPage()
	page.AddCharts(
		lineV,
		lineA,
	)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}

func (c *Charts) Error(err error) {
	c.Record.Error(err)
	log.Println(err)
}
