package rccircuit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"rccircuit/debug"
	"rccircuit/engine"
	"rccircuit/export"
	"rccircuit/types"
	"rccircuit/utils"
)

// RecordLimit 模拟器保留的历史记录数
var RecordLimit = 16

// Simulator RC电路模拟器
// 在引擎外层串行化参数设置与计算,并提供导出与网页输出.
type Simulator struct {
	mu     sync.Mutex
	engine *engine.Engine
	hook   types.Debug

	Record        *debug.Record  // 历史记录
	Charts        *debug.Charts  // 网页曲线
	Plot          *debug.Plot    // 图片输出
	ExportOptions export.Options // CSV 导出配置

	TimeStep  float64 // 时间步长
	Discharge bool    // 放电模式
}

// NewSimulator 初始化, d 为附加的调试输出,可以为空
func NewSimulator(d types.Debug) *Simulator {
	record := debug.NewRecord(RecordLimit)
	hook := debug.Multi(record, d)
	return &Simulator{
		engine:        engine.New(engine.WithDebug(hook)),
		hook:          hook,
		Record:        record,
		Charts:        debug.NewCharts(record),
		Plot:          debug.NewPlot(),
		ExportOptions: export.DefaultOptions(),
		TimeStep:      types.DefaultTimeStep,
	}
}

// Params 当前参数
func (s *Simulator) Params() types.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Params()
}

// SetParameters 设置参数
func (s *Simulator) SetParameters(p types.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.SetParameters(p)
}

// Run 设置参数并计算
func (s *Simulator) Run(p types.Params, timeStep float64, discharge bool) (*types.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.SetParameters(p); err != nil {
		return nil, err
	}
	return s.engine.Calculate(timeStep, discharge)
}

// Simulate 使用当前参数和仿真设置计算
func (s *Simulator) Simulate() (*types.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Calculate(s.TimeStep, s.Discharge)
}

// Result 最近一次成功的结果
func (s *Simulator) Result() (*types.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Result()
}

// Load 加载参数文件
func (s *Simulator) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.LoadReader(file)
}

// LoadReader 解析参数文件
// 每行一个参数: C 1u / R 1k / RINT 0 / V 10 DC / ALPHA 0.0001 / TEMP 25,
// 以 '.tran dt [discharge]' 设置仿真. 未给出的参数沿用当前值.
func (s *Simulator) LoadReader(r io.Reader) error {
	s.mu.Lock()
	p, timeStep, discharge := s.engine.Params(), s.TimeStep, s.Discharge
	s.mu.Unlock()
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		fields := utils.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		switch name := fields.Name(); name {
		case ".TRAN":
			timeStep, err = fields.ParseFloat64(1)
			discharge = strings.EqualFold(fields.ParseString(2, ""), "discharge")
		case "C":
			p.Capacitance, err = fields.ParseFloat64(1)
		case "R":
			p.Resistance, err = fields.ParseFloat64(1)
		case "RINT":
			p.InternalResistance, err = fields.ParseFloat64(1)
		case "V":
			if p.EMF, err = fields.ParseFloat64(1); err == nil && len(fields) > 2 {
				p.Source, err = types.ParseSourceType(fields[2])
			}
		case "ALPHA":
			p.Alpha, err = fields.ParseFloat64(1)
		case "TEMP":
			p.Temperature, err = fields.ParseFloat64(1)
		default:
			if name[0] != '.' {
				err = fmt.Errorf("未知参数: %s", name)
			}
		}
		if err != nil {
			return fmt.Errorf("第 %d 行: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := s.SetParameters(p); err != nil {
		return err
	}
	s.mu.Lock()
	s.TimeStep, s.Discharge = timeStep, discharge
	s.mu.Unlock()
	return nil
}

// Export 导出参数文件
func (s *Simulator) Export(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportWriter(file)
}

// ExportWriter 输出参数文件
func (s *Simulator) ExportWriter(w io.Writer) error {
	s.mu.Lock()
	p, timeStep, discharge := s.engine.Params(), s.TimeStep, s.Discharge
	s.mu.Unlock()
	writer := bufio.NewWriter(w)
	fmt.Fprintf(writer, "C %s\n", utils.FormatValue(p.Capacitance))
	fmt.Fprintf(writer, "R %s\n", utils.FormatValue(p.Resistance))
	fmt.Fprintf(writer, "RINT %s\n", utils.FormatValue(p.InternalResistance))
	fmt.Fprintf(writer, "V %s %s\n", utils.FormatValue(p.EMF), p.Source)
	fmt.Fprintf(writer, "ALPHA %s\n", utils.FormatValue(p.Alpha))
	fmt.Fprintf(writer, "TEMP %s\n", utils.FormatValue(p.Temperature))
	fmt.Fprintf(writer, ".tran %s", utils.FormatValue(timeStep))
	if discharge {
		writer.WriteString(" discharge")
	}
	writer.WriteRune('\n')
	return writer.Flush()
}

// WriteCSV 导出最近一次结果
func (s *Simulator) WriteCSV(w io.Writer) error {
	r, ok := s.Result()
	if !ok {
		return types.ErrNoResult
	}
	return export.WriteCSV(w, r, s.ExportOptions)
}

// queryParams 用请求参数覆盖当前参数
func queryParams(req *http.Request, p types.Params, timeStep float64, discharge bool) (types.Params, float64, bool, error) {
	q := req.URL.Query()
	values := []struct {
		key string
		ptr *float64
	}{
		{"c", &p.Capacitance},
		{"r", &p.Resistance},
		{"rint", &p.InternalResistance},
		{"emf", &p.EMF},
		{"alpha", &p.Alpha},
		{"temp", &p.Temperature},
		{"dt", &timeStep},
	}
	for _, v := range values {
		if str := q.Get(v.key); str != "" {
			val, err := utils.ParseValue(str)
			if err != nil {
				return p, 0, false, fmt.Errorf("%s: %w", v.key, err)
			}
			*v.ptr = val
		}
	}
	if str := q.Get("source"); str != "" {
		source, err := types.ParseSourceType(str)
		if err != nil {
			return p, 0, false, err
		}
		p.Source = source
	}
	if str := q.Get("discharge"); str != "" {
		discharge = utils.NetList{str}.ParseBool(0, discharge)
	}
	return p, timeStep, discharge, nil
}

// writeError 响应已开始写出后的错误只能记录
func (s *Simulator) writeError(req *http.Request, err error) {
	if err != nil {
		s.hook.Error(fmt.Errorf("%s: %w", req.URL.Path, err))
	}
}

// ServeHTTP 网页接口
//
//	/            电压电流曲线
//	/run         以请求参数计算 (?c=1u&r=1k&emf=10&source=AC&dt=1e-5&discharge=true)
//	/csv         导出 CSV
//	/plot.png    图片 (plot.svg)
//	/result.json 历史记录
//	/summary     结果汇总
func (s *Simulator) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch req.URL.Path {
	case "/":
		s.Charts.Handler(w, req)
	case "/run":
		s.mu.Lock()
		p, timeStep, discharge := s.engine.Params(), s.TimeStep, s.Discharge
		s.mu.Unlock()
		p, timeStep, discharge, err := queryParams(req, p, timeStep, discharge)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		r, err := s.Run(p, timeStep, discharge)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(map[string]any{
			"points":      r.Len(),
			"tau":         r.Tau,
			"phase_shift": r.PhaseShift,
			"energy":      r.Energy,
			"power_loss":  r.PowerLoss,
		})
		s.writeError(req, err)
	case "/csv":
		r, ok := s.Result()
		if !ok {
			http.Error(w, types.ErrNoResult.Error(), http.StatusNotFound)
			return
		}
		data, err := export.Preview(r, s.ExportOptions)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="rc_simulation.csv"`)
		_, err = io.WriteString(w, data)
		s.writeError(req, err)
	case "/plot.png", "/plot.svg":
		r, ok := s.Result()
		if !ok {
			http.Error(w, types.ErrNoResult.Error(), http.StatusNotFound)
			return
		}
		format := strings.TrimPrefix(req.URL.Path, "/plot.")
		if format == "svg" {
			w.Header().Set("Content-Type", "image/svg+xml")
		} else {
			w.Header().Set("Content-Type", "image/png")
		}
		if err := s.Plot.WriteTo(w, r, format); err != nil {
			s.writeError(req, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	case "/result.json":
		w.Header().Set("Content-Type", "application/json")
		s.writeError(req, s.Record.Render(w))
	case "/summary":
		r, ok := s.Result()
		if !ok {
			http.Error(w, types.ErrNoResult.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		s.writeError(req, export.WriteSummary(w, r))
	default:
		http.NotFound(w, req)
	}
}
