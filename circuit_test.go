package rccircuit

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rccircuit/debug"
	"rccircuit/types"
)

const testParamFile = `
# 1µF 1kΩ 直流充电
C 1u
R 1k
RINT 0
V 10 dc
ALPHA 0
TEMP 25
.tran 1e-5
`

func TestLoadAndSimulate(t *testing.T) {
	sim := NewSimulator(nil)
	if err := sim.LoadReader(strings.NewReader(testParamFile)); err != nil {
		t.Fatalf("加载参数失败: %s", err)
	}
	r, err := sim.Simulate()
	if err != nil {
		t.Fatalf("仿真失败: %s", err)
	}
	if r.Len() != 501 || math.Abs(r.Tau-0.001) > 1e-12 {
		t.Errorf("仿真结果不正确: points=%d tau=%v", r.Len(), r.Tau)
	}
	if sim.Record.Len() != 1 {
		t.Errorf("应记录一次结果, 实际 %d", sim.Record.Len())
	}

	var csv bytes.Buffer
	if err := sim.WriteCSV(&csv); err != nil {
		t.Fatalf("导出失败: %s", err)
	}
	if !strings.HasPrefix(csv.String(), "time_s;voltage_V;current_A\n0;0;0.01\n") {
		t.Errorf("导出内容不正确: %q", csv.String()[:60])
	}
}

func TestLoadErrors(t *testing.T) {
	sim := NewSimulator(nil)
	before := sim.Params()
	for _, data := range []string{"C abc", "X 1", "V 10 pulse", "C 0", "R -1k"} {
		if err := sim.LoadReader(strings.NewReader(data)); err == nil {
			t.Errorf("%q 应加载失败", data)
		}
		if sim.Params() != before {
			t.Errorf("%q 加载失败后参数被修改", data)
		}
	}
	if err := sim.LoadReader(strings.NewReader("C 0")); !errors.Is(err, types.ErrInvalidParams) {
		t.Errorf("应返回参数错误, 实际 %v", err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	sim := NewSimulator(nil)
	p := types.Params{Capacitance: 4.7e-6, Resistance: 2200, InternalResistance: 1.5, EMF: 5, Source: types.SourceAC, Alpha: 0.0039, Temperature: 60}
	if err := sim.SetParameters(p); err != nil {
		t.Fatal(err)
	}
	sim.TimeStep, sim.Discharge = 2e-6, true
	filename := filepath.Join(t.TempDir(), "rc.cir")
	if err := sim.Export(filename); err != nil {
		t.Fatalf("导出参数失败: %s", err)
	}
	other := NewSimulator(nil)
	if err := other.Load(filename); err != nil {
		t.Fatalf("加载参数失败: %s", err)
	}
	if other.Params() != p || other.TimeStep != 2e-6 || !other.Discharge {
		t.Errorf("参数往返不一致: %s dt=%v discharge=%v", other.Params(), other.TimeStep, other.Discharge)
	}
}

func TestServeHTTP(t *testing.T) {
	sim := NewSimulator(nil)
	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		sim.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		return w
	}
	if w := get("/csv"); w.Code != 404 {
		t.Errorf("无结果时应返回 404, 实际 %d", w.Code)
	}
	w := get("/run?c=1u&r=1k&emf=10&alpha=0&source=AC&dt=1e-5")
	if w.Code != 200 {
		t.Fatalf("计算失败: %d %s", w.Code, w.Body.String())
	}
	var out map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("解析结果失败: %s", err)
	}
	if out["points"] != 501 || math.Abs(out["phase_shift"]-math.Atan(1/(100*math.Pi*1e-3))) > 1e-12 {
		t.Errorf("计算结果不正确: %v", out)
	}
	if sim.Params().Source != types.SourceAC {
		t.Errorf("参数未更新: %s", sim.Params())
	}
	for _, path := range []string{"/", "/csv", "/plot.png", "/plot.svg", "/result.json", "/summary"} {
		if w := get(path); w.Code != 200 || w.Body.Len() == 0 {
			t.Errorf("%s 返回 %d", path, w.Code)
		}
	}
	if w := get("/run?c=0"); w.Code != 422 {
		t.Errorf("无效参数应返回 422, 实际 %d", w.Code)
	}
	if w := get("/run?c=abc"); w.Code != 400 {
		t.Errorf("格式错误应返回 400, 实际 %d", w.Code)
	}
	if w := get("/missing"); w.Code != 404 {
		t.Errorf("未知路径应返回 404, 实际 %d", w.Code)
	}
}

func TestExportAndWriteCSV(t *testing.T) {
	sim := NewSimulator(nil)
	if err := sim.WriteCSV(&bytes.Buffer{}); !errors.Is(err, types.ErrNoResult) {
		t.Errorf("无结果导出应失败, 实际 %v", err)
	}
	if err := sim.LoadReader(strings.NewReader(testParamFile)); err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Simulate(); err != nil {
		t.Fatal(err)
	}
	sim.ExportOptions.Separator = ','
	sim.ExportOptions.Precision = 2
	var csv bytes.Buffer
	if err := sim.WriteCSV(&csv); err != nil {
		t.Fatalf("导出 CSV 失败: %s", err)
	}
	if !strings.HasPrefix(csv.String(), "time_s;voltage_V;current_A\n0;0;0,01\n") {
		t.Errorf("导出配置未生效: %q", csv.String()[:40])
	}
	filename := filepath.Join(t.TempDir(), "rc.cir")
	if err := sim.Export(filename); err != nil {
		t.Fatalf("导出参数失败: %s", err)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "C 1e-06\n") || !strings.HasSuffix(string(data), ".tran 1e-05\n") {
		t.Errorf("参数文件内容不正确:\n%s", data)
	}
}

// failWriter 写入总是失败的响应
type failWriter struct{ *httptest.ResponseRecorder }

func (failWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestServeHTTPWriteError(t *testing.T) {
	var buf bytes.Buffer
	sim := NewSimulator(debug.NewLogger(log.New(&buf, "", 0), false))
	w := failWriter{httptest.NewRecorder()}
	sim.ServeHTTP(w, httptest.NewRequest("GET", "/run?alpha=0", nil))
	if !strings.Contains(buf.String(), "ERROR /run") {
		t.Errorf("写出错误应记录: %q", buf.String())
	}
	buf.Reset()
	sim.ServeHTTP(w, httptest.NewRequest("GET", "/summary", nil))
	if !strings.Contains(buf.String(), "ERROR /summary") {
		t.Errorf("写出错误应记录: %q", buf.String())
	}
}
