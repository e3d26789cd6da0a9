package load

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rccircuit/types"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
circuit:
  capacitance: 2.2e-6
  resistance: 470
  internal_resistance: 5
  emf: 12
  source: ac
  alpha: 0.0039
  temperature: 40
simulation:
  time_step: 1e-6
  discharge: true
export:
  precision: 4
  separator: ","
animation:
  interval: 20ms
`))
	if err != nil {
		t.Fatalf("解析配置失败: %s", err)
	}
	want := types.Params{
		Capacitance:        2.2e-6,
		Resistance:         470,
		InternalResistance: 5,
		EMF:                12,
		Source:             types.SourceAC,
		Alpha:              0.0039,
		Temperature:        40,
	}
	if cfg.Circuit != want {
		t.Errorf("电路参数不正确: %s", cfg.Circuit)
	}
	if cfg.Simulation.TimeStep != 1e-6 || !cfg.Simulation.Discharge {
		t.Errorf("仿真设置不正确: %+v", cfg.Simulation)
	}
	if cfg.Animation.Interval != 20*time.Millisecond || cfg.Animation.Step != 1 {
		t.Errorf("动画设置不正确: %+v", cfg.Animation)
	}
	o, err := cfg.ExportOptions()
	if err != nil || o.Precision != 4 || o.Separator != ',' || o.MaxRows != types.CSVMaxRows {
		t.Errorf("导出设置不正确: %+v %v", o, err)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("空配置应使用默认值: %s", err)
	}
	if cfg.Circuit != types.DefaultParams() || cfg.Simulation.TimeStep != types.DefaultTimeStep {
		t.Errorf("默认配置不正确: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]error{
		"circuit: {capacitance: 0}":  types.ErrInvalidParams,
		"circuit: {resistance: -1}":  types.ErrInvalidParams,
		"circuit: {source: pulse}":   types.ErrSourceType,
		"simulation: {time_step: 0}": types.ErrTimeStep,
		"export: {precision: 0}":     types.ErrPrecision,
		"export: {separator: \";\"}": types.ErrSeparator,
	}
	for data, want := range cases {
		if _, err := Parse([]byte(data)); !errors.Is(err, want) {
			t.Errorf("%s: 期望 %v, 实际 %v", data, want, err)
		}
	}
	if _, err := Parse([]byte("unknown: 1")); err == nil {
		t.Errorf("未知字段应失败")
	}
}

func TestLoadFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Circuit.EMF = 5
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("输出配置失败: %s", err)
	}
	filename := filepath.Join(t.TempDir(), "rc.yaml")
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFile(filename)
	if err != nil {
		t.Fatalf("加载配置失败: %s", err)
	}
	if loaded.Circuit != cfg.Circuit || loaded.Animation != cfg.Animation {
		t.Errorf("配置往返不一致: %+v", loaded)
	}
	if _, err := LoadFile(filename + ".missing"); err == nil {
		t.Errorf("文件不存在应失败")
	}
}
