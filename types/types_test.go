package types

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("默认参数应有效: %s", err)
	}
	p := DefaultParams()
	p.InternalResistance = 0
	p.Alpha = -1
	p.Temperature = -273
	if err := p.Validate(); err != nil {
		t.Errorf("内阻为0、温度参数不受约束: %s", err)
	}
	bad := []func(*Params){
		func(p *Params) { p.Capacitance = 0 },
		func(p *Params) { p.Capacitance = -1e-6 },
		func(p *Params) { p.Resistance = 0 },
		func(p *Params) { p.EMF = -5 },
		func(p *Params) { p.InternalResistance = -1 },
		func(p *Params) { p.EMF = math.NaN() },
	}
	for i, set := range bad {
		p := DefaultParams()
		set(&p)
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("参数 %d 应被拒绝: %v", i, err)
		}
	}
}

func TestEffectiveResistance(t *testing.T) {
	p := Params{Capacitance: 1e-6, Resistance: 100, InternalResistance: 10, Alpha: 0.004, Temperature: 125}
	want := 100*(1+0.004*100) + 10.0
	if math.Abs(p.EffectiveResistance()-want) > 1e-12 {
		t.Errorf("等效电阻不正确: 期望 %v, 实际 %v", want, p.EffectiveResistance())
	}
	if math.Abs(p.Tau()-want*1e-6) > 1e-18 {
		t.Errorf("时间常数不正确: %v", p.Tau())
	}
	if p.Impedance() != p.EffectiveResistance() {
		t.Errorf("直流阻抗应等于等效电阻")
	}
}

func TestSourceType(t *testing.T) {
	for s, want := range map[string]SourceType{"DC": SourceDC, "ac": SourceAC, " Ac ": SourceAC} {
		got, err := ParseSourceType(s)
		if err != nil || got != want {
			t.Errorf("%q: 期望 %s, 实际 %s %v", s, want, got, err)
		}
	}
	if _, err := ParseSourceType("pulse"); !errors.Is(err, ErrSourceType) {
		t.Errorf("未知类型应失败: %v", err)
	}
	data, err := json.Marshal(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	var p Params
	if err := json.Unmarshal(data, &p); err != nil || p != DefaultParams() {
		t.Errorf("JSON 往返不一致: %s %v", data, err)
	}
	if _, err := SourceType(9).MarshalText(); !errors.Is(err, ErrSourceType) {
		t.Errorf("无效类型编码应失败")
	}
}

func TestChargeLevel(t *testing.T) {
	r := &Result{
		Params:  Params{EMF: 10},
		Time:    []float64{0, 1, 2},
		Voltage: []float64{-2, 5, 12},
		Current: []float64{0, 0, 0},
	}
	if r.ChargeLevel(0) != 0 || r.ChargeLevel(1) != 0.5 || r.ChargeLevel(2) != 1 || r.ChargeLevel(3) != 0 {
		t.Errorf("充电程度不正确")
	}
	r.Params.EMF = 0
	if r.ChargeLevel(1) != 0 {
		t.Errorf("V0 为0时充电程度应为0")
	}
	if tm, vc, _ := r.Last(); tm != 2 || vc != 12 {
		t.Errorf("末点不正确: %v %v", tm, vc)
	}
	if _, _, i := (&Result{}).Last(); i != 0 {
		t.Errorf("空结果末点应为0")
	}
}
