package types

import (
	"fmt"
	"math"
)

// Params 串联RC电路参数
// 值类型,校验通过后整体替换,不做逐字段修改.
type Params struct {
	Capacitance        float64    `yaml:"capacitance" json:"capacitance"`                 // 电容 C (F)
	Resistance         float64    `yaml:"resistance" json:"resistance"`                   // 电阻 R (Ω)
	InternalResistance float64    `yaml:"internal_resistance" json:"internal_resistance"` // 电源内阻 R_int (Ω)
	EMF                float64    `yaml:"emf" json:"emf"`                                 // 电动势幅值 V0 (V)
	Source             SourceType `yaml:"source" json:"source"`                           // 电源类型
	Alpha              float64    `yaml:"alpha" json:"alpha"`                             // 电阻温度系数 (1/°C)
	Temperature        float64    `yaml:"temperature" json:"temperature"`                 // 温度 (°C)
}

// DefaultParams 默认参数
func DefaultParams() Params {
	return Params{
		Capacitance:        DefaultCapacitance,
		Resistance:         DefaultResistance,
		InternalResistance: DefaultInternalResistance,
		EMF:                DefaultEMF,
		Source:             SourceDC,
		Alpha:              DefaultAlpha,
		Temperature:        DefaultTemperature,
	}
}

// Validate 校验参数
// C、R、V0 必须为正, R_int 不能为负. NaN 比较结果为假,同样被拒绝.
func (p Params) Validate() error {
	switch {
	case !(p.Capacitance > 0):
		return fmt.Errorf("%w: C=%g", ErrInvalidParams, p.Capacitance)
	case !(p.Resistance > 0):
		return fmt.Errorf("%w: R=%g", ErrInvalidParams, p.Resistance)
	case !(p.EMF > 0):
		return fmt.Errorf("%w: V0=%g", ErrInvalidParams, p.EMF)
	case !(p.InternalResistance >= 0):
		return fmt.Errorf("%w: R_int=%g", ErrInvalidParams, p.InternalResistance)
	case p.Source != SourceDC && p.Source != SourceAC:
		return fmt.Errorf("%w: %d", ErrSourceType, uint8(p.Source))
	}
	return nil
}

// EffectiveResistance 等效电阻 R·(1+α·(T−25)) + R_int
func (p Params) EffectiveResistance() float64 {
	return p.Resistance*(1+p.Alpha*(p.Temperature-ReferenceTemperature)) + p.InternalResistance
}

// Tau 时间常数 τ = R_eff·C
func (p Params) Tau() float64 { return p.EffectiveResistance() * p.Capacitance }

// Omega 交流源角频率
func Omega() float64 { return 2 * math.Pi * ACFrequency }

// Impedance 阻抗模值,直流时为等效电阻
func (p Params) Impedance() float64 {
	rEff := p.EffectiveResistance()
	if p.Source != SourceAC {
		return rEff
	}
	xc := 1 / (Omega() * p.Capacitance)
	return math.Sqrt(rEff*rEff + xc*xc)
}

func (p Params) String() string {
	return fmt.Sprintf("C=%g R=%g V0=%g R_int=%g source=%s alpha=%g temperature=%g",
		p.Capacitance, p.Resistance, p.EMF, p.InternalResistance, p.Source, p.Alpha, p.Temperature)
}
