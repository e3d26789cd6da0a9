package types

// Result 单次仿真结果
// 每次成功计算整体生成,不做局部更新.
type Result struct {
	Params    Params  `json:"params"`    // 计算所用参数
	TimeStep  float64 `json:"time_step"` // 时间步长 s
	Discharge bool    `json:"discharge"` // 放电模式

	Time    []float64 `json:"time"`      // 时间列 s
	Voltage []float64 `json:"voltage_c"` // 电容电压列 V
	Current []float64 `json:"current"`   // 电流列 A

	Tau        float64 `json:"tau"`         // 时间常数 s
	PhaseShift float64 `json:"phase_shift"` // 电流相移 rad,直流为0
	Energy     float64 `json:"energy"`      // 末点电容储能 J
	PowerLoss  float64 `json:"power_loss"`  // 平均耗散功率 W
}

// Len 采样点数
func (r *Result) Len() int { return len(r.Time) }

// Last 最后一个采样点
func (r *Result) Last() (t, vc, i float64) {
	n := len(r.Time) - 1
	if n < 0 {
		return 0, 0, 0
	}
	return r.Time[n], r.Voltage[n], r.Current[n]
}

// ChargeLevel 归一化充电程度 Vc/V0,范围 [0,1]
// 交流模式下电压为负时取0.
func (r *Result) ChargeLevel(i int) float64 {
	if i < 0 || i >= len(r.Voltage) || r.Params.EMF == 0 {
		return 0
	}
	level := r.Voltage[i] / r.Params.EMF
	switch {
	case level < 0:
		return 0
	case level > 1:
		return 1
	}
	return level
}

// EffectiveResistance 计算所用等效电阻
func (r *Result) EffectiveResistance() float64 { return r.Params.EffectiveResistance() }

// Impedance 计算所用阻抗
func (r *Result) Impedance() float64 { return r.Params.Impedance() }
