package engine

import (
	"fmt"
	"math"

	"rccircuit/types"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// spanTolerance 计算采样点数时吸收浮点表示误差的相对容差
// 例如 5·1e-3/1e-5 = 499.99999999999994 仍应得到 501 个点.
const spanTolerance = 1e-12

// Engine 串联RC电路计算引擎
// 持有一组已校验的参数和最近一次的计算结果.
// 引擎不加锁,调用方负责串行化 SetParameters 与 Calculate.
type Engine struct {
	params    types.Params
	result    *types.Result
	debug     types.Debug
	maxPoints int
}

// Option 引擎配置项
type Option func(*Engine)

// WithDebug 注入调试接口
func WithDebug(debug types.Debug) Option {
	return func(e *Engine) {
		if debug != nil {
			e.debug = debug
		}
	}
}

// WithMaxPoints 设置单次计算采样点上限
func WithMaxPoints(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPoints = n
		}
	}
}

// New 创建引擎,初始为默认参数,无结果
func New(opts ...Option) *Engine {
	e := &Engine{
		params:    types.DefaultParams(),
		debug:     types.NopDebug{},
		maxPoints: types.MaxPoints,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetParameters 校验并整体替换参数
// 校验失败时原参数保持不变.
func (e *Engine) SetParameters(p types.Params) error {
	if err := p.Validate(); err != nil {
		e.debug.Error(err)
		return err
	}
	e.params = p
	if e.debug.IsDebug() {
		e.debug.Debugf("参数设置: %s", p)
	}
	return nil
}

// Params 当前参数
func (e *Engine) Params() types.Params { return e.params }

// Calculate 计算电容电压和电流的时间响应
// 交流模式下忽略 discharge.
// 失败时不发布结果,并清除上一次的结果.
func (e *Engine) Calculate(timeStep float64, discharge bool) (*types.Result, error) {
	e.result = nil
	result, err := e.calculate(timeStep, discharge)
	if err != nil {
		e.debug.Error(err)
		return nil, err
	}
	e.result = result
	if e.debug.IsDebug() {
		e.debug.Debugf("计算完成: tau=%.6f energy=%.6f power_loss=%.6f points=%d",
			result.Tau, result.Energy, result.PowerLoss, result.Len())
	}
	e.debug.Update(result)
	return result, nil
}

func (e *Engine) calculate(timeStep float64, discharge bool) (*types.Result, error) {
	p := e.params
	if !(timeStep > 0) || math.IsInf(timeStep, 0) {
		return nil, fmt.Errorf("%w: dt=%g", types.ErrTimeStep, timeStep)
	}
	// 等效电阻与时间常数
	rEff := p.EffectiveResistance()
	tau := rEff * p.Capacitance
	if !(tau > 0) || math.IsInf(tau, 0) {
		return nil, fmt.Errorf("%w: tau=%g", types.ErrDegenerateTau, tau)
	}
	// 时间基准
	tMax := types.TauMultiplier * tau
	span := math.Floor(tMax / timeStep * (1 + spanTolerance))
	if span+1 > float64(e.maxPoints) {
		return nil, fmt.Errorf("%w: %.0f > %d", types.ErrTooManyPoints, span+1, e.maxPoints)
	}
	n := int(span) + 1
	t := timeBase(n, tMax)
	vc := make([]float64, n)
	current := make([]float64, n)
	phase := 0.0
	// 轨迹
	switch p.Source {
	case types.SourceAC:
		omega := types.Omega()
		wrc := omega * rEff * p.Capacitance
		xc := 1 / (omega * p.Capacitance)
		z := math.Sqrt(rEff*rEff + xc*xc)
		phase = math.Atan(1 / wrc)
		vAmp := p.EMF / math.Sqrt(1+wrc*wrc)
		iAmp := p.EMF / z
		for k, tk := range t {
			vc[k] = vAmp * math.Sin(omega*tk)
			current[k] = iAmp * math.Sin(omega*tk-phase)
		}
	default:
		i0 := p.EMF / rEff
		for k, tk := range t {
			decay := math.Exp(-tk / tau)
			if discharge {
				vc[k] = p.EMF * decay
				current[k] = -i0 * decay
			} else {
				vc[k] = p.EMF * (1 - decay)
				current[k] = i0 * decay
			}
		}
	}
	// 储能与耗散
	last := vc[n-1]
	energy := types.EnergyCoeff * p.Capacitance * last * last
	loss := make([]float64, n)
	for k, i := range current {
		loss[k] = i * i * rEff
	}
	powerLoss := stat.Mean(loss, nil)
	// 数值检查
	for _, list := range [][]float64{t, vc, current} {
		if !allFinite(list) {
			return nil, types.ErrNonNumeric
		}
	}
	if math.IsNaN(energy) || math.IsInf(energy, 0) || math.IsNaN(powerLoss) || math.IsInf(powerLoss, 0) {
		return nil, types.ErrNonNumeric
	}
	return &types.Result{
		Params:     p,
		TimeStep:   timeStep,
		Discharge:  discharge && p.Source == types.SourceDC,
		Time:       t,
		Voltage:    vc,
		Current:    current,
		Tau:        tau,
		PhaseShift: phase,
		Energy:     energy,
		PowerLoss:  powerLoss,
	}, nil
}

// timeBase 在 [0, tMax] 上均匀取 n 个点,包含两端
func timeBase(n int, tMax float64) []float64 {
	t := make([]float64, n)
	if n < 2 {
		return t
	}
	return floats.Span(t, 0, tMax)
}

func allFinite(list []float64) bool {
	if floats.HasNaN(list) {
		return false
	}
	for _, v := range list {
		if math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Result 最近一次成功的计算结果
func (e *Engine) Result() (*types.Result, bool) { return e.result, e.result != nil }

// Time 时间列,无结果时返回 nil
func (e *Engine) Time() []float64 {
	if e.result == nil {
		return nil
	}
	return e.result.Time
}

// Voltage 电容电压列
func (e *Engine) Voltage() []float64 {
	if e.result == nil {
		return nil
	}
	return e.result.Voltage
}

// Current 电流列
func (e *Engine) Current() []float64 {
	if e.result == nil {
		return nil
	}
	return e.result.Current
}

// Tau 时间常数,无结果时返回 0
func (e *Engine) Tau() float64 {
	if e.result == nil {
		return 0
	}
	return e.result.Tau
}

// PhaseShift 相位差,直流为 0
func (e *Engine) PhaseShift() float64 {
	if e.result == nil {
		return 0
	}
	return e.result.PhaseShift
}

// Energy 末时刻电容储能
func (e *Engine) Energy() float64 {
	if e.result == nil {
		return 0
	}
	return e.result.Energy
}

// PowerLoss 平均功率损耗
func (e *Engine) PowerLoss() float64 {
	if e.result == nil {
		return 0
	}
	return e.result.PowerLoss
}
