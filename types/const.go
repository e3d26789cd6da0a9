package types

// 电路计算常量定义
const (
	ReferenceTemperature = 25.0 // 电阻温度系数参考温度 °C
	TauMultiplier        = 5.0  // 仿真时长为时间常数的倍数
	ACFrequency          = 50.0 // 交流源固定频率 Hz
	EnergyCoeff          = 0.5  // 电容储能系数 W=½CV²
)

// 导出精度范围
const (
	PrecisionMin = 1  // 最小小数位数
	PrecisionMax = 12 // 最大小数位数
)

// 默认参数常量定义
var (
	DefaultCapacitance        = 1e-6   // 默认电容 F
	DefaultResistance         = 1000.0 // 默认电阻 Ω
	DefaultEMF                = 10.0   // 默认电动势 V
	DefaultInternalResistance = 0.0    // 默认内阻 Ω
	DefaultAlpha              = 0.0001 // 默认温度系数 1/°C
	DefaultTemperature        = 25.0   // 默认温度 °C
	DefaultTimeStep           = 1e-5   // 默认时间步长 s
	DefaultPrecision          = 6      // 默认导出小数位数
	CSVMaxRows                = 1000   // 导出最大行数
)

// MaxPoints 单次计算允许的最大采样点数
var MaxPoints = 10_000_000
