package types

import "errors"

// 计算错误分类
var (
	ErrInvalidParams = errors.New("参数必须为正(内阻可以为0)")
	ErrDegenerateTau = errors.New("时间常数无效")
	ErrNonNumeric    = errors.New("结果包含非数值")
	ErrTimeStep      = errors.New("时间步长必须为正")
	ErrTooManyPoints = errors.New("采样点数超出上限")
	ErrNoResult      = errors.New("尚未完成仿真计算")
)

// 配置错误
var (
	ErrSourceType = errors.New("未知电源类型")
	ErrPrecision  = errors.New("导出精度超出范围")
	ErrSeparator  = errors.New("小数分隔符只能为 '.' 或 ','")
)
