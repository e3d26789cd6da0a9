package types

// Debug 调试接口
// 由调用方注入,计算核心只通过它输出信息,不配置全局日志.
type Debug interface {
	IsDebug() bool                     // 是否输出调试信息
	Debugf(format string, args ...any) // 调试信息
	Update(result *Result)             // 计算成功后回调
	Error(err error)                   // 计算失败回调
}

// NopDebug 空实现
type NopDebug struct{}

func (NopDebug) IsDebug() bool         { return false }
func (NopDebug) Debugf(string, ...any) {}
func (NopDebug) Update(*Result)        {}
func (NopDebug) Error(error)           {}
