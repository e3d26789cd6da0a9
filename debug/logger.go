package debug

import (
	"log"

	"rccircuit/types"
)

// Logger 基于标准日志的调试输出
type Logger struct {
	*log.Logger
	Verbose bool // 输出调试信息
}

// NewLogger 创建日志调试,l 为空时使用默认日志
func NewLogger(l *log.Logger, verbose bool) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{Logger: l, Verbose: verbose}
}

func (l *Logger) IsDebug() bool { return l.Verbose }

func (l *Logger) Debugf(format string, args ...any) {
	if l.Verbose {
		l.Printf("DEBUG "+format, args...)
	}
}

func (l *Logger) Update(r *types.Result) {
	if !l.Verbose || r.Len() == 0 {
		return
	}
	n := min(5, r.Len())
	l.Printf("DEBUG 结果: time_len=%d time_first=%v vc_first=%v i_first=%v",
		r.Len(), r.Time[:n], r.Voltage[:n], r.Current[:n])
}

func (l *Logger) Error(err error) { l.Println("ERROR", err) }

// multi 多路调试输出
type multi []types.Debug

// Multi 合并多个调试接口,忽略空值
func Multi(list ...types.Debug) types.Debug {
	m := make(multi, 0, len(list))
	for _, d := range list {
		if d != nil {
			m = append(m, d)
		}
	}
	return m
}

func (m multi) IsDebug() bool {
	for _, d := range m {
		if d.IsDebug() {
			return true
		}
	}
	return false
}

func (m multi) Debugf(format string, args ...any) {
	for _, d := range m {
		if d.IsDebug() {
			d.Debugf(format, args...)
		}
	}
}

func (m multi) Update(r *types.Result) {
	for _, d := range m {
		d.Update(r)
	}
}

func (m multi) Error(err error) {
	for _, d := range m {
		d.Error(err)
	}
}
