package debug

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"rccircuit/types"

	"github.com/google/uuid"
)

// Run 一次成功的计算记录
type Run struct {
	ID      uuid.UUID     `json:"id"`      // 记录编号
	Created time.Time     `json:"created"` // 记录时间
	Result  *types.Result `json:"result"`  // 计算结果
}

// Record 记录历史计算
// 仅保存在内存中,不跨进程保留.
type Record struct {
	mu     sync.RWMutex
	Limit  int      `json:"-"`      // 最多保留的记录数,0 表示不限
	Runs   []Run    `json:"runs"`   // 计算记录
	Errors []string `json:"errors"` // 错误信息
}

// NewRecord 创建记录器
func NewRecord(limit int) *Record { return &Record{Limit: limit} }

func (*Record) IsDebug() bool         { return false }
func (*Record) Debugf(string, ...any) {}

// Update 记录结果
func (list *Record) Update(r *types.Result) {
	list.mu.Lock()
	defer list.mu.Unlock()
	list.Runs = append(list.Runs, Run{ID: uuid.New(), Created: time.Now(), Result: r})
	if list.Limit > 0 && len(list.Runs) > list.Limit {
		list.Runs = append(list.Runs[:0:0], list.Runs[len(list.Runs)-list.Limit:]...)
	}
}

// Error 记录错误
func (list *Record) Error(err error) {
	list.mu.Lock()
	defer list.mu.Unlock()
	list.Errors = append(list.Errors, err.Error())
	if list.Limit > 0 && len(list.Errors) > list.Limit {
		list.Errors = append(list.Errors[:0:0], list.Errors[len(list.Errors)-list.Limit:]...)
	}
}

// Last 最近一次记录
func (list *Record) Last() (Run, bool) {
	list.mu.RLock()
	defer list.mu.RUnlock()
	if len(list.Runs) == 0 {
		return Run{}, false
	}
	return list.Runs[len(list.Runs)-1], true
}

// Len 记录数量
func (list *Record) Len() int {
	list.mu.RLock()
	defer list.mu.RUnlock()
	return len(list.Runs)
}

// Render 以 JSON 格式输出
func (list *Record) Render(w io.Writer) error {
	list.mu.RLock()
	defer list.mu.RUnlock()
	return json.NewEncoder(w).Encode(list)
}
