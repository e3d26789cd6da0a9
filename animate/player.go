package animate

import (
	"context"
	"sync"
	"time"

	"rccircuit/types"
)

// 帧间隔范围
const (
	MinInterval     = 10 * time.Millisecond
	MaxInterval     = 200 * time.Millisecond
	DefaultInterval = 50 * time.Millisecond
)

// Frame 一帧动画数据
type Frame struct {
	Index       int     // 采样索引
	Time        float64 // 时间 s
	Voltage     float64 // 电容电压 V
	Current     float64 // 电流 A
	ChargeLevel float64 // 充电程度 [0,1]
}

// FrameAt 取第 i 个采样点的帧
func FrameAt(r *types.Result, i int) Frame {
	return Frame{
		Index:       i,
		Time:        r.Time[i],
		Voltage:     r.Voltage[i],
		Current:     r.Current[i],
		ChargeLevel: r.ChargeLevel(i),
	}
}

// ClampInterval 限制帧间隔
func ClampInterval(d time.Duration) time.Duration {
	switch {
	case d < MinInterval:
		return MinInterval
	case d > MaxInterval:
		return MaxInterval
	}
	return d
}

// Player 逐帧播放仿真结果
type Player struct {
	result   *types.Result
	interval time.Duration
	step     int

	mu     sync.Mutex
	paused bool
	resume chan struct{}
}

// NewPlayer 创建播放器, step 为每次推进的采样数
func NewPlayer(r *types.Result, interval time.Duration, step int) *Player {
	if step < 1 {
		step = 1
	}
	return &Player{
		result:   r,
		interval: ClampInterval(interval),
		step:     step,
		resume:   make(chan struct{}),
	}
}

// Frames 播放的总帧数
func (p *Player) Frames() int {
	if p.result == nil || p.result.Len() == 0 {
		return 0
	}
	last := p.result.Len() - 1
	n := last/p.step + 1
	if last%p.step != 0 {
		n++
	}
	return n
}

// Pause 暂停播放
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
}

// Resume 继续播放
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		p.paused = false
		close(p.resume)
		p.resume = make(chan struct{})
	}
}

// Paused 是否暂停
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Player) wait(ctx context.Context) error {
	p.mu.Lock()
	paused, resume := p.paused, p.resume
	p.mu.Unlock()
	if !paused {
		return nil
	}
	select {
	case <-resume:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Play 按帧间隔回调,直到最后一帧或 ctx 取消
// 最后一帧总是最后一个采样点.
func (p *Player) Play(ctx context.Context, call func(Frame)) error {
	if p.result == nil || p.result.Len() == 0 {
		return types.ErrNoResult
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	last := p.result.Len() - 1
	for i := 0; ; i += p.step {
		if i > last {
			i = last
		}
		if err := p.wait(ctx); err != nil {
			return err
		}
		call(FrameAt(p.result, i))
		if i == last {
			return nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
