package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/langchou/evhighway/internal/models"
)

// 抓取状态常量
const (
	StateIdle    = "idle"
	StateLoading = "loading"
	StateLoaded  = "loaded"
	StateFailed  = "failed"
)

// 事件常量
const (
	EventFetch   = "fetch"
	EventSucceed = "succeed"
	EventFail    = "fail"
	EventReset   = "reset"
)

// FailureKind 错误分类
type FailureKind string

const (
	MissingCredential   FailureKind = "missing_credential"
	TransportFailure    FailureKind = "transport_failure"
	InvalidCredential   FailureKind = "invalid_credential"
	ProviderError       FailureKind = "provider_error"
	EmptyAfterTransform FailureKind = "empty_after_transform"
)

// CredentialRelated 是否需要引导用户去配置密钥
func (k FailureKind) CredentialRelated() bool {
	return k == MissingCredential || k == InvalidCredential
}

// Status 当前抓取状态，只能是 Idle / Loading / Loaded / Failed 之一
type Status interface {
	Name() string
	isStatus()
}

// Idle 尚未开始
type Idle struct{}

// Loading 抓取中
type Loading struct {
	Since time.Time
}

// Dataset 最近一次成功抓取的数据，创建后不再修改
type Dataset struct {
	Sessions    []models.ChargingSession
	TotalCount  int // 接口报告的充电桩总数
	LastUpdated time.Time
	Location    *time.Location
}

// Loaded 抓取成功
type Loaded struct {
	Data *Dataset
	// Advisory 非致命提示，例如接口有数据但全部被过滤
	Advisory     string
	AdvisoryKind FailureKind
}

// Failed 抓取失败，数据已清空
type Failed struct {
	Kind    FailureKind
	Message string
	At      time.Time
}

func (Idle) Name() string    { return StateIdle }
func (Loading) Name() string { return StateLoading }
func (Loaded) Name() string  { return StateLoaded }
func (Failed) Name() string  { return StateFailed }

func (Idle) isStatus()    {}
func (Loading) isStatus() {}
func (Loaded) isStatus()  {}
func (Failed) isStatus()  {}

// Machine 抓取状态机
type Machine struct {
	mu       sync.RWMutex
	fsm      *fsm.FSM
	status   Status
	onChange func(from, to Status)
}

// NewMachine 创建状态机
func NewMachine(onChange func(from, to Status)) *Machine {
	m := &Machine{
		status:   Idle{},
		onChange: onChange,
	}

	m.fsm = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventFetch, Src: []string{StateIdle, StateLoaded, StateFailed, StateLoading}, Dst: StateLoading},
			{Name: EventSucceed, Src: []string{StateLoading}, Dst: StateLoaded},
			// 缺少密钥时不经过 loading 直接失败
			{Name: EventFail, Src: []string{StateIdle, StateLoading, StateLoaded, StateFailed}, Dst: StateFailed},
			{Name: EventReset, Src: []string{StateLoading, StateLoaded, StateFailed}, Dst: StateIdle},
		},
		fsm.Callbacks{},
	)

	return m
}

// Current 当前状态名
func (m *Machine) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// Status 当前状态快照
func (m *Machine) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// BeginLoading 进入 loading
func (m *Machine) BeginLoading(at time.Time) error {
	return m.transition(EventFetch, Loading{Since: at})
}

// Succeed 进入 loaded，整体替换数据
func (m *Machine) Succeed(loaded Loaded) error {
	return m.transition(EventSucceed, loaded)
}

// Fail 进入 failed，丢弃当前数据
func (m *Machine) Fail(failed Failed) error {
	return m.transition(EventFail, failed)
}

// Reset 回到 idle
func (m *Machine) Reset() error {
	return m.transition(EventReset, Idle{})
}

// CanTransition 检查是否可以转换
func (m *Machine) CanTransition(event string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Can(event)
}

// transition 触发事件并替换状态
func (m *Machine) transition(event string, next Status) error {
	m.mu.Lock()
	if err := m.fsm.Event(context.Background(), event); err != nil {
		// 同状态转换 (例如 failed -> failed) 仍需更新状态内容
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			m.mu.Unlock()
			return fmt.Errorf("trigger event %s: %w", event, err)
		}
	}
	prev := m.status
	m.status = next
	onChange := m.onChange
	m.mu.Unlock()

	if onChange != nil {
		onChange(prev, next)
	}
	return nil
}
