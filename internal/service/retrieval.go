package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/langchou/evhighway/internal/api/evcharger"
	"github.com/langchou/evhighway/internal/config"
	"github.com/langchou/evhighway/internal/ingest"
	"github.com/langchou/evhighway/internal/metrics"
	"github.com/langchou/evhighway/internal/state"
)

// 用户可见的错误提示
const (
	msgMissingCredential = "API 인증키가 설정되지 않았습니다. 설정 페이지에서 키를 입력해주세요."
	msgInvalidCredential = "API 인증키가 유효하지 않습니다. 키를 확인해주세요."
	msgEmptyAfterSynth   = "데이터를 불러왔지만 처리 가능한 충전소 정보가 없습니다. API 응답을 확인해주세요."
	msgSettingsStore     = "설정 저장소에서 API 인증키를 읽을 수 없습니다"
)

// ChargerSource 充电桩数据源
type ChargerSource interface {
	FetchChargers(ctx context.Context, serviceKey string) (*evcharger.Result, error)
}

// CredentialSource 密钥来源，未配置时返回空字符串
type CredentialSource interface {
	APIKey(ctx context.Context) (string, error)
}

// RetrievalService 定时抓取充电桩信息并维护当前数据集
type RetrievalService struct {
	cfg     *config.Config
	logger  *zap.Logger
	source  ChargerSource
	creds   CredentialSource
	synth   *ingest.Synthesizer
	machine *state.Machine
	now     func() time.Time

	mu          sync.Mutex
	baseCtx     context.Context
	stopCh      chan struct{}
	cancelLoop  context.CancelFunc
	wg          sync.WaitGroup
	running     bool
	subscribers []chan state.Status

	// cycleMu 保证 "是否最新一轮" 的判断和状态转换是原子的
	cycleMu    sync.Mutex
	generation uint64
}

// NewRetrievalService 创建抓取服务
func NewRetrievalService(
	cfg *config.Config,
	logger *zap.Logger,
	source ChargerSource,
	creds CredentialSource,
	synth *ingest.Synthesizer,
) *RetrievalService {
	s := &RetrievalService{
		cfg:    cfg,
		logger: logger,
		source: source,
		creds:  creds,
		synth:  synth,
		now:    time.Now,
	}
	s.machine = state.NewMachine(s.onStateChange)
	return s
}

// Start 启动定时抓取，立即执行一次
func (s *RetrievalService) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("start retrieval: nil context")
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Info("Retrieval service already running, skipping start")
		return nil
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.baseCtx = ctx
	s.stopCh = make(chan struct{})
	s.cancelLoop = cancel
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	go s.pollLoop(loopCtx)

	s.logger.Info("Retrieval service started", zap.Duration("interval", s.cfg.RefreshInterval))
	return nil
}

// Stop 停止定时抓取并取消进行中的请求
func (s *RetrievalService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	cancel := s.cancelLoop
	s.cancelLoop = nil
	s.mu.Unlock()

	// 进行中的请求被取消，其结果按过期处理
	s.nextGeneration()
	cancel()
	s.wg.Wait()
	s.logger.Info("Retrieval service stopped")
}

// Running 定时抓取是否在运行
func (s *RetrievalService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// CredentialChanged 密钥保存后重启轮询，清除后停止轮询
func (s *RetrievalService) CredentialChanged(ctx context.Context, present bool) error {
	s.Stop()
	if !present {
		s.failWithoutFetch(s.nextGeneration(), state.MissingCredential, msgMissingCredential)
		return nil
	}

	s.mu.Lock()
	base := s.baseCtx
	s.mu.Unlock()
	if base == nil {
		base = context.Background()
	}
	return s.Start(base)
}

// Status 当前状态
func (s *RetrievalService) Status() state.Status {
	return s.machine.Status()
}

// Subscribe 订阅状态变化
func (s *RetrievalService) Subscribe() <-chan state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan state.Status, 10)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// pollLoop 轮询循环，每个周期相互独立，失败不重试
func (s *RetrievalService) pollLoop(ctx context.Context) {
	defer s.wg.Done()

	s.mu.Lock()
	stopCh := s.stopCh
	s.mu.Unlock()

	s.Refresh(ctx)

	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh 执行一次抓取周期并返回结束后的状态
func (s *RetrievalService) Refresh(ctx context.Context) state.Status {
	cycleID := uuid.NewString()
	started := s.now()
	logger := s.logger.With(zap.String("cycle_id", cycleID))

	key, err := s.creds.APIKey(ctx)
	if err != nil {
		// 存储不可用不代表密钥缺失
		s.failWithoutFetch(s.nextGeneration(), state.TransportFailure, fmt.Sprintf("%s: %v", msgSettingsStore, err))
		metrics.RecordFetch(string(state.TransportFailure), s.now().Sub(started))
		logger.Error("Failed to load credential", zap.Error(err))
		return s.machine.Status()
	}
	if key == "" {
		s.failWithoutFetch(s.nextGeneration(), state.MissingCredential, msgMissingCredential)
		metrics.RecordFetch(string(state.MissingCredential), s.now().Sub(started))
		logger.Warn("No credential configured, skipping fetch")
		return s.machine.Status()
	}

	gen, err := s.beginCycle(started)
	if err != nil {
		logger.Error("Failed to enter loading state", zap.Error(err))
		return s.machine.Status()
	}
	logger = logger.With(zap.Uint64("generation", gen))
	logger.Debug("Fetching charger info")

	result, fetchErr := s.source.FetchChargers(ctx, key)

	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	if gen != s.generation {
		// 已有更新的周期开始，丢弃本次结果
		logger.Info("Discarding stale fetch result", zap.Uint64("latest_generation", s.generation))
		metrics.RecordFetch("stale", s.now().Sub(started))
		return s.machine.Status()
	}

	if fetchErr != nil {
		failed := classifyError(fetchErr)
		failed.At = s.now()
		if err := s.machine.Fail(failed); err != nil {
			logger.Error("Failed to enter failed state", zap.Error(err))
		}
		metrics.RecordFetch(string(failed.Kind), s.now().Sub(started))
		logger.Error("Fetch charger info failed",
			zap.String("kind", string(failed.Kind)),
			zap.Error(fetchErr))
		return s.machine.Status()
	}

	sessions := s.synth.Synthesize(result.Items)
	loaded := state.Loaded{
		Data: &state.Dataset{
			Sessions:    sessions,
			TotalCount:  result.TotalCount,
			LastUpdated: s.now(),
			Location:    s.synth.Location(),
		},
	}
	if result.TotalCount > 0 && len(sessions) == 0 {
		loaded.Advisory = msgEmptyAfterSynth
		loaded.AdvisoryKind = state.EmptyAfterTransform
		logger.Warn("Provider returned records but none survived synthesis",
			zap.Int("total_count", result.TotalCount),
			zap.Int("items", len(result.Items)))
	}
	if err := s.machine.Succeed(loaded); err != nil {
		logger.Error("Failed to enter loaded state", zap.Error(err))
		return s.machine.Status()
	}

	metrics.RecordFetch(state.StateLoaded, s.now().Sub(started))
	metrics.RecordDataset(result.TotalCount, len(sessions), len(result.Items)-len(sessions))
	logger.Info("Charger info refreshed",
		zap.Int("total_count", result.TotalCount),
		zap.Int("items", len(result.Items)),
		zap.Int("sessions", len(sessions)),
		zap.Duration("took", s.now().Sub(started)))

	return s.machine.Status()
}

// beginCycle 分配新的周期编号并进入 loading
func (s *RetrievalService) beginCycle(at time.Time) (uint64, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	s.generation++
	if err := s.machine.BeginLoading(at); err != nil {
		return s.generation, err
	}
	return s.generation, nil
}

// nextGeneration 使进行中的周期失效
func (s *RetrievalService) nextGeneration() uint64 {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	s.generation++
	return s.generation
}

// failWithoutFetch 未发出请求时直接进入 failed
func (s *RetrievalService) failWithoutFetch(gen uint64, kind state.FailureKind, message string) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	if gen != s.generation {
		return
	}
	if err := s.machine.Fail(state.Failed{
		Kind:    kind,
		Message: message,
		At:      s.now(),
	}); err != nil {
		s.logger.Error("Failed to enter failed state", zap.Error(err))
	}
}

// onStateChange 状态变化回调
func (s *RetrievalService) onStateChange(from, to state.Status) {
	s.logger.Debug("Retrieval state changed",
		zap.String("from", from.Name()),
		zap.String("to", to.Name()))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- to:
		default:
			// 跳过慢消费者
		}
	}
}

// classifyError 将客户端错误映射为用户可见的失败
func classifyError(err error) state.Failed {
	var (
		statusErr   *evcharger.StatusError
		providerErr *evcharger.ProviderError
		decodeErr   *evcharger.DecodeError
	)

	switch {
	case errors.Is(err, evcharger.ErrInvalidServiceKey):
		return state.Failed{Kind: state.InvalidCredential, Message: msgInvalidCredential}
	case errors.As(err, &providerErr):
		return state.Failed{Kind: state.ProviderError, Message: "API 오류: " + providerErr.Message}
	case errors.As(err, &statusErr):
		if statusErr.StatusCode != 0 {
			return state.Failed{Kind: state.TransportFailure, Message: fmt.Sprintf("API 요청 실패: Status %d", statusErr.StatusCode)}
		}
		return state.Failed{Kind: state.TransportFailure, Message: fmt.Sprintf("API 요청 실패: %v", statusErr.Err)}
	case errors.As(err, &decodeErr):
		return state.Failed{Kind: state.TransportFailure, Message: fmt.Sprintf("API 응답을 해석할 수 없습니다: %v", decodeErr.Err)}
	default:
		return state.Failed{Kind: state.TransportFailure, Message: fmt.Sprintf("데이터를 불러오는 중 알 수 없는 오류가 발생했습니다: %v", err)}
	}
}
