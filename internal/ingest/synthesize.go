package ingest

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/langchou/evhighway/internal/api/evcharger"
	"github.com/langchou/evhighway/internal/models"
)

// 合成参数
const (
	DefaultOutputKW   = 50.0
	MinChargeAmount   = 5.0
	maxChargeHours    = 2.0
	fallbackLookback  = 7 * 24 * time.Hour
	fallbackMaxLength = 2 * time.Hour
)

// Estimator 缺失时间戳时的估算策略
type Estimator interface {
	// StartOffset 返回开始时间距 now 的回溯量，范围 [0, 7d)
	StartOffset() time.Duration
	// Duration 返回会话时长，范围 [0, 2h)
	Duration() time.Duration
}

// RandomEstimator 随机估算
type RandomEstimator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomEstimator 创建随机估算器
func NewRandomEstimator(seed int64) *RandomEstimator {
	return &RandomEstimator{rnd: rand.New(rand.NewSource(seed))}
}

func (e *RandomEstimator) StartOffset() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return time.Duration(e.rnd.Int63n(int64(fallbackLookback)))
}

func (e *RandomEstimator) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return time.Duration(e.rnd.Int63n(int64(fallbackMaxLength)))
}

// FixedEstimator 固定值估算，用于测试
type FixedEstimator struct {
	Offset time.Duration
	Length time.Duration
}

func (e FixedEstimator) StartOffset() time.Duration { return e.Offset }

func (e FixedEstimator) Duration() time.Duration { return e.Length }

// Synthesizer 将充电桩记录转换为充电会话
type Synthesizer struct {
	loc       *time.Location
	estimator Estimator
	now       func() time.Time
}

// NewSynthesizer 创建合成器
func NewSynthesizer(loc *time.Location, estimator Estimator, now func() time.Time) *Synthesizer {
	if loc == nil {
		loc = time.Local
	}
	if estimator == nil {
		estimator = NewRandomEstimator(time.Now().UnixNano())
	}
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{loc: loc, estimator: estimator, now: now}
}

// Location 时间解析使用的时区
func (s *Synthesizer) Location() *time.Location {
	return s.loc
}

// Synthesize 批量转换，坐标无效的记录被跳过
func (s *Synthesizer) Synthesize(items []evcharger.ChargerInfo) []models.ChargingSession {
	sessions := make([]models.ChargingSession, 0, len(items))
	now := s.now().In(s.loc)
	for i := range items {
		if session, ok := s.synthesizeOne(&items[i], now); ok {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

// synthesizeOne 转换单条记录
func (s *Synthesizer) synthesizeOne(item *evcharger.ChargerInfo, now time.Time) (models.ChargingSession, bool) {
	lat, okLat := parseCoordinate(item.Lat)
	lng, okLng := parseCoordinate(item.Lng)
	if !okLat || !okLng {
		return models.ChargingSession{}, false
	}

	outputKW := parseOutput(item.Output)

	startTime, ok := ParseTimestamp(item.LastTsdt, s.loc)
	if !ok {
		startTime = now.Add(-s.estimator.StartOffset())
	}
	endTime, ok := ParseTimestamp(item.LastTedt, s.loc)
	if !ok {
		endTime = startTime.Add(s.estimator.Duration())
	}

	return models.ChargingSession{
		ID:            item.StatID + "-" + item.ChgerID,
		StationID:     item.StatID,
		Operator:      firstNonEmpty(item.BusiNm, item.Bnm, models.UnknownOperator),
		StartTime:     startTime,
		EndTime:       endTime,
		ChargeAmount:  ChargeAmount(outputKW, endTime.Sub(startTime)),
		Location:      firstNonEmpty(item.StatNm, models.DefaultLocation),
		Highway:       InferHighway(item.Addr),
		ConnectorType: MapConnectorCode(item.ChgerType),
		Lat:           lat,
		Lng:           lng,
	}, true
}

// ChargeAmount 估算充电量：时长封顶 2 小时，下限 5kWh
func ChargeAmount(outputKW float64, duration time.Duration) float64 {
	hours := math.Min(duration.Hours(), maxChargeHours)
	return math.Max(MinChargeAmount, outputKW*hours)
}

// parseCoordinate 解析经纬度
func parseCoordinate(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseOutput 解析额定功率，无法解析或为 0 时使用默认值
func parseOutput(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultOutputKW
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
