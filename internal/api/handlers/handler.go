package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/langchou/evhighway/internal/settings"
	"github.com/langchou/evhighway/internal/state"
	"github.com/langchou/evhighway/pkg/ws"
)

// Retriever 抓取服务
type Retriever interface {
	Status() state.Status
	Refresh(ctx context.Context) state.Status
	CredentialChanged(ctx context.Context, present bool) error
}

// Handler HTTP 处理器
type Handler struct {
	logger       *zap.Logger
	retrieval    Retriever
	settings     *settings.Settings
	wsHub        *ws.Hub
	pricePerKWh  float64
	refreshLimit *RateLimiter
	upgrader     websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(
	logger *zap.Logger,
	retrieval Retriever,
	prefs *settings.Settings,
	wsHub *ws.Hub,
	pricePerKWh float64,
	refreshPerMinute int,
) *Handler {
	return &Handler{
		logger:       logger,
		retrieval:    retrieval,
		settings:     prefs,
		wsHub:        wsHub,
		pricePerKWh:  pricePerKWh,
		refreshLimit: NewRateLimiter(refreshPerMinute, time.Minute),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 开发环境允许所有来源
			},
		},
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(metricsMiddleware())

	// API 路由
	api := r.Group("/api")
	{
		// 抓取状态
		api.GET("/status", h.GetStatus)
		api.POST("/refresh", h.refreshLimit.Middleware("refresh"), h.TriggerRefresh)

		// 数据
		api.GET("/filters/options", h.GetFilterOptions)
		api.GET("/sessions", h.ListSessions)

		// 分析视图
		api.GET("/overview", h.GetOverview)
		api.GET("/operators", h.GetOperatorComparison)
		api.GET("/regional", h.GetRegional)
		api.GET("/time-pattern", h.GetTimePattern)
		api.GET("/competitive", h.GetCompetitive)

		// 设置
		api.GET("/settings/api-key", h.GetAPIKeyStatus)
		api.PUT("/settings/api-key", h.SaveAPIKey)
		api.DELETE("/settings/api-key", h.ClearAPIKey)
		api.GET("/settings/theme", h.GetTheme)
		api.PUT("/settings/theme", h.SaveTheme)
	}

	// WebSocket
	if h.wsHub != nil {
		r.GET("/ws", h.HandleWebSocket)
	}

	// 健康检查
	r.GET("/health", h.HealthCheck)

	// Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// HandleWebSocket WebSocket 处理
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.ClientCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"state":      h.retrieval.Status().Name(),
		"ws_clients": clients,
	})
}

// GetStatus 获取抓取状态
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": state.Describe(h.retrieval.Status())})
}

// TriggerRefresh 手动触发一次抓取
// POST /api/refresh
func (h *Handler) TriggerRefresh(c *gin.Context) {
	status := h.retrieval.Refresh(c.Request.Context())
	h.logger.Info("Manual refresh finished", zap.String("state", status.Name()))
	c.JSON(http.StatusOK, gin.H{"data": state.Describe(status)})
}

// currentDataset 返回当前数据集，未加载时写入 503 响应
func (h *Handler) currentDataset(c *gin.Context) (*state.Dataset, bool) {
	status := h.retrieval.Status()
	if loaded, ok := status.(state.Loaded); ok && loaded.Data != nil {
		return loaded.Data, true
	}

	view := state.Describe(status)
	body := gin.H{"status": view}
	switch st := status.(type) {
	case state.Failed:
		body["error"] = st.Message
		if st.Kind.CredentialRelated() {
			body["action"] = "configure_credential"
		}
	case state.Loading:
		body["error"] = "data is loading"
	default:
		body["error"] = "data is not loaded yet"
	}
	c.JSON(http.StatusServiceUnavailable, body)
	return nil, false
}
