package api

import (
	"github.com/gin-gonic/gin"

	"foresight/internal/config"
	"foresight/internal/frontier"
	"foresight/internal/service/session"
	"foresight/internal/store"
)

// Handler API 处理器
type Handler struct {
	cfg      *config.AppConfig
	sessions *session.Manager
	store    *store.Store
	solver   frontier.Solver
}

// NewHandler 创建 API 处理器
func NewHandler(cfg *config.AppConfig, sessions *session.Manager, st *store.Store, solver frontier.Solver) *Handler {
	return &Handler{
		cfg:      cfg,
		sessions: sessions,
		store:    st,
		solver:   solver,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 会话创建：文件上传 / 远程来源
	router.POST("/sessions/upload", h.UploadSession)
	router.POST("/sessions/remote", h.RemoteSession)
	router.GET("/sessions/:id", h.GetSession)
	router.DELETE("/sessions/:id", h.DeleteSession)

	// 列选择
	router.GET("/sessions/:id/columns", h.NumericColumns)

	// 预测管线
	router.POST("/sessions/:id/tfdea", h.RunTFDEA)
	router.POST("/sessions/:id/lr", h.RunLR)

	// 结果获取与导出
	router.GET("/sessions/:id/result", h.GetResult)
	router.GET("/sessions/:id/result/export", h.ExportResult)
	router.GET("/sessions/:id/result/chart", h.ChartResult)

	// 运行历史
	router.GET("/runs", h.ListRuns)
}
