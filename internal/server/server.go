package server

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"foresight/internal/api"
	"foresight/internal/config"
	"foresight/internal/frontier"
	"foresight/internal/service/session"
	"foresight/internal/store"
)

// Server HTTP 服务器
type Server struct {
	router   *gin.Engine
	store    *store.Store
	sessions *session.Manager
	api      *api.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化运行历史库
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "foresight.db")

	runStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sessions := session.NewManager()
	solver := frontier.NewExecSolver(cfg.Solver.Command, cfg.Solver.Args, cfg.SolverTimeout())
	apiHandler := api.NewHandler(cfg, sessions, runStore, solver)

	engine := gin.Default()
	engine.MaxMultipartMemory = cfg.MaxUploadBytes()

	s := &Server{
		router:   engine,
		store:    runStore,
		sessions: sessions,
		api:      apiHandler,
	}

	s.setupRoutes(cfg, devMode)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(cfg *config.AppConfig, devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 上传大小上限
	s.router.Use(func(c *gin.Context) {
		if c.Request.ContentLength > cfg.MaxUploadBytes() {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				gin.H{"error": "上传内容超出大小限制"})
			return
		}
		c.Next()
	})

	// API 路由
	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭底层资源
func (s *Server) Close() error {
	return s.store.Close()
}

// Router 获取路由（用于测试）
func (s *Server) Router() *gin.Engine {
	return s.router
}
