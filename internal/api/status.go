package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Sessions int    `json:"sessions"` // 活动会话数
	Runs     int    `json:"runs"`     // 历史运行总数
	Solver   string `json:"solver"`   // 配置的求解器命令
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	runs := 0
	if h.store != nil {
		if n, err := h.store.CountRuns(); err == nil {
			runs = n
		}
	}
	c.JSON(http.StatusOK, StatusResponse{
		Sessions: h.sessions.Count(),
		Runs:     runs,
		Solver:   h.cfg.Solver.Command,
	})
}
