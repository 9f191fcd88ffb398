package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foresight/internal/service/export"
	"foresight/internal/store"
)

// GetResult 获取会话最近一次分析结果
// GET /api/sessions/:id/result
func (h *Handler) GetResult(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if s.LastResult == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result available"})
		return
	}
	c.JSON(http.StatusOK, s.LastResult)
}

// ExportResult 导出最近一次结果为 xlsx
// GET /api/sessions/:id/result/export
func (h *Handler) ExportResult(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if s.LastResult == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result available"})
		return
	}

	data, err := export.ExcelBytes(s.LastResult)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("forecast-%s.xlsx", s.LastResult.Pipeline)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ChartResult 绘制最近一次结果的预测散点图
// GET /api/sessions/:id/result/chart
func (h *Handler) ChartResult(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if s.LastResult == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result available"})
		return
	}

	data, err := export.ChartPNG(s.LastResult)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// ListRuns 运行历史
// GET /api/runs?limit=50
func (h *Handler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := h.store.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
