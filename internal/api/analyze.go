package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"foresight/internal/forecast"
	"foresight/internal/store"
)

// NumericColumns 返回可作为模型变量的数值列（Constant_1 永远排在首位）
// GET /api/sessions/:id/columns
func (h *Handler) NumericColumns(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	columns, err := s.Dataset.NumericColumns()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// RunTFDEA 运行 TFDEA 预测管线
// POST /api/sessions/:id/tfdea
func (h *Handler) RunTFDEA(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var spec forecast.TFDEASpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	bundle, err := forecast.RunTFDEA(s.Dataset, spec, h.solver)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.SetResult(s.ID, bundle); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.recordRun(s.ID, s.Filename, "tfdea", s.Dataset.NumRows(), spec, bundle.TFDEA.Summary)

	c.JSON(http.StatusOK, bundle)
}

// RunLR 运行线性回归预测管线
// POST /api/sessions/:id/lr
func (h *Handler) RunLR(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var spec forecast.LRSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	bundle, err := forecast.RunLR(s.Dataset, spec)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.SetResult(s.ID, bundle); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.recordRun(s.ID, s.Filename, "lr", s.Dataset.NumRows(), spec, bundle.LR.Summary)

	c.JSON(http.StatusOK, bundle)
}

// recordRun 把成功的运行写入历史库。
// 历史记录是旁路功能，写入失败只记日志，不影响分析响应
func (h *Handler) recordRun(sessionID, filename, pipeline string, rowCount int, spec, summary any) {
	if h.store == nil {
		return
	}
	specJSON, _ := json.Marshal(spec)
	summaryJSON, _ := json.Marshal(summary)
	run := &store.Run{
		SessionID:   sessionID,
		Pipeline:    pipeline,
		Filename:    filename,
		RowCount:    rowCount,
		SpecJSON:    string(specJSON),
		SummaryJSON: string(summaryJSON),
	}
	if err := h.store.InsertRun(run); err != nil {
		log.Printf("record run failed: %v", err)
	}
}
