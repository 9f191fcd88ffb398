package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"foresight/internal/dataset"
)

// SessionResponse 会话创建/查询响应
type SessionResponse struct {
	SessionID string   `json:"sessionId"`
	Filename  string   `json:"filename"`
	RowCount  int      `json:"rowCount"`
	Columns   []string `json:"columns"`
	RowNames  bool     `json:"rowNames"`
}

// loadOptions 从请求字段解析加载选项
func loadOptions(columnHeader, rowHeader, separator, quote string) dataset.Options {
	opts := dataset.DefaultOptions()
	if columnHeader != "" {
		opts.ColumnHeader = columnHeader == "true"
	}
	opts.RowHeader = rowHeader == "true"
	if separator != "" {
		opts.Separator = []rune(separator)[0]
	}
	if quote != "" {
		opts.Quote = []rune(quote)[0]
	}
	return opts
}

// UploadSession 上传数据文件并创建会话
// POST /api/sessions/upload (multipart)
func (h *Handler) UploadSession(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	// 仅接受 CSV 与纯文本
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".csv" && ext != ".txt" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "仅支持 CSV 或纯文本文件"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes()+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}
	if int64(len(data)) > h.cfg.MaxUploadBytes() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "上传文件超出大小限制"})
		return
	}

	opts := loadOptions(
		c.DefaultPostForm("columnHeader", "true"),
		c.DefaultPostForm("rowHeader", "false"),
		c.PostForm("separator"),
		c.PostForm("quote"),
	)

	ds, err := dataset.Load(dataset.RawBytes{Data: data}, opts)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	s := h.sessions.Create(ds, fileHeader.Filename)
	c.JSON(http.StatusOK, sessionResponse(s.ID, s.Filename, ds))
}

// RemoteSessionRequest 远程来源请求
type RemoteSessionRequest struct {
	SourceKind   string `json:"sourceKind"` // sharing / direct
	URL          string `json:"url"`
	ColumnHeader string `json:"columnHeader"`
	RowHeader    string `json:"rowHeader"`
	Separator    string `json:"separator"`
	Quote        string `json:"quote"`
}

// RemoteSession 从远程 URL 创建会话
// POST /api/sessions/remote
func (h *Handler) RemoteSession(c *gin.Context) {
	var req RemoteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	var src dataset.Source
	switch req.SourceKind {
	case "sharing":
		src = dataset.SharingLink{URL: req.URL}
	case "direct", "":
		src = dataset.DirectURL{URL: req.URL}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的数据来源类型"})
		return
	}

	opts := loadOptions(req.ColumnHeader, req.RowHeader, req.Separator, req.Quote)
	ds, err := dataset.Load(src, opts)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	s := h.sessions.Create(ds, req.URL)
	c.JSON(http.StatusOK, sessionResponse(s.ID, s.Filename, ds))
}

// GetSession 查询会话
// GET /api/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s.ID, s.Filename, s.Dataset))
}

// DeleteSession 删除会话
// DELETE /api/sessions/:id
func (h *Handler) DeleteSession(c *gin.Context) {
	h.sessions.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func sessionResponse(id, filename string, ds *dataset.Dataset) SessionResponse {
	return SessionResponse{
		SessionID: id,
		Filename:  filename,
		RowCount:  ds.NumRows(),
		Columns:   ds.Columns,
		RowNames:  ds.RowNames != nil,
	}
}
