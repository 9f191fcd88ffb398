package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"foresight/internal/config"
	"foresight/internal/frontier"
	"foresight/internal/service/session"
	"foresight/internal/store"
)

// fakeSolver 测试用求解器替身
type fakeSolver struct {
	calls  int
	result *frontier.Result
}

func (f *fakeSolver) Solve(req frontier.Request) (*frontier.Result, error) {
	f.calls++
	return f.result, nil
}

func fptr(v float64) *float64 { return &v }

func solverResult(n int) *frontier.Result {
	r := &frontier.Result{}
	for i := 0; i < n; i++ {
		r.ForecastDate = append(r.ForecastDate, fptr(2000+float64(i)))
		r.EffAtRelease = append(r.EffAtRelease, 1)
		r.EffAtFrontier = append(r.EffAtFrontier, 0.9)
		r.EffForecast = append(r.EffForecast, 0.95)
		r.ROC = append(r.ROC, fptr(1.05))
		r.SegROCFrontier = append(r.SegROCFrontier, nil)
		r.SegROCForecast = append(r.SegROCForecast, nil)
	}
	return r
}

func newTestRouter(t *testing.T, solver frontier.Solver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "foresight.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(config.DefaultConfig(), session.NewManager(), st, solver)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router
}

// uploadCSV 以 multipart 上传 CSV，返回会话响应
func uploadCSV(t *testing.T, router *gin.Engine, content string) SessionResponse {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "data.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

const testCSV = "Speed,Cost,Year\n10,5,2001\n12,6,2002\n15,6,2003\n20,7,2004\n22,8,2006\n"

// TestUploadSession 上传创建会话
func TestUploadSession(t *testing.T) {
	router := newTestRouter(t, &fakeSolver{})

	resp := uploadCSV(t, router, testCSV)
	if resp.SessionID == "" {
		t.Fatal("session id should not be empty")
	}
	if resp.RowCount != 5 {
		t.Errorf("rowCount = %d, want 5", resp.RowCount)
	}
	if len(resp.Columns) != 3 {
		t.Errorf("columns = %v, want 3 entries", resp.Columns)
	}
}

// TestUploadRejectsUnknownExtension 仅接受 CSV 与纯文本
func TestUploadRejectsUnknownExtension(t *testing.T) {
	router := newTestRouter(t, &fakeSolver{})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, _ := w.CreateFormFile("file", "data.xlsx")
	fw.Write([]byte("junk"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestNumericColumnsEndpoint Constant_1 永远排在首位
func TestNumericColumnsEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeSolver{})
	s := uploadCSV(t, router, testCSV)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.SessionID+"/columns", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Columns []string `json:"columns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Columns) == 0 || resp.Columns[0] != "Constant_1" {
		t.Errorf("columns = %v, want Constant_1 first", resp.Columns)
	}
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// TestRunLREndpoint 运行 LR 管线并记录历史
func TestRunLREndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeSolver{})
	s := uploadCSV(t, router, testCSV)

	rec := postJSON(router, "/api/sessions/"+s.SessionID+"/lr", map[string]any{
		"inputs":       []string{"Constant_1", "Speed"},
		"outputs":      []string{"Cost"},
		"introColumn":  "Year",
		"frontierDate": "2004",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"pipeline":"lr"`) {
		t.Errorf("response should carry lr bundle: %s", rec.Body.String())
	}

	// 历史记录
	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	runsRec := httptest.NewRecorder()
	router.ServeHTTP(runsRec, req)
	if !strings.Contains(runsRec.Body.String(), `"pipeline":"lr"`) {
		t.Errorf("run history missing lr run: %s", runsRec.Body.String())
	}
}

// TestRunTFDEAEndpoint 运行 TFDEA 管线
func TestRunTFDEAEndpoint(t *testing.T) {
	solver := &fakeSolver{result: solverResult(5)}
	router := newTestRouter(t, solver)
	s := uploadCSV(t, router, testCSV)

	rec := postJSON(router, "/api/sessions/"+s.SessionID+"/tfdea", map[string]any{
		"inputs":       []string{"Constant_1", "Cost"},
		"outputs":      []string{"Speed"},
		"introColumn":  "Year",
		"frontierDate": "2003",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if solver.calls != 1 {
		t.Errorf("solver calls = %d, want 1", solver.calls)
	}
}

// TestRunTFDEAPreconditionError 前置校验失败返回 422 且不调用求解器
func TestRunTFDEAPreconditionError(t *testing.T) {
	solver := &fakeSolver{result: solverResult(5)}
	router := newTestRouter(t, solver)
	s := uploadCSV(t, router, testCSV)

	rec := postJSON(router, "/api/sessions/"+s.SessionID+"/tfdea", map[string]any{
		"outputs":      []string{"Speed"},
		"introColumn":  "Year",
		"frontierDate": "2003",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no input(s) selected") {
		t.Errorf("body = %s, want no input(s) selected", rec.Body.String())
	}
	if solver.calls != 0 {
		t.Errorf("solver calls = %d, want 0", solver.calls)
	}
}

// TestResultEndpoints 结果获取、xlsx 导出与散点图
func TestResultEndpoints(t *testing.T) {
	solver := &fakeSolver{result: solverResult(5)}
	router := newTestRouter(t, solver)
	s := uploadCSV(t, router, testCSV)

	// 未运行管线时无结果
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.SessionID+"/result", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("result status = %d, want 404", rec.Code)
	}

	postJSON(router, "/api/sessions/"+s.SessionID+"/tfdea", map[string]any{
		"inputs":       []string{"Constant_1", "Cost"},
		"outputs":      []string{"Speed"},
		"introColumn":  "Year",
		"frontierDate": "2003",
	})

	req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.SessionID+"/result/export", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("export should return a xlsx archive")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.SessionID+"/result/chart", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("chart status = %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("chart should return a PNG image")
	}
}

// TestStatusEndpoint 系统状态
func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeSolver{})
	uploadCSV(t, router, testCSV)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", resp.Sessions)
	}
}
