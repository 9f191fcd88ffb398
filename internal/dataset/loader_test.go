package dataset

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// TestLoadLocalFile 测试本地文件加载全流程：
// 缺失值丢弃、行名提升、去重
func TestLoadLocalFile(t *testing.T) {
	content := "Name,Year,Speed\nA,2001,10\nB,,12\nC,2003,14\nC,2003,14\n"
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.RowHeader = true
	ds, err := Load(LocalFile{Path: path}, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(ds.RowNames, []string{"A", "C"}) {
		t.Errorf("RowNames = %v, want [A C]", ds.RowNames)
	}
	if !reflect.DeepEqual(ds.Columns, []string{"Year", "Speed"}) {
		t.Errorf("Columns = %v, want [Year Speed]", ds.Columns)
	}
	if ds.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", ds.NumRows())
	}
}

// TestLoadNoData 全部行含缺失值时报 no data found
func TestLoadNoData(t *testing.T) {
	_, err := Load(RawBytes{Data: []byte("A,B\n1,\n,2\n")}, DefaultOptions())
	if err == nil || err.Error() != "no data found" {
		t.Fatalf("Load() error = %v, want no data found", err)
	}
}

// TestLoadDuplicateRowNames 行名提升遇到重复值必须失败
func TestLoadDuplicateRowNames(t *testing.T) {
	opts := DefaultOptions()
	opts.RowHeader = true
	_, err := Load(RawBytes{Data: []byte("Name,Year\nA,2001\nA,2002\n")}, opts)
	if err == nil || err.Error() != "duplicate row names" {
		t.Fatalf("Load() error = %v, want duplicate row names", err)
	}
}

// TestLoadNoHeader 无列名时按 V1..Vn 命名
func TestLoadNoHeader(t *testing.T) {
	opts := DefaultOptions()
	opts.ColumnHeader = false
	ds, err := Load(RawBytes{Data: []byte("1,2\n3,4\n")}, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(ds.Columns, []string{"V1", "V2"}) {
		t.Errorf("Columns = %v, want [V1 V2]", ds.Columns)
	}
}

// TestLoadCustomSeparatorQuote 自定义分隔符与引号
func TestLoadCustomSeparatorQuote(t *testing.T) {
	content := "Name;Desc\nA;'x;y'\nB;'z'\n"
	opts := DefaultOptions()
	opts.Separator = ';'
	opts.Quote = '\''
	ds, err := Load(RawBytes{Data: []byte(content)}, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Rows[0][1] != "x;y" {
		t.Errorf("quoted cell = %q, want %q", ds.Rows[0][1], "x;y")
	}
}

// TestSharingLinkExportURL 分享链接转换
func TestSharingLinkExportURL(t *testing.T) {
	link := SharingLink{URL: "https://docs.google.com/spreadsheet/ccc?key=abc123#gid=2"}
	got, err := link.ExportURL()
	if err != nil {
		t.Fatalf("ExportURL() error = %v", err)
	}
	if !strings.Contains(got, "key=abc123") {
		t.Errorf("export URL missing key: %s", got)
	}
	if !strings.Contains(got, "gid=2") {
		t.Errorf("export URL missing gid: %s", got)
	}
	if !strings.Contains(got, "tqx=out:csv") {
		t.Errorf("export URL missing csv export: %s", got)
	}
}

// TestSharingLinkMissingKey 缺少 key= 段必须快速失败
func TestSharingLinkMissingKey(t *testing.T) {
	link := SharingLink{URL: "https://docs.google.com/spreadsheet/ccc?foo=bar"}
	if _, err := link.ExportURL(); err == nil {
		t.Fatal("ExportURL() should fail without key= segment")
	}
}

// TestSharingLinkDefaultSheet 缺少 gid 段时取第一个工作表
func TestSharingLinkDefaultSheet(t *testing.T) {
	link := SharingLink{URL: "https://docs.google.com/spreadsheet/ccc?key=abc123"}
	got, err := link.ExportURL()
	if err != nil {
		t.Fatalf("ExportURL() error = %v", err)
	}
	if !strings.Contains(got, "gid=0") {
		t.Errorf("export URL should default to gid=0: %s", got)
	}
}

// TestDirectURLFetch 直接 URL 抓取
func TestDirectURLFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("A,B\n1,2\n"))
	}))
	defer srv.Close()

	ds, err := Load(DirectURL{URL: srv.URL, Client: srv.Client()}, DefaultOptions())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.NumRows() != 1 {
		t.Errorf("NumRows() = %d, want 1", ds.NumRows())
	}
}

// TestDirectURLFetchError 非 200 响应转换为普通错误
func TestDirectURLFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := Load(DirectURL{URL: srv.URL, Client: srv.Client()}, DefaultOptions()); err == nil {
		t.Fatal("Load() should fail on server error")
	}
}
