package dataset

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source 数据来源：本地文件、表格分享链接或直接 URL，
// 统一通过 Fetch 取回原始分隔文本
type Source interface {
	Fetch() ([]byte, error)
}

// LocalFile 本地文件来源
type LocalFile struct {
	Path string
}

// Fetch 读取本地文件
func (s LocalFile) Fetch() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", s.Path, err)
	}
	return data, nil
}

// RawBytes 内存数据来源（上传场景：文件内容已在内存中）
type RawBytes struct {
	Data []byte
}

// Fetch 直接返回内存数据
func (s RawBytes) Fetch() ([]byte, error) {
	return s.Data, nil
}

// DirectURL 直接抓取 URL 为分隔文本
type DirectURL struct {
	URL    string
	Client *http.Client
}

// Fetch 抓取远程文本
func (s DirectURL) Fetch() ([]byte, error) {
	return fetchURL(s.Client, s.URL)
}

// SharingLink 表格分享链接来源。
// 链接必须包含 key= 段；#gid= 段可选，缺省取第一个工作表。
// 转换为 CSV 导出 URL，内嵌过滤查询：仅保留第一列非空的行
type SharingLink struct {
	URL    string
	Client *http.Client
}

// ExportURL 将分享链接转换为 CSV 导出 URL
func (s SharingLink) ExportURL() (string, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", fmt.Errorf("parse sharing link: %w", err)
	}
	key := u.Query().Get("key")
	if key == "" {
		return "", errors.New("sharing link does not contain a key= segment")
	}
	gid := 0
	if frag := u.Fragment; strings.HasPrefix(frag, "gid=") {
		if n, err := strconv.Atoi(strings.TrimPrefix(frag, "gid=")); err == nil {
			gid = n
		}
	}
	query := url.QueryEscape("select * where A is not null")
	return fmt.Sprintf("https://docs.google.com/spreadsheets/tq?tqx=out:csv&tq=%s&key=%s&gid=%d",
		query, key, gid), nil
}

// Fetch 转换链接后抓取 CSV 导出结果
func (s SharingLink) Fetch() ([]byte, error) {
	exportURL, err := s.ExportURL()
	if err != nil {
		return nil, err
	}
	return fetchURL(s.Client, exportURL)
}

// fetchURL 抓取 URL 内容，网络/SSL 失败转换为普通错误
func fetchURL(client *http.Client, rawURL string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}

// Options 加载选项
type Options struct {
	ColumnHeader bool // 第一行是否为列名
	RowHeader    bool // 是否把第一列提升为行名
	Separator    rune // 分隔符，默认逗号
	Quote        rune // 引号字符，默认双引号
}

// DefaultOptions 默认加载选项：带列名、逗号分隔、双引号
func DefaultOptions() Options {
	return Options{ColumnHeader: true, Separator: ',', Quote: '"'}
}

// Load 从来源加载数据集。
// 流程：解析分隔文本 -> 丢弃含缺失值的行 -> 空集检查 ->
// 可选的行名提升 -> 行去重。任何一步失败都返回错误，不产生部分结果
func Load(src Source, opts Options) (*Dataset, error) {
	raw, err := src.Fetch()
	if err != nil {
		return nil, err
	}
	if opts.Separator == 0 {
		opts.Separator = ','
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}

	records, err := parseDelimited(raw, opts.Separator, opts.Quote)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no data found")
	}

	var columns []string
	if opts.ColumnHeader {
		columns = records[0]
		records = records[1:]
	} else {
		// 无列名时按 V1..Vn 命名
		columns = make([]string, len(records[0]))
		for i := range columns {
			columns[i] = "V" + strconv.Itoa(i+1)
		}
	}

	// 对齐列数：短行补缺失值（随后被丢弃），长行截断
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		copy(row, rec)
		rows = append(rows, row)
	}

	ds := New(columns, rows)
	ds.DropIncomplete()
	if ds.NumRows() == 0 {
		return nil, errors.New("no data found")
	}
	if opts.RowHeader {
		if err := ds.PromoteRowHeader(); err != nil {
			return nil, err
		}
	}
	ds.Deduplicate()
	return ds, nil
}
