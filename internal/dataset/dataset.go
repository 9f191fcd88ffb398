package dataset

import (
	"errors"
	"strconv"
	"strings"
)

// ConstantColumn 合成常数列名：始终作为伪列提供给输入/输出选择，
// 与数据集本身的列无关
const ConstantColumn = "Constant_1"

// Dataset 数据集：每行一个 DMU（决策单元），列按上传顺序保存。
// 加载完成后不变式：不含缺失值、不含完全重复的行；
// 若启用了行名，行名唯一
type Dataset struct {
	Columns  []string   `json:"columns"`
	RowNames []string   `json:"rowNames,omitempty"` // 为空表示未启用行名
	Rows     [][]string `json:"rows"`
}

// New 按列名与行数据构造数据集
func New(columns []string, rows [][]string) *Dataset {
	return &Dataset{Columns: columns, Rows: rows}
}

// NumRows 行数
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// NumCols 列数
func (d *Dataset) NumCols() int {
	return len(d.Columns)
}

// ColumnIndex 按列名查找列下标，不存在返回 -1
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn 判断列是否存在
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// Column 取整列原始值
func (d *Dataset) Column(name string) ([]string, bool) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// NumericValues 取整列并解析为数值
func (d *Dataset) NumericValues(name string) ([]float64, error) {
	raw, ok := d.Column(name)
	if !ok {
		return nil, errors.New("column " + name + " not found")
	}
	values := make([]float64, len(raw))
	for i, cell := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, errors.New("column " + name + " is not numeric")
		}
		values[i] = v
	}
	return values, nil
}

// isMissing 判断单元格是否为缺失值（空串或 NA/NaN）
func isMissing(cell string) bool {
	s := strings.TrimSpace(cell)
	return s == "" || s == "NA" || s == "NaN"
}

// DropIncomplete 丢弃含任意缺失值的行。
// 注意：在列选择之前对全部列执行，与上游行为保持一致
func (d *Dataset) DropIncomplete() {
	kept := d.Rows[:0]
	keptNames := d.RowNames[:0]
	for i, row := range d.Rows {
		complete := true
		for _, cell := range row {
			if isMissing(cell) {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, row)
			if d.RowNames != nil {
				keptNames = append(keptNames, d.RowNames[i])
			}
		}
	}
	d.Rows = kept
	if d.RowNames != nil {
		d.RowNames = keptNames
	}
}

// Deduplicate 去除完全重复的行（所有单元格逐字节相等才算重复），保留首次出现
func (d *Dataset) Deduplicate() {
	seen := make(map[string]bool, len(d.Rows))
	kept := d.Rows[:0]
	keptNames := d.RowNames[:0]
	for i, row := range d.Rows {
		key := strings.Join(row, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, row)
		if d.RowNames != nil {
			keptNames = append(keptNames, d.RowNames[i])
		}
	}
	d.Rows = kept
	if d.RowNames != nil {
		d.RowNames = keptNames
	}
}

// PromoteRowHeader 将第一列提升为行名。
// 仅在列数大于 1 时执行；第一列取值必须唯一，否则报错
func (d *Dataset) PromoteRowHeader() error {
	if len(d.Columns) <= 1 {
		return nil
	}
	seen := make(map[string]bool, len(d.Rows))
	names := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		if seen[row[0]] {
			return errors.New("duplicate row names")
		}
		seen[row[0]] = true
		names[i] = row[0]
	}
	d.RowNames = names
	d.Columns = d.Columns[1:]
	for i, row := range d.Rows {
		d.Rows[i] = row[1:]
	}
	return nil
}

// RowName 第 i 行的行名；未启用行名时退化为 1 起始的行号
func (d *Dataset) RowName(i int) string {
	if d.RowNames != nil {
		return d.RowNames[i]
	}
	return strconv.Itoa(i + 1)
}

// isNumericColumn 判断一列是否全部可解析为数值。
// 数据集已不含缺失值，因此逐格解析即可
func (d *Dataset) isNumericColumn(idx int) bool {
	if len(d.Rows) == 0 {
		return false
	}
	for _, row := range d.Rows {
		if _, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64); err != nil {
			return false
		}
	}
	return true
}

// NumericColumns 返回可作为模型变量的数值列。
// 合成常数列 Constant_1 永远排在首位，其余数值列保持原始列序
func (d *Dataset) NumericColumns() ([]string, error) {
	var numeric []string
	for i, name := range d.Columns {
		if d.isNumericColumn(i) {
			numeric = append(numeric, name)
		}
	}
	if len(numeric) == 0 {
		return nil, errors.New("no numeric columns")
	}
	return append([]string{ConstantColumn}, numeric...), nil
}
