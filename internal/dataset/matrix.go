package dataset

import (
	"errors"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix 模型矩阵：列名与数值矩阵成对出现。
// 列名统一加大写前缀（X_/Y_），避免与求解器内部命名冲突
type Matrix struct {
	Names []string
	Data  *mat.Dense
}

// BuildMatrices 按选中的输入/输出列构建 X、Y 矩阵。
// 选择列表中出现 Constant_1 时，将其替换为全 1 列并置于首位
func BuildMatrices(ds *Dataset, inputs, outputs []string) (Matrix, Matrix, error) {
	x, err := buildSide(ds, inputs, "X_")
	if err != nil {
		return Matrix{}, Matrix{}, err
	}
	y, err := buildSide(ds, outputs, "Y_")
	if err != nil {
		return Matrix{}, Matrix{}, err
	}
	return x, y, nil
}

func buildSide(ds *Dataset, selected []string, prefix string) (Matrix, error) {
	n := ds.NumRows()
	hasConstant := false
	var names []string
	for _, name := range selected {
		if name == ConstantColumn {
			hasConstant = true
			continue
		}
		names = append(names, name)
	}

	var (
		cols     [][]float64
		colNames []string
	)
	if hasConstant {
		ones := make([]float64, n)
		for i := range ones {
			ones[i] = 1
		}
		cols = append(cols, ones)
		colNames = append(colNames, prefix+strings.ToUpper(ConstantColumn))
	}
	for _, name := range names {
		values, err := ds.NumericValues(name)
		if err != nil {
			return Matrix{}, err
		}
		cols = append(cols, values)
		colNames = append(colNames, prefix+strings.ToUpper(name))
	}
	if len(cols) == 0 {
		return Matrix{}, errors.New("no columns selected")
	}

	data := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		data.SetCol(j, col)
	}
	return Matrix{Names: colNames, Data: data}, nil
}
