package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// VIFEntry 单个自变量的方差膨胀因子
type VIFEntry struct {
	Name string  `json:"name"`
	GVIF float64 `json:"gvif"`
}

// VIF 计算各自变量的（广义）方差膨胀因子：
// 将每个自变量对其余自变量回归，VIF = 1/(1-R²)。
// 自变量少于两个时无意义，调用方应跳过
func VIF(names []string, x *mat.Dense) ([]VIFEntry, error) {
	n, p := x.Dims()
	if p < 2 {
		return nil, nil
	}
	entries := make([]VIFEntry, 0, p)
	for j := 0; j < p; j++ {
		others := mat.NewDense(n, p-1, nil)
		otherNames := make([]string, 0, p-1)
		col := 0
		for k := 0; k < p; k++ {
			if k == j {
				continue
			}
			for i := 0; i < n; i++ {
				others.Set(i, col, x.At(i, k))
			}
			otherNames = append(otherNames, names[k])
			col++
		}
		target := make([]float64, n)
		for i := 0; i < n; i++ {
			target[i] = x.At(i, j)
		}
		fit, err := FitOLS(otherNames, others, target)
		if err != nil {
			return nil, fmt.Errorf("vif for %s: %w", names[j], err)
		}
		gvif := math.Inf(1)
		if fit.R2 < 1 {
			gvif = 1 / (1 - fit.R2)
		}
		entries = append(entries, VIFEntry{Name: names[j], GVIF: gvif})
	}
	return entries, nil
}
