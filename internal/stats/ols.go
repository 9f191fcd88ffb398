package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Coefficient 单个回归系数及其检验量。
// 标准误为零（完全拟合）时 t 与 p 无定义，置为 nil
type Coefficient struct {
	Name     string   `json:"name"`
	Estimate float64  `json:"estimate"`
	StdError float64  `json:"stdError"`
	TStat    *float64 `json:"tStat"`
	PValue   *float64 `json:"pValue"`
}

// OLS 普通最小二乘拟合结果。
// 拟合时自动附加截距项，调用方不要传入常数列
type OLS struct {
	Names        []string      // 自变量名（不含截距）
	Coefficients []Coefficient // 首项为截距 (Intercept)
	R2           float64
	AdjR2        float64

	beta []float64 // 截距 + 各自变量系数
}

// FitOLS 以普通最小二乘拟合 y ~ X。
// X 为 n×p 自变量矩阵（不含截距列），names 与 X 的列一一对应。
// 系数协方差按 sigma² (X'X)⁻¹ 计算，p 值来自自由度 n-p-1 的 t 分布
func FitOLS(names []string, x *mat.Dense, y []float64) (*OLS, error) {
	n, p := x.Dims()
	if len(names) != p {
		return nil, errors.New("variable names do not match matrix columns")
	}
	if len(y) != n {
		return nil, errors.New("response length does not match matrix rows")
	}
	df := n - p - 1
	if df < 1 {
		return nil, fmt.Errorf("not enough observations: %d rows for %d variables", n, p)
	}

	// 附加截距列
	design := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			design.Set(i, j+1, x.At(i, j))
		}
	}
	yVec := mat.NewVecDense(n, y)

	// beta = (X'X)⁻¹ X'y
	var xtx mat.Dense
	xtx.Mul(design.T(), design)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("singular design matrix: %w", err)
	}
	var xty mat.VecDense
	xty.MulVec(design.T(), yVec)
	var betaVec mat.VecDense
	betaVec.MulVec(&xtxInv, &xty)

	beta := make([]float64, p+1)
	for j := range beta {
		beta[j] = betaVec.AtVec(j)
	}

	// 残差与拟合优度
	var fitted mat.VecDense
	fitted.MulVec(design, &betaVec)
	rss := 0.0
	mean := 0.0
	for i := 0; i < n; i++ {
		mean += y[i]
	}
	mean /= float64(n)
	tss := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		rss += r * r
		d := y[i] - mean
		tss += d * d
	}
	r2 := 0.0
	if tss > 0 {
		r2 = 1 - rss/tss
	}
	adjR2 := 1 - (1-r2)*float64(n-1)/float64(df)

	sigma2 := rss / float64(df)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}

	coeffs := make([]Coefficient, p+1)
	for j := 0; j <= p; j++ {
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		var tStat, pValue *float64
		if se > 0 {
			t := beta[j] / se
			pv := 2 * tDist.Survival(math.Abs(t))
			tStat, pValue = &t, &pv
		}
		name := "(Intercept)"
		if j > 0 {
			name = names[j-1]
		}
		coeffs[j] = Coefficient{Name: name, Estimate: beta[j], StdError: se, TStat: tStat, PValue: pValue}
	}

	return &OLS{
		Names:        append([]string(nil), names...),
		Coefficients: coeffs,
		R2:           r2,
		AdjR2:        adjR2,
		beta:         beta,
	}, nil
}

// Predict 用拟合模型预测任意行。
// x 的列序必须与拟合时一致
func (o *OLS) Predict(x *mat.Dense) ([]float64, error) {
	n, p := x.Dims()
	if p != len(o.Names) {
		return nil, errors.New("prediction matrix columns do not match fitted variables")
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v := o.beta[0]
		for j := 0; j < p; j++ {
			v += o.beta[j+1] * x.At(i, j)
		}
		out[i] = v
	}
	return out, nil
}
