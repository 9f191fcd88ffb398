package forecast

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"foresight/internal/dataset"
	"foresight/internal/stats"
)

// LRSpec 一次线性回归分析的参数
type LRSpec struct {
	Inputs       []string `json:"inputs"`
	Outputs      []string `json:"outputs"`
	IntroColumn  string   `json:"introColumn"`
	FrontierDate string   `json:"frontierDate"`
}

// RunLR 运行线性回归管线。
// 以前沿日期切分训练集（发布日期 ≤ 前沿日期）与留出集（> 前沿日期），
// 用训练集拟合 发布日期 ~ 自变量，对全部行预测，
// MAD 仅在留出集上计算
func RunLR(ds *dataset.Dataset, spec LRSpec) (*Bundle, error) {
	if len(spec.Inputs)+len(spec.Outputs) == 0 {
		return nil, errors.New("no input(s)/output(s) selected")
	}
	if ds == nil || ds.NumRows() == 0 {
		return nil, errors.New("no data exists")
	}
	if !ds.HasColumn(spec.IntroColumn) {
		return nil, errors.New("introduction date column not part of dataframe")
	}
	frontierDate, err := strconv.ParseFloat(strings.TrimSpace(spec.FrontierDate), 64)
	if err != nil {
		return nil, errors.New("frontier date must be numeric")
	}

	// 自变量 = 输入与输出的并集，去掉 Constant_1（拟合自带截距）
	independents := independentVars(spec.Inputs, spec.Outputs)
	if len(independents) == 0 {
		return nil, errors.New("no independent variable(s) selected")
	}

	dates, err := ds.NumericValues(spec.IntroColumn)
	if err != nil {
		return nil, err
	}

	n := ds.NumRows()
	design := mat.NewDense(n, len(independents), nil)
	for j, name := range independents {
		values, err := ds.NumericValues(name)
		if err != nil {
			return nil, err
		}
		design.SetCol(j, values)
	}

	// 按前沿日期切分训练集与留出集
	var trainIdx []int
	for i, d := range dates {
		if d <= frontierDate {
			trainIdx = append(trainIdx, i)
		}
	}
	if len(trainIdx) == 0 {
		return nil, errors.New("no data exists before the frontier date")
	}
	trainX := mat.NewDense(len(trainIdx), len(independents), nil)
	trainY := make([]float64, len(trainIdx))
	for r, i := range trainIdx {
		for j := range independents {
			trainX.Set(r, j, design.At(i, j))
		}
		trainY[r] = dates[i]
	}

	fit, err := stats.FitOLS(independents, trainX, trainY)
	if err != nil {
		return nil, errors.New("model fitting failed: " + err.Error())
	}

	predicted, err := fit.Predict(design)
	if err != nil {
		return nil, errors.New("model fitting failed: " + err.Error())
	}

	rows := make([]LRForecastRow, n)
	for i := 0; i < n; i++ {
		rows[i] = LRForecastRow{
			DMU:          ds.RowName(i),
			ReleaseDate:  dates[i],
			ForecastDate: predicted[i],
		}
	}

	summary := LRSummary{R2: fit.R2, AdjR2: fit.AdjR2}
	sumDev := 0.0
	heldout := 0
	for i, d := range dates {
		if d > frontierDate {
			sumDev += math.Abs(predicted[i] - d)
			heldout++
		}
	}
	if heldout > 0 {
		mad := sumDev / float64(heldout)
		summary.MAD = &mad
	}

	// 自变量不足两个时不做多重共线性诊断
	var vif []stats.VIFEntry
	if len(independents) > 1 {
		vif, err = stats.VIF(independents, trainX)
		if err != nil {
			return nil, errors.New("model fitting failed: " + err.Error())
		}
	}

	bundle := &LRBundle{
		Forecast: rows,
		Model: LRModel{
			Dependent:    spec.IntroColumn,
			Independents: strings.Join(independents, "; "),
		},
		Summary:           summary,
		Coefficients:      fit.Coefficients,
		Multicollinearity: vif,
	}
	return &Bundle{Pipeline: "lr", LR: bundle}, nil
}

// independentVars 输入/输出并集，保持出现顺序，去重并剔除常数列
func independentVars(inputs, outputs []string) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, name := range append(append([]string{}, inputs...), outputs...) {
		if name == dataset.ConstantColumn || seen[name] {
			continue
		}
		seen[name] = true
		vars = append(vars, name)
	}
	return vars
}
