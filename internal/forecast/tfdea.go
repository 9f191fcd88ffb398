package forecast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"foresight/internal/dataset"
	"foresight/internal/frontier"
)

// TFDEASpec 一次 TFDEA 分析的参数。
// FrontierDate 保留原始文本，数值校验由管线完成
type TFDEASpec struct {
	Inputs       []string                    `json:"inputs"`
	Outputs      []string                    `json:"outputs"`
	IntroColumn  string                      `json:"introColumn"`
	FrontierDate string                      `json:"frontierDate"`
	RTS          frontier.RTS                `json:"rts"`
	Orientation  frontier.Orientation        `json:"orientation"`
	Secondary    frontier.SecondaryObjective `json:"secondary"`
	Mode         frontier.FrontierMode       `json:"mode"`
	SegmentedROC bool                        `json:"segmentedRoc"`
}

// applyDefaults 填充缺省参数
func (s *TFDEASpec) applyDefaults() {
	if s.RTS == "" {
		s.RTS = frontier.RTSVariable
	}
	if s.Orientation == "" {
		s.Orientation = frontier.OrientationOutput
	}
	if s.Secondary == "" {
		s.Secondary = frontier.SecondaryMin
	}
	if s.Mode == "" {
		s.Mode = frontier.FrontierStatic
	}
}

// validateEnums 枚举参数边界校验
func (s *TFDEASpec) validateEnums() error {
	if !s.RTS.Valid() {
		return fmt.Errorf("invalid returns-to-scale value: %s", s.RTS)
	}
	if !s.Orientation.Valid() {
		return fmt.Errorf("invalid orientation value: %s", s.Orientation)
	}
	if !s.Secondary.Valid() {
		return fmt.Errorf("invalid secondary objective value: %s", s.Secondary)
	}
	if !s.Mode.Valid() {
		return fmt.Errorf("invalid frontier mode value: %s", s.Mode)
	}
	return nil
}

// RunTFDEA 运行 TFDEA 管线。
// 前置校验按固定顺序执行，任何一项失败立即返回，不调用求解器、
// 不产生部分结果
func RunTFDEA(ds *dataset.Dataset, spec TFDEASpec, solver frontier.Solver) (*Bundle, error) {
	if len(spec.Inputs) == 0 {
		return nil, errors.New("no input(s) selected")
	}
	if len(spec.Outputs) == 0 {
		return nil, errors.New("no output(s) selected")
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
	spec.applyDefaults()
	if err := spec.validateEnums(); err != nil {
		return nil, err
	}

	x, y, err := dataset.BuildMatrices(ds, spec.Inputs, spec.Outputs)
	if err != nil {
		return nil, err
	}
	dates, err := ds.NumericValues(spec.IntroColumn)
	if err != nil {
		return nil, err
	}

	result, err := solver.Solve(frontier.Request{
		Inputs:       matrixRows(x),
		Outputs:      matrixRows(y),
		InputNames:   x.Names,
		OutputNames:  y.Names,
		Dates:        dates,
		TargetDate:   frontierDate,
		RTS:          spec.RTS,
		Orientation:  spec.Orientation,
		Secondary:    spec.Secondary,
		Mode:         spec.Mode,
		SegmentedROC: spec.SegmentedROC,
	})
	if err != nil {
		return nil, fmt.Errorf("frontier analysis failed: %w", err)
	}

	n := ds.NumRows()
	rows := make([]TFDEAForecastRow, n)
	for i := 0; i < n; i++ {
		rows[i] = TFDEAForecastRow{
			DMU:            ds.RowName(i),
			ReleaseDate:    dates[i],
			EffAtRelease:   result.EffAtRelease[i],
			EffAtFrontier:  result.EffAtFrontier[i],
			EffForecast:    result.EffForecast[i],
			ROC:            result.ROC[i],
			SegROCFrontier: index(result.SegROCFrontier, i),
			SegROCForecast: index(result.SegROCForecast, i),
			ForecastDate:   result.ForecastDate[i],
		}
	}

	summary := tfdeaSummary(dates, result)

	bundle := &TFDEABundle{
		Forecast: rows,
		Model: TFDEAModel{
			Inputs:       strings.Join(x.Names, "; "),
			Outputs:      strings.Join(y.Names, "; "),
			IntroColumn:  spec.IntroColumn,
			FrontierDate: frontierDate,
			RTS:          string(spec.RTS),
			Orientation:  string(spec.Orientation),
			Secondary:    string(spec.Secondary),
			Mode:         string(spec.Mode),
			SegmentedROC: spec.SegmentedROC,
		},
		Summary:        summary,
		LambdaRelease:  result.LambdaRelease,
		LambdaFrontier: result.LambdaFrontier,
		LambdaForecast: result.LambdaForecast,
	}
	return &Bundle{Pipeline: "tfdea", TFDEA: bundle}, nil
}

// tfdeaSummary 由求解器输出计算整体诊断量。
// 预测日期缺失的 DMU 不参与 MAD 与提前/滞后计数
func tfdeaSummary(dates []float64, result *frontier.Result) TFDEASummary {
	var summary TFDEASummary

	sumDev := 0.0
	devCount := 0
	for i, fd := range result.ForecastDate {
		if fd == nil || math.IsNaN(*fd) {
			continue
		}
		sumDev += math.Abs(*fd - dates[i])
		devCount++
		if *fd < dates[i] {
			summary.EarlyCount++
		} else if *fd > dates[i] {
			summary.LateCount++
		}
	}
	if devCount > 0 {
		mad := sumDev / float64(devCount)
		summary.MAD = &mad
	}

	sumROC := 0.0
	for _, roc := range result.ROC {
		if roc == nil || math.IsNaN(*roc) {
			continue
		}
		sumROC += *roc
		summary.ROCCount++
	}
	if summary.ROCCount > 0 {
		avg := sumROC / float64(summary.ROCCount)
		summary.AvgROC = &avg
	}
	return summary
}

// matrixRows 将模型矩阵转为按行的二维切片（求解器请求格式）
func matrixRows(m dataset.Matrix) [][]float64 {
	r, c := m.Data.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = m.Data.At(i, j)
		}
		rows[i] = row
	}
	return rows
}

// index 越界安全取值：求解器可省略分段 ROC 数组
func index(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}
