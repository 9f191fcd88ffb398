// Package frontier 定义外部效率前沿求解器的调用接口。
// 前沿构建与 LP 求解本身不在本仓库内实现，
// 通过可替换的 Solver 实现接入（默认实现为子进程适配器）
package frontier

// RTS 规模报酬假设
type RTS string

// Orientation 求解方向
type Orientation string

// SecondaryObjective 次级目标
type SecondaryObjective string

// FrontierMode 前沿模式
type FrontierMode string

const (
	RTSVariable   RTS = "vrs"
	RTSConstant   RTS = "crs"
	RTSDecreasing RTS = "drs"
	RTSIncreasing RTS = "irs"

	OrientationInput  Orientation = "input"
	OrientationOutput Orientation = "output"

	SecondaryMin SecondaryObjective = "min"
	SecondaryMax SecondaryObjective = "max"

	FrontierStatic  FrontierMode = "static"
	FrontierDynamic FrontierMode = "dynamic"
)

// Valid 校验规模报酬取值
func (r RTS) Valid() bool {
	switch r {
	case RTSVariable, RTSConstant, RTSDecreasing, RTSIncreasing:
		return true
	}
	return false
}

// Valid 校验方向取值
func (o Orientation) Valid() bool {
	return o == OrientationInput || o == OrientationOutput
}

// Valid 校验次级目标取值
func (s SecondaryObjective) Valid() bool {
	return s == SecondaryMin || s == SecondaryMax
}

// Valid 校验前沿模式取值
func (f FrontierMode) Valid() bool {
	return f == FrontierStatic || f == FrontierDynamic
}

// Request 一次前沿求解请求
type Request struct {
	Inputs      [][]float64 `json:"inputs"`  // n×p 输入矩阵
	Outputs     [][]float64 `json:"outputs"` // n×q 输出矩阵
	InputNames  []string    `json:"inputNames"`
	OutputNames []string    `json:"outputNames"`
	Dates       []float64   `json:"dates"`      // 各 DMU 的发布日期
	TargetDate  float64     `json:"targetDate"` // 预测目标日期（前沿日期）

	RTS          RTS                `json:"rts"`
	Orientation  Orientation        `json:"orientation"`
	Secondary    SecondaryObjective `json:"secondary"`
	Mode         FrontierMode       `json:"mode"`
	SegmentedROC bool               `json:"segmentedRoc"`
}

// Result 前沿求解结果。
// 可选值用指针表达：某 DMU 无法求出对应量时为 nil
type Result struct {
	ForecastDate   []*float64 `json:"forecastDate"`
	EffAtRelease   []float64  `json:"effAtRelease"`
	EffAtFrontier  []float64  `json:"effAtFrontier"`
	EffForecast    []float64  `json:"effForecast"`
	ROC            []*float64 `json:"roc"`
	SegROCFrontier []*float64 `json:"segRocFrontier"`
	SegROCForecast []*float64 `json:"segRocForecast"`

	LambdaRelease  [][]float64 `json:"lambdaRelease"`
	LambdaFrontier [][]float64 `json:"lambdaFrontier"`
	LambdaForecast [][]float64 `json:"lambdaForecast"`
}

// Solver 效率前沿求解器
type Solver interface {
	Solve(req Request) (*Result, error)
}
