// Package forecast 实现两条预测管线：
// 基于效率前沿的 TFDEA 管线与对照用的线性回归（LR）管线。
// 两者都是输入的纯函数：校验参数 -> 重塑数据 -> 调用外部求解/拟合 ->
// 计算诊断量 -> 组装不可变的结果包
package forecast

import (
	"foresight/internal/stats"
)

// TFDEAForecastRow TFDEA 预测表的一行（每 DMU 一行）
type TFDEAForecastRow struct {
	DMU            string   `json:"dmu"`
	ReleaseDate    float64  `json:"releaseDate"`
	EffAtRelease   float64  `json:"effAtRelease"`
	EffAtFrontier  float64  `json:"effAtFrontier"`
	EffForecast    float64  `json:"effForecast"`
	ROC            *float64 `json:"roc"`
	SegROCFrontier *float64 `json:"segRocFrontier"`
	SegROCForecast *float64 `json:"segRocForecast"`
	ForecastDate   *float64 `json:"forecastDate"`
}

// TFDEAModel 模型表：回显解析后的参数
type TFDEAModel struct {
	Inputs       string  `json:"inputs"`  // 解析后的 X 列名，"; " 连接
	Outputs      string  `json:"outputs"` // 解析后的 Y 列名，"; " 连接
	IntroColumn  string  `json:"introColumn"`
	FrontierDate float64 `json:"frontierDate"`
	RTS          string  `json:"rts"`
	Orientation  string  `json:"orientation"`
	Secondary    string  `json:"secondary"`
	Mode         string  `json:"mode"`
	SegmentedROC bool    `json:"segmentedRoc"`
}

// TFDEASummary 汇总表：整体诊断量
type TFDEASummary struct {
	MAD        *float64 `json:"mad"`    // 预测日期与实际日期的平均绝对偏差
	AvgROC     *float64 `json:"avgRoc"` // 平均变化率
	ROCCount   int      `json:"rocCount"`
	EarlyCount int      `json:"earlyCount"` // 预测日期严格早于实际
	LateCount  int      `json:"lateCount"`  // 预测日期严格晚于实际
}

// TFDEABundle TFDEA 结果包：一次成功运行产出，之后不再修改
type TFDEABundle struct {
	Forecast []TFDEAForecastRow `json:"forecast"`
	Model    TFDEAModel         `json:"model"`
	Summary  TFDEASummary       `json:"summary"`

	// 求解器给出的三个权重矩阵，原样透传
	LambdaRelease  [][]float64 `json:"lambdaRelease"`
	LambdaFrontier [][]float64 `json:"lambdaFrontier"`
	LambdaForecast [][]float64 `json:"lambdaForecast"`
}

// LRForecastRow LR 预测表的一行
type LRForecastRow struct {
	DMU          string  `json:"dmu"`
	ReleaseDate  float64 `json:"releaseDate"`
	ForecastDate float64 `json:"forecastDate"`
}

// LRModel LR 模型表
type LRModel struct {
	Dependent    string `json:"dependent"`
	Independents string `json:"independents"` // "; " 连接
}

// LRSummary LR 汇总表
type LRSummary struct {
	MAD   *float64 `json:"mad"` // 仅在留出集（发布日期晚于前沿日期）上计算
	R2    float64  `json:"r2"`
	AdjR2 float64  `json:"adjR2"`
}

// LRBundle LR 结果包
type LRBundle struct {
	Forecast          []LRForecastRow     `json:"forecast"`
	Model             LRModel             `json:"model"`
	Summary           LRSummary           `json:"summary"`
	Coefficients      []stats.Coefficient `json:"coefficients"`
	Multicollinearity []stats.VIFEntry    `json:"multicollinearity"` // 自变量少于两个时为空
}

// Bundle 统一的结果包装，便于会话保存与导出
type Bundle struct {
	Pipeline string       `json:"pipeline"` // "tfdea" 或 "lr"
	TFDEA    *TFDEABundle `json:"tfdea,omitempty"`
	LR       *LRBundle    `json:"lr,omitempty"`
}
