// Package export 将结果包导出为 xlsx 工作簿与预测散点图
package export

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"foresight/internal/forecast"
)

// ExcelBytes 将结果包导出为 xlsx 字节流。
// TFDEA：Forecast / Model / Summary 加三个 Lambda 工作表；
// LR：Forecast / Model / Summary / Coefficients / Multicollinearity
func ExcelBytes(bundle *forecast.Bundle) ([]byte, error) {
	if bundle == nil {
		return nil, errors.New("no result to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	switch bundle.Pipeline {
	case "tfdea":
		if err := writeTFDEA(f, bundle.TFDEA); err != nil {
			return nil, err
		}
	case "lr":
		if err := writeLR(f, bundle.LR); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown pipeline: %s", bundle.Pipeline)
	}

	f.DeleteSheet("Sheet1")
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTFDEA(f *excelize.File, b *forecast.TFDEABundle) error {
	rows := [][]any{{"DMU", "Release Date", "Eff at Release", "Eff at Frontier",
		"Eff Forecast", "ROC", "Seg ROC Frontier", "Seg ROC Forecast", "Forecast Date"}}
	for _, r := range b.Forecast {
		rows = append(rows, []any{r.DMU, r.ReleaseDate, r.EffAtRelease, r.EffAtFrontier,
			r.EffForecast, deref(r.ROC), deref(r.SegROCFrontier), deref(r.SegROCForecast),
			deref(r.ForecastDate)})
	}
	if err := writeSheet(f, "Forecast", rows); err != nil {
		return err
	}

	model := [][]any{
		{"Inputs", b.Model.Inputs},
		{"Outputs", b.Model.Outputs},
		{"Intro Date Column", b.Model.IntroColumn},
		{"Frontier Date", b.Model.FrontierDate},
		{"RTS", b.Model.RTS},
		{"Orientation", b.Model.Orientation},
		{"Secondary Objective", b.Model.Secondary},
		{"Frontier Mode", b.Model.Mode},
		{"Segmented ROC", b.Model.SegmentedROC},
	}
	if err := writeSheet(f, "Model", model); err != nil {
		return err
	}

	summary := [][]any{
		{"MAD", deref(b.Summary.MAD)},
		{"Average ROC", deref(b.Summary.AvgROC)},
		{"ROC Contributors", b.Summary.ROCCount},
		{"Early Forecasts", b.Summary.EarlyCount},
		{"Late Forecasts", b.Summary.LateCount},
	}
	if err := writeSheet(f, "Summary", summary); err != nil {
		return err
	}

	lambdas := []struct {
		name string
		data [][]float64
	}{
		{"Lambda Release", b.LambdaRelease},
		{"Lambda Frontier", b.LambdaFrontier},
		{"Lambda Forecast", b.LambdaForecast},
	}
	for _, l := range lambdas {
		rows := make([][]any, len(l.data))
		for i, row := range l.data {
			cells := make([]any, len(row))
			for j, v := range row {
				cells[j] = v
			}
			rows[i] = cells
		}
		if err := writeSheet(f, l.name, rows); err != nil {
			return err
		}
	}
	return nil
}

func writeLR(f *excelize.File, b *forecast.LRBundle) error {
	rows := [][]any{{"DMU", "Release Date", "Forecast Date"}}
	for _, r := range b.Forecast {
		rows = append(rows, []any{r.DMU, r.ReleaseDate, r.ForecastDate})
	}
	if err := writeSheet(f, "Forecast", rows); err != nil {
		return err
	}

	model := [][]any{
		{"Dependent", b.Model.Dependent},
		{"Independents", b.Model.Independents},
	}
	if err := writeSheet(f, "Model", model); err != nil {
		return err
	}

	summary := [][]any{
		{"MAD", deref(b.Summary.MAD)},
		{"R2", b.Summary.R2},
		{"Adjusted R2", b.Summary.AdjR2},
	}
	if err := writeSheet(f, "Summary", summary); err != nil {
		return err
	}

	coeffs := [][]any{{"Variable", "Estimate", "Std Error", "t", "p"}}
	for _, c := range b.Coefficients {
		coeffs = append(coeffs, []any{c.Name, c.Estimate, c.StdError, deref(c.TStat), deref(c.PValue)})
	}
	if err := writeSheet(f, "Coefficients", coeffs); err != nil {
		return err
	}

	vif := [][]any{{"Variable", "GVIF"}}
	for _, v := range b.Multicollinearity {
		vif = append(vif, []any{v.Name, v.GVIF})
	}
	return writeSheet(f, "Multicollinearity", vif)
}

// writeSheet 建表并逐格写入
func writeSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", name, cell, err)
			}
		}
	}
	return nil
}

// deref 可选值转单元格内容：缺失输出为空
func deref(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
