package datasource

import (
	"fmt"
	"math"

	"CovidTracker/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 数据集必须包含的列，缺失属于致命错误
var requiredColumns = []string{"location", "date"}

// MetricColumns 数值指标列，数据源中缺失时补为空列而不是报错
var MetricColumns = []string{
	"total_cases",
	"total_deaths",
	"new_cases",
	"new_deaths",
	"total_vaccinations",
}

// ColumnTypes CSV解析时强制使用的列类型
// 指标列统一按Float处理，空字符串解析为NA
func ColumnTypes() map[string]series.Type {
	types := map[string]series.Type{
		"location": series.String,
		"date":     series.String,
	}
	for _, col := range MetricColumns {
		types[col] = series.Float
	}
	return types
}

// PrepareFrame 把原始DataFrame整理成下游各组件约定的形状:
// 校验必需列、日期规范化为2006-01-02、指标列统一为Float、缺失指标列补NA
func PrepareFrame(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("数据集解析失败: %w", df.Error())
	}

	for _, col := range requiredColumns {
		if !utils.HasColumn(df, col) {
			return dataframe.DataFrame{}, fmt.Errorf("数据集缺少必需列 %q", col)
		}
	}

	if df.Nrow() == 0 {
		return df, nil
	}

	// 日期规范化，保证字典序即时间序
	df = df.Mutate(df.Col("date").Map(normalizeDate))

	for _, col := range MetricColumns {
		if !utils.HasColumn(df, col) {
			// 整列缺失按"全部缺失"处理
			nas := make([]float64, df.Nrow())
			for i := range nas {
				nas[i] = math.NaN()
			}
			df = df.Mutate(series.New(nas, series.Float, col))
			continue
		}
		if df.Col(col).Type() != series.Float {
			df = df.Mutate(series.New(df.Col(col), series.Float, col))
		}
	}

	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("数据集整理失败: %w", df.Error())
	}
	return df, nil
}

func normalizeDate(el series.Element) series.Element {
	t, err := utils.ParseDate(el.String())
	if err != nil {
		// 无法识别的日期原样保留
		return el
	}
	el.Set(t.Format("2006-01-02"))
	return el
}
