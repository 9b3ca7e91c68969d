// clean.go
package processor

import (
	"CovidTracker/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Clean 清洗数据集：关键列全部缺失的行被丢弃，
// 剩余行中所有缺失值一律填0，与数据源的约定保持一致。
// 返回新的DataFrame，不修改传入的数据
func Clean(df dataframe.DataFrame, crucialColumns []string) dataframe.DataFrame {
	if df.Nrow() == 0 {
		return df
	}

	notNA := func(el series.Element) bool { return !el.IsNA() }

	// 任一关键列有值的行保留
	var filters []dataframe.F
	for _, col := range crucialColumns {
		if !utils.HasColumn(df, col) {
			continue
		}
		filters = append(filters, dataframe.F{
			Colname:    col,
			Comparator: series.CompFunc,
			Comparando: notNA,
		})
	}
	if len(filters) > 0 {
		df = df.FilterAggregation(dataframe.Or, filters...)
	}

	if df.Nrow() == 0 {
		return df
	}

	// 剩余缺失值填0
	for _, name := range df.Names() {
		col := df.Col(name)
		if !col.HasNaN() {
			continue
		}
		df = df.Mutate(col.Map(fillZero))
	}

	return df
}

func fillZero(el series.Element) series.Element {
	if el.IsNA() {
		el.Set(0)
	}
	return el
}
