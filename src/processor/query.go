// query.go
package processor

import (
	"sort"

	"CovidTracker/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// FilterByLocation 精确匹配location列(区分大小写)，保持原有行序
// 无匹配时返回空结果而不是错误
func FilterByLocation(df dataframe.DataFrame, location string) dataframe.DataFrame {
	return df.Filter(
		dataframe.F{Colname: "location", Comparator: series.Eq, Comparando: location},
	)
}

// HasLocation 判断数据集中是否存在该location
func HasLocation(df dataframe.DataFrame, location string) bool {
	if !utils.HasColumn(df, "location") {
		return false
	}
	return utils.Contains(df.Col("location").Records(), location)
}

// ListLocations 返回去重并按字典序排序的location列表
func ListLocations(df dataframe.DataFrame) []string {
	if !utils.HasColumn(df, "location") {
		return nil
	}

	seen := make(map[string]struct{})
	var locations []string
	for _, loc := range df.Col("location").Records() {
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return locations
}
