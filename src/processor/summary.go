// summary.go
package processor

import (
	"errors"
	"fmt"
	"math"
	"time"

	"CovidTracker/src/utils"

	"github.com/go-gota/gota/dataframe"
)

// ErrNoData 查询的国家没有任何数据
var ErrNoData = errors.New("no data for the requested location")

// Snapshot 某个国家最新一天的关键指标
type Snapshot struct {
	Location          string
	Date              time.Time
	TotalCases        int64
	TotalDeaths       int64
	TotalVaccinations int64   // 大于0时才展示
	FatalityRate      float64 // 病死率百分比，保留两位小数
	HasFatalityRate   bool    // TotalCases为0时病死率无定义
}

// Summarize 取切片中日期最新的一行计算快照
// 日期相同时位置靠后的行生效(数据源内每个国家按日期升序排列)
func Summarize(slice dataframe.DataFrame) (*Snapshot, error) {
	if slice.Nrow() == 0 {
		return nil, ErrNoData
	}

	dates := slice.Col("date").Records()
	latest := 0
	for i := 1; i < len(dates); i++ {
		if dates[i] >= dates[latest] {
			latest = i
		}
	}

	date, err := utils.ParseDate(dates[latest])
	if err != nil {
		return nil, fmt.Errorf("快照日期解析失败: %w", err)
	}

	cases := floatAt(slice, "total_cases", latest)
	deaths := floatAt(slice, "total_deaths", latest)

	snap := &Snapshot{
		Location:          slice.Col("location").Elem(latest).String(),
		Date:              date,
		TotalCases:        int64(cases),
		TotalDeaths:       int64(deaths),
		TotalVaccinations: int64(floatAt(slice, "total_vaccinations", latest)),
	}

	if cases > 0 {
		rate := deaths / cases * 100
		snap.FatalityRate = math.Round(rate*100) / 100
		snap.HasFatalityRate = true
	}

	return snap, nil
}

func floatAt(df dataframe.DataFrame, col string, row int) float64 {
	if !utils.HasColumn(df, col) {
		return 0
	}
	v := df.Col(col).Elem(row).Float()
	if math.IsNaN(v) {
		return 0
	}
	return v
}
