// chart.go
package presenter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"CovidTracker/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

const dataSheet = "data"

// 图表数据表的固定列序: A=date B=total_cases C=total_deaths D=new_cases E=new_deaths
var chartColumns = []string{"date", "total_cases", "total_deaths", "new_cases", "new_deaths"}

// ChartExporter 把国家切片渲染成带图表的xlsx工作簿
type ChartExporter struct {
	dir string
}

func NewChartExporter(dir string) *ChartExporter {
	return &ChartExporter{dir: dir}
}

// ExportTrends 输出两张按日期对齐的图:
// 累计病例/死亡折线图和每日新增柱状图，返回生成的文件路径
func (e *ChartExporter) ExportTrends(slice dataframe.DataFrame, location string) (string, error) {
	if slice.Nrow() == 0 {
		return "", fmt.Errorf("no rows to chart for %q", location)
	}
	if err := ensureDir(e.dir); err != nil {
		return "", err
	}

	table := slice.Select(chartColumns)
	if table.Error() != nil {
		return "", fmt.Errorf("选取图表列失败: %w", table.Error())
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(dataSheet); err != nil {
		return "", err
	}
	if err := utils.WriteSheet(f, dataSheet, table); err != nil {
		return "", fmt.Errorf("写入图表数据失败: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", err
	}

	n := table.Nrow()

	lineChart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			chartSeries("B", n), // total_cases
			chartSeries("C", n), // total_deaths
		},
		Title:  []excelize.RichTextRun{{Text: "COVID-19 Total Cases and Deaths in " + location}},
		Legend: excelize.ChartLegend{Position: "top"},
	}
	if err := f.AddChart(dataSheet, "G2", lineChart); err != nil {
		return "", fmt.Errorf("生成折线图失败: %w", err)
	}

	barChart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			chartSeries("D", n), // new_cases
			chartSeries("E", n), // new_deaths
		},
		Title:  []excelize.RichTextRun{{Text: "COVID-19 Daily New Cases and Deaths in " + location}},
		Legend: excelize.ChartLegend{Position: "top"},
	}
	if err := f.AddChart(dataSheet, "G18", barChart); err != nil {
		return "", fmt.Errorf("生成柱状图失败: %w", err)
	}

	outPath := filepath.Join(e.dir, fmt.Sprintf("covid_trends_%s.xlsx", sanitizeName(location)))
	if err := f.SaveAs(outPath); err != nil {
		return "", fmt.Errorf("保存图表文件失败: %w", err)
	}
	return outPath, nil
}

func chartSeries(col string, nrow int) excelize.ChartSeries {
	return excelize.ChartSeries{
		Name:       fmt.Sprintf("%s!$%s$1", dataSheet, col),
		Categories: fmt.Sprintf("%s!$A$2:$A$%d", dataSheet, nrow+1),
		Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", dataSheet, col, col, nrow+1),
	}
}

// ensureDir 确保目录存在
func ensureDir(dirPath string) error {
	if info, err := os.Stat(dirPath); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", dirPath)
	}
	return os.MkdirAll(dirPath, 0755)
}

// sanitizeName 替换文件名中的路径分隔符等字符
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	return replacer.Replace(name)
}
