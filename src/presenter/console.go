// console.go
package presenter

import (
	"fmt"
	"io"
	"strings"

	"CovidTracker/src/processor"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Options 控制台输出选项，显式传入而不是进程级全局状态
type Options struct {
	Wide bool // 国家列表按多列排布
}

// Console 负责把快照和国家列表渲染到终端
type Console struct {
	out     io.Writer
	printer *message.Printer
	opts    Options
}

func NewConsole(out io.Writer, opts Options) *Console {
	return &Console{
		out:     out,
		printer: message.NewPrinter(language.English), // 数字带千位分隔符
		opts:    opts,
	}
}

// ShowSnapshot 打印某个国家最新一天的统计
func (c *Console) ShowSnapshot(s *processor.Snapshot) {
	fmt.Fprintf(c.out, "\n=== COVID-19 Statistics for %s ===\n", s.Location)
	fmt.Fprintf(c.out, "Last updated: %s\n", s.Date.Format("2006-01-02"))
	c.printer.Fprintf(c.out, "Total Cases: %d\n", s.TotalCases)
	c.printer.Fprintf(c.out, "Total Deaths: %d\n", s.TotalDeaths)

	if s.TotalVaccinations > 0 {
		c.printer.Fprintf(c.out, "Total Vaccinations: %d\n", s.TotalVaccinations)
	}
	if s.HasFatalityRate {
		fmt.Fprintf(c.out, "Case Fatality Rate: %.2f%%\n", s.FatalityRate)
	}
}

// ShowLocations 打印可用国家列表
func (c *Console) ShowLocations(locations []string) {
	fmt.Fprintln(c.out, "\nAvailable countries:")
	if !c.opts.Wide {
		for i, loc := range locations {
			fmt.Fprintf(c.out, "%d. %s\n", i+1, loc)
		}
		return
	}

	// 宽屏模式按三列排布
	const columns = 3
	for i := 0; i < len(locations); i += columns {
		var row []string
		for j := i; j < i+columns && j < len(locations); j++ {
			row = append(row, fmt.Sprintf("%3d. %-28s", j+1, locations[j]))
		}
		fmt.Fprintln(c.out, strings.Join(row, ""))
	}
}

// ShowMenu 打印主菜单
func (c *Console) ShowMenu() {
	fmt.Fprintln(c.out, "\n=== COVID-19 Data Tracker ===")
	fmt.Fprintln(c.out, "1. View data for a specific country")
	fmt.Fprintln(c.out, "2. List available countries")
	fmt.Fprintln(c.out, "3. Exit")
}
