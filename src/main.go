package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"CovidTracker/src/config"
	"CovidTracker/src/datapush"
	"CovidTracker/src/datasource/file"
	"CovidTracker/src/datasource/remote"
	"CovidTracker/src/presenter"
	"CovidTracker/src/processor"
	"CovidTracker/src/storage"

	"github.com/go-gota/gota/dataframe"
	"github.com/robfig/cron"
)

// TrendExporter 趋势图渲染边界
type TrendExporter interface {
	ExportTrends(slice dataframe.DataFrame, location string) (string, error)
}

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Close()

	if cfg.LogHTTPAddr != "" {
		go startLogViewer(cfg.LogHTTPAddr, logger)
	}

	fmt.Println("Loading data... This might take a few moments.")
	raw, err := loadDataset(cfg)
	if err != nil {
		// 数据集不可用属于致命错误，无法继续会话
		logger.Error("加载数据集失败: " + err.Error())
		fmt.Fprintln(os.Stderr, "Error loading data:", err)
		os.Exit(1)
	}
	fmt.Println("Data loaded successfully!")

	holder := processor.NewFrameHolder(processor.Clean(raw, dcfg.Crucial()))
	logger.Info(fmt.Sprintf("数据集加载完成，清洗后共%d行", holder.Get().Nrow()))

	var pusher *datapush.WebhookPusher
	if cfg.Push.WebhookURL != "" {
		pusher = datapush.NewWebhookPusher(cfg.Push.WebhookURL, cfg.Push.Secret)
	}

	// 远程数据源按配置的间隔定时全量刷新
	if cfg.Source.LocalFile == "" && cfg.Source.RefreshInterval > 0 {
		c := cron.New()
		cronSpec := fmt.Sprintf("@every %s", time.Duration(cfg.Source.RefreshInterval))
		if err := c.AddFunc(cronSpec, func() {
			refreshDataset(cfg, dcfg, holder, logger, pusher)
		}); err != nil {
			logger.Error("创建定时刷新任务失败: " + err.Error())
		} else {
			c.Start()
			defer c.Stop()
			logger.Info(fmt.Sprintf("定时刷新已启动(间隔: %v)", time.Duration(cfg.Source.RefreshInterval)))
		}
	}

	// 本地数据源改用文件监视热加载
	if cfg.Source.LocalFile != "" {
		go watchLocalDataset(cfg, dcfg, holder, logger)
	}

	console := presenter.NewConsole(os.Stdout, presenter.Options{Wide: cfg.WideOutput})
	exporter := presenter.NewChartExporter(cfg.ChartDir)

	runSession(os.Stdin, os.Stdout, console, holder, exporter, logger)
}

// loadDataset 按配置从本地文件或远程地址加载数据集
func loadDataset(cfg *config.Config) (dataframe.DataFrame, error) {
	if cfg.Source.LocalFile != "" {
		return file.ReadDatasetFile(cfg.Source.LocalFile, cfg.Source.SheetName)
	}

	timeout := time.Duration(cfg.Source.FetchTimeout)
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return remote.NewFetcher(cfg.Source.URL, timeout).FetchDataFrame(ctx)
}

func refreshDataset(cfg *config.Config, dcfg *config.DataConfig,
	holder *processor.FrameHolder, logger *storage.Logger, pusher *datapush.WebhookPusher) {

	logger.Info("开始定时刷新数据集...")
	t1 := time.Now()

	raw, err := loadDataset(cfg)
	if err != nil {
		// 刷新失败保留旧数据继续服务
		logger.Error("刷新数据集失败: " + err.Error())
		return
	}
	holder.Set(processor.Clean(raw, dcfg.Crucial()))
	logger.Info(fmt.Sprintf("数据集刷新完成，耗时%v", time.Since(t1)))

	if pusher == nil {
		return
	}
	df := holder.Get()
	for _, country := range cfg.Push.Countries {
		snap, err := processor.Summarize(processor.FilterByLocation(df, country))
		if err != nil {
			logger.Warning(fmt.Sprintf("推送跳过 %s: %v", country, err))
			continue
		}
		if err := pusher.PushSnapshot(snap); err != nil {
			logger.Error(fmt.Sprintf("推送 %s 摘要失败: %v", country, err))
		}
	}
}

func watchLocalDataset(cfg *config.Config, dcfg *config.DataConfig,
	holder *processor.FrameHolder, logger *storage.Logger) {

	monitor, err := file.NewDatasetMonitor(cfg.Source.LocalFile)
	if err != nil {
		logger.Error("创建数据集文件监视失败: " + err.Error())
		return
	}
	defer monitor.Close()

	err = monitor.Watch(func(path string) {
		raw, err := file.ReadDatasetFile(path, cfg.Source.SheetName)
		if err != nil {
			logger.Error("重新加载数据集失败: " + err.Error())
			return
		}
		holder.Set(processor.Clean(raw, dcfg.Crucial()))
		logger.Info("检测到数据集文件更新，已重新加载: " + path)
	})
	if err != nil {
		logger.Error("数据集文件监视错误: " + err.Error())
	}
}

// runSession 交互式菜单循环，读取一条指令处理一条
func runSession(in io.Reader, out io.Writer, console *presenter.Console,
	holder *processor.FrameHolder, exporter TrendExporter, logger *storage.Logger) {

	scanner := bufio.NewScanner(in)
	for {
		console.ShowMenu()
		fmt.Fprint(out, "\nEnter your choice (1-3): ")
		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			fmt.Fprint(out, "\nEnter country name: ")
			if !scanner.Scan() {
				return
			}
			country := strings.TrimSpace(scanner.Text())
			showCountry(out, console, holder.Get(), country, exporter, logger)

		case "2":
			console.ShowLocations(processor.ListLocations(holder.Get()))

		case "3":
			fmt.Fprintln(out, "\nThank you for using the COVID-19 Data Tracker!")
			return

		default:
			fmt.Fprintln(out, "\nInvalid choice. Please try again.")
		}
	}
}

func showCountry(out io.Writer, console *presenter.Console, df dataframe.DataFrame,
	country string, exporter TrendExporter, logger *storage.Logger) {

	slice := processor.FilterByLocation(df, country)
	snap, err := processor.Summarize(slice)
	if errors.Is(err, processor.ErrNoData) {
		// 未知国家回到菜单而不是退出
		fmt.Fprintf(out, "\nCountry '%s' not found. Please check the available countries list.\n", country)
		return
	}
	if err != nil {
		fmt.Fprintln(out, "\nFailed to summarize data:", err)
		return
	}
	console.ShowSnapshot(snap)

	if exporter == nil {
		return
	}
	path, err := exporter.ExportTrends(slice, country)
	if err != nil {
		if logger != nil {
			logger.Error("生成趋势图失败: " + err.Error())
		}
		fmt.Fprintln(out, "Failed to render trend charts:", err)
		return
	}
	fmt.Fprintln(out, "Trend charts saved to:", path)
}

// startLogViewer 启动/logs页面实时输出日志
func startLogViewer(addr string, logger *storage.Logger) {
	http.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		logChan := logger.Subscribe()
		for {
			select {
			case msg := <-logChan:
				if _, err := fmt.Fprint(w, msg); err != nil {
					return
				}
				if f, ok := w.(http.Flusher); ok {
					f.Flush()
				}
			case <-r.Context().Done():
				return
			}
		}
	})

	http.ListenAndServe(addr, nil)
}
