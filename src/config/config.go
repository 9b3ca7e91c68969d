package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Source struct {
		URL             string   `json:"url"`              // 远程数据集地址(CSV)
		LocalFile       string   `json:"local_file"`       // 本地数据集文件，非空时优先于URL
		SheetName       string   `json:"sheet_name"`       // 本地xlsx数据集的工作表名
		FetchTimeout    Duration `json:"fetch_timeout"`    // 拉取远程数据集的超时时间
		RefreshInterval Duration `json:"refresh_interval"` // 定时刷新数据集的间隔，0表示不刷新
	} `json:"source"`

	DataDir     string `json:"data_dir"`  // 应用程序数据存储目录
	ChartDir    string `json:"chart_dir"` // 趋势图表输出目录
	LogName     string `json:"log_name"`
	LogMaxSize  string `json:"log_max_size"`
	LogHTTPAddr string `json:"log_http_addr"` // 非空时启动/logs实时日志页面
	WideOutput  bool   `json:"wide_output"`   // 宽屏输出国家列表

	Push struct {
		WebhookURL string   `json:"webhook_url"` // 数据刷新后推送摘要的webhook地址
		Secret     string   `json:"secret"`
		Countries  []string `json:"countries"` // 需要推送摘要的国家
	} `json:"push"`
}

// DataConfig 描述数据集的列结构
type DataConfig struct {
	CrucialColumns []string          `json:"crucialcolumns"` // 关键列，全部缺失的行会被丢弃
	MetricColumns  []string          `json:"metriccolumns"`  // 数值指标列
	ColumnLabels   map[string]string `json:"columnlabels"`   // 列名到展示名的映射
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (dc *DataConfig) GetColumnLabel(colName string) string {
	mu.RLock()
	defer mu.RUnlock()
	if label, ok := dc.ColumnLabels[colName]; ok {
		return label
	}
	return colName
}

func (dc *DataConfig) SetColumnLabel(colName, label string) {
	mu.Lock()
	defer mu.Unlock()
	if dc.ColumnLabels == nil {
		dc.ColumnLabels = make(map[string]string)
	}
	dc.ColumnLabels[colName] = label
}

// Crucial 返回关键列列表，未配置时回退到默认的病例/死亡两列
func (dc *DataConfig) Crucial() []string {
	mu.RLock()
	defer mu.RUnlock()
	if len(dc.CrucialColumns) == 0 {
		return []string{"total_cases", "total_deaths"}
	}
	return dc.CrucialColumns
}

// Metrics 返回数值指标列列表
func (dc *DataConfig) Metrics() []string {
	mu.RLock()
	defer mu.RUnlock()
	if len(dc.MetricColumns) == 0 {
		return []string{"total_cases", "total_deaths", "new_cases", "new_deaths", "total_vaccinations"}
	}
	return dc.MetricColumns
}
