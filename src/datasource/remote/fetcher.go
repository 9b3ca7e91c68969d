// fetcher.go
package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"CovidTracker/src/datasource"

	"github.com/go-gota/gota/dataframe"
)

// Fetcher 负责从远程数据源拉取CSV数据集
// 单次阻塞请求，失败直接返回错误，不做重试
type Fetcher struct {
	url    string
	client *http.Client
}

func NewFetcher(url string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchDataFrame 拉取远程CSV并整理成DataFrame
func (f *Fetcher) FetchDataFrame(ctx context.Context) (dataframe.DataFrame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("构造数据集请求失败: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("拉取数据集失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dataframe.DataFrame{}, fmt.Errorf("数据源响应异常代码%d", resp.StatusCode)
	}

	df := dataframe.ReadCSV(resp.Body, dataframe.WithTypes(datasource.ColumnTypes()))
	return datasource.PrepareFrame(df)
}
