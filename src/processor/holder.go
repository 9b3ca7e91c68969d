// holder.go
package processor

import (
	"sync"

	"github.com/go-gota/gota/dataframe"
)

// FrameHolder 封装DataFrame并提供线程安全访问
// 定时刷新协程写入，交互会话读取
type FrameHolder struct {
	df dataframe.DataFrame
	mu sync.RWMutex
}

func NewFrameHolder(df dataframe.DataFrame) *FrameHolder {
	return &FrameHolder{df: df}
}

// Get 获取当前DataFrame(线程安全)
func (h *FrameHolder) Get() dataframe.DataFrame {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.df
}

// Set 替换当前DataFrame(线程安全)
func (h *FrameHolder) Set(df dataframe.DataFrame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.df = df
}
