// webhookpush.go
package datapush

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CovidTracker/src/processor"
)

const (
	RetryTimes    = 5
	RetryInterval = 2 * time.Second
)

// PushResponse 机器人webhook的响应格式
type PushResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

type textMessage struct {
	MsgType string `json:"msgtype"`
	Text    struct {
		Content string `json:"content"`
	} `json:"text"`
}

// WebhookPusher 将快照摘要推送到群机器人webhook
type WebhookPusher struct {
	url           string
	secret        string
	client        *http.Client
	retryTimes    int
	retryInterval time.Duration
}

func NewWebhookPusher(webhookURL, secret string) *WebhookPusher {
	return &WebhookPusher{
		url:    webhookURL,
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		retryTimes:    RetryTimes,
		retryInterval: RetryInterval,
	}
}

// PushSnapshot 推送单个国家的最新统计摘要，失败时有限重试
func (p *WebhookPusher) PushSnapshot(s *processor.Snapshot) error {
	msg := textMessage{MsgType: "text"}
	msg.Text.Content = FormatSnapshot(s)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化推送消息失败: %w", err)
	}

	var lastErr error
	for i := 0; i < p.retryTimes; i++ {
		if i > 0 {
			time.Sleep(p.retryInterval)
		}
		if lastErr = p.post(body); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("推送失败(重试%d次): %w", p.retryTimes, lastErr)
}

func (p *WebhookPusher) post(body []byte) error {
	resp, err := p.client.Post(p.signedURL(), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("请求webhook失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook响应异常代码%d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取webhook响应失败: %w", err)
	}

	var pushResp PushResponse
	if err := json.Unmarshal(data, &pushResp); err != nil {
		// 非机器人格式的响应按状态码判定成功
		return nil
	}
	if pushResp.ErrCode != 0 {
		return fmt.Errorf("webhook返回错误: %s", pushResp.ErrMsg)
	}
	return nil
}

// signedURL 按机器人加签规则附加timestamp和sign参数
func (p *WebhookPusher) signedURL() string {
	if p.secret == "" {
		return p.url
	}

	timestamp := time.Now().UnixMilli()
	payload := fmt.Sprintf("%d\n%s", timestamp, p.secret)

	mac := hmac.New(sha256.New, []byte(p.secret))
	mac.Write([]byte(payload))
	sign := url.QueryEscape(base64.StdEncoding.EncodeToString(mac.Sum(nil)))

	sep := "?"
	if strings.Contains(p.url, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%stimestamp=%d&sign=%s", p.url, sep, timestamp, sign)
}

// FormatSnapshot 把快照渲染成推送正文
func FormatSnapshot(s *processor.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "COVID-19 %s (%s)\n", s.Location, s.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total Cases: %d\n", s.TotalCases)
	fmt.Fprintf(&b, "Total Deaths: %d\n", s.TotalDeaths)
	if s.TotalVaccinations > 0 {
		fmt.Fprintf(&b, "Total Vaccinations: %d\n", s.TotalVaccinations)
	}
	if s.HasFatalityRate {
		fmt.Fprintf(&b, "Case Fatality Rate: %.2f%%\n", s.FatalityRate)
	}
	return b.String()
}
