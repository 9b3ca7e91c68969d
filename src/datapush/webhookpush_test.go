package datapush

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CovidTracker/src/processor"
)

func pushTestSnapshot() *processor.Snapshot {
	return &processor.Snapshot{
		Location:        "Testland",
		Date:            time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC),
		TotalCases:      150,
		TotalDeaths:     3,
		FatalityRate:    2.00,
		HasFatalityRate: true,
	}
}

func TestPushSnapshot(t *testing.T) {
	var received textMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode push body: %v", err)
		}
		w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}))
	defer srv.Close()

	p := NewWebhookPusher(srv.URL, "")
	if err := p.PushSnapshot(pushTestSnapshot()); err != nil {
		t.Fatalf("PushSnapshot: %v", err)
	}

	if received.MsgType != "text" {
		t.Errorf("msgtype = %q, want text", received.MsgType)
	}
	if !strings.Contains(received.Text.Content, "Total Cases: 150") {
		t.Errorf("unexpected push content:\n%s", received.Text.Content)
	}
}

func TestPushSnapshotRetriesAndFails(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewWebhookPusher(srv.URL, "")
	p.retryTimes = 3
	p.retryInterval = time.Millisecond

	if err := p.PushSnapshot(pushTestSnapshot()); err == nil {
		t.Fatal("expected push to fail")
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestPushSnapshotWebhookErrcode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errcode":310000,"errmsg":"sign not match"}`))
	}))
	defer srv.Close()

	p := NewWebhookPusher(srv.URL, "")
	p.retryTimes = 1
	p.retryInterval = time.Millisecond

	err := p.PushSnapshot(pushTestSnapshot())
	if err == nil || !strings.Contains(err.Error(), "sign not match") {
		t.Errorf("expected errcode failure, got %v", err)
	}
}

func TestSignedURL(t *testing.T) {
	p := NewWebhookPusher("https://example.com/robot/send?access_token=abc", "secret")
	signed := p.signedURL()

	if !strings.Contains(signed, "&timestamp=") || !strings.Contains(signed, "&sign=") {
		t.Errorf("signed url missing parameters: %s", signed)
	}

	// 未配置secret时不加签
	plain := NewWebhookPusher("https://example.com/robot/send", "")
	if plain.signedURL() != "https://example.com/robot/send" {
		t.Errorf("unexpected url without secret: %s", plain.signedURL())
	}
}

func TestFormatSnapshot(t *testing.T) {
	content := FormatSnapshot(pushTestSnapshot())

	for _, want := range []string{"COVID-19 Testland (2021-01-02)", "Total Deaths: 3", "Case Fatality Rate: 2.00%"} {
		if !strings.Contains(content, want) {
			t.Errorf("missing %q in:\n%s", want, content)
		}
	}
	if strings.Contains(content, "Total Vaccinations") {
		t.Errorf("vaccinations should be omitted when zero:\n%s", content)
	}
}
