package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"CovidTracker/src/config"
)

func newTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger, path
}

func TestLoggerWritesLeveledEntries(t *testing.T) {
	logger, path := newTestLogger(t)

	logger.Info("dataset loaded")
	logger.Error("fetch failed")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if !strings.Contains(out, "INFO: dataset loaded") {
		t.Errorf("missing info entry:\n%s", out)
	}
	if !strings.Contains(out, "ERROR: fetch failed") {
		t.Errorf("missing error entry:\n%s", out)
	}
}

func TestLoggerMinLevel(t *testing.T) {
	logger, path := newTestLogger(t)

	logger.SetMinLevel(WARNING)
	logger.Debug("noise")
	logger.Info("more noise")
	logger.Warning("kept")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if strings.Contains(out, "noise") {
		t.Errorf("entries below min level should be dropped:\n%s", out)
	}
	if !strings.Contains(out, "WARNING: kept") {
		t.Errorf("missing warning entry:\n%s", out)
	}
}

func TestLoggerSubscribe(t *testing.T) {
	logger, _ := newTestLogger(t)

	ch := logger.Subscribe()
	logger.Info("broadcast")

	select {
	case msg := <-ch:
		if !strings.Contains(msg, "INFO: broadcast") {
			t.Errorf("unexpected subscriber message: %q", msg)
		}
	default:
		t.Error("subscriber did not receive the entry")
	}
}

func TestLoggerRotate(t *testing.T) {
	logger, path := newTestLogger(t)

	for i := 0; i < 20; i++ {
		logger.Info("padding entry to grow the log file")
	}

	cfg := &config.Config{LogMaxSize: "16"}
	if err := logger.CheckRotate(cfg); err != nil {
		t.Fatalf("CheckRotate: %v", err)
	}

	// 原文件被归档，新文件为空
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat after rotate: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected fresh log file after rotation, size = %d", info.Size())
	}

	matches, err := filepath.Glob(path + ".*")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("expected one archived log file, got %v", matches)
	}
}

func TestMaxSize(t *testing.T) {
	if got := maxSize("10 * 1024 * 1024"); got != 10*1024*1024 {
		t.Errorf("maxSize = %d", got)
	}
	if got := maxSize("2048"); got != 2048 {
		t.Errorf("maxSize = %d", got)
	}
	// 非法表达式回退到默认值
	if got := maxSize("lots"); got != 10*1024*1024 {
		t.Errorf("maxSize fallback = %d", got)
	}
}
