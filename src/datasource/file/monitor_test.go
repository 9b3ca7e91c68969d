package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDatasetMonitorDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")
	if err := os.WriteFile(path, []byte("location,date\n"), 0644); err != nil {
		t.Fatal(err)
	}

	monitor, err := NewDatasetMonitor(path)
	if err != nil {
		t.Fatalf("NewDatasetMonitor: %v", err)
	}
	defer monitor.Close()

	updated := make(chan string, 1)
	go monitor.Watch(func(p string) {
		select {
		case updated <- p:
		default:
		}
	})

	// 等监听循环就绪后再改文件
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("location,date\nTestland,2021-01-01\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-updated:
		if filepath.Clean(p) != filepath.Clean(path) {
			t.Errorf("handler got %q, want %q", p, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("monitor did not report the dataset update")
	}
}

func TestDatasetMonitorIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")
	if err := os.WriteFile(path, []byte("location,date\n"), 0644); err != nil {
		t.Fatal(err)
	}

	monitor, err := NewDatasetMonitor(path)
	if err != nil {
		t.Fatalf("NewDatasetMonitor: %v", err)
	}
	defer monitor.Close()

	updated := make(chan string, 1)
	go monitor.Watch(func(p string) {
		select {
		case updated <- p:
		default:
		}
	})

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-updated:
		t.Errorf("monitor fired for an unrelated file: %q", p)
	case <-time.After(300 * time.Millisecond):
	}
}
