package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDailyLogWriterWritesCurrentLog(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDailyLogWriter(dir, 7, time.UTC)
	if err != nil {
		t.Fatalf("NewDailyLogWriter: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("hello log\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "current.log"))
	if err != nil {
		t.Fatalf("read current.log: %v", err)
	}
	if string(b) != "hello log\n" {
		t.Errorf("current.log = %q", b)
	}
}

func TestDailyLogWriterRotatesOnDayChange(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDailyLogWriter(dir, 7, time.UTC)
	if err != nil {
		t.Fatalf("NewDailyLogWriter: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("yesterday\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Pretend the open file belongs to the previous day.
	w.mu.Lock()
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	w.currentDay = yesterday
	w.mu.Unlock()

	if _, err := w.Write([]byte("today\n")); err != nil {
		t.Fatalf("Write after day change: %v", err)
	}

	archive := filepath.Join(dir, "bot-"+yesterday+".log.gz")
	if _, err := os.Stat(archive); err != nil {
		t.Errorf("archive %s missing: %v", archive, err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "current.log"))
	if err != nil {
		t.Fatalf("read current.log: %v", err)
	}
	if string(b) != "today\n" {
		t.Errorf("current.log after rotation = %q", b)
	}
}
