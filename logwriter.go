package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DailyLogWriter appends to <dir>/current.log and, on the first write of a
// new local day, archives the previous file to bot-YYYY-MM-DD.log.gz and
// prunes archives older than the retention.
type DailyLogWriter struct {
	mu         sync.Mutex
	dir        string
	loc        *time.Location
	retention  int
	file       *os.File
	currentDay string
}

func NewDailyLogWriter(dir string, retentionDays int, loc *time.Location) (*DailyLogWriter, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("log dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	w := &DailyLogWriter{
		dir:        dir,
		loc:        loc,
		retention:  retentionDays,
		currentDay: time.Now().In(loc).Format("2006-01-02"),
	}
	if err := w.openLocked(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *DailyLogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := time.Now().In(w.loc).Format("2006-01-02")
	if day != w.currentDay {
		if err := w.rotateLocked(day); err != nil {
			// Keep logging to the old file rather than dropping the line.
			fmt.Fprintf(os.Stderr, "log rotate error: %v\n", err)
		}
	}
	if w.file == nil {
		if err := w.openLocked(); err != nil {
			return 0, err
		}
	}
	return w.file.Write(p)
}

func (w *DailyLogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *DailyLogWriter) openLocked() error {
	f, err := os.OpenFile(w.currentPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open current log: %w", err)
	}
	w.file = f
	return nil
}

func (w *DailyLogWriter) rotateLocked(newDay string) error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("close current log: %w", err)
		}
		w.file = nil
	}
	archive := filepath.Join(w.dir, fmt.Sprintf("bot-%s.log", w.currentDay))
	if err := os.Rename(w.currentPath(), archive); err != nil {
		return fmt.Errorf("archive current log: %w", err)
	}
	if err := gzipFile(archive); err != nil {
		return fmt.Errorf("gzip archive: %w", err)
	}
	w.currentDay = newDay
	if err := w.openLocked(); err != nil {
		return err
	}
	return w.pruneLocked()
}

func (w *DailyLogWriter) currentPath() string {
	return filepath.Join(w.dir, "current.log")
}

func (w *DailyLogWriter) pruneLocked() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}
	cutoff := time.Now().In(w.loc).AddDate(0, 0, -w.retention)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "bot-") || !strings.HasSuffix(name, ".log.gz") {
			continue
		}
		datePart := strings.TrimSuffix(strings.TrimPrefix(name, "bot-"), ".log.gz")
		d, err := time.ParseInLocation("2006-01-02", datePart, w.loc)
		if err != nil {
			continue
		}
		if d.Before(cutoff) {
			_ = os.Remove(filepath.Join(w.dir, name))
		}
	}
	return nil
}

func gzipFile(srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(srcPath+".gz", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		dst.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return os.Remove(srcPath)
}
