package logger

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LoggerService redirects the standard logger to rotating files under a
// configured folder, with size-based rotation and zip archival of logs past
// the retention window.
type LoggerService struct {
	config        map[string]interface{}
	file          *os.File
	mu            sync.Mutex
	stopCh        chan struct{}
	wg            sync.WaitGroup
	maxFileBytes  int64
	retentionDays int
	folderPath    string
}

func NewLoggerService(config map[string]interface{}) *LoggerService {
	toInt := func(key string) int {
		switch v := config[key].(type) {
		case int:
			return v
		case float64:
			return int(v)
		}
		return 0
	}
	folder, _ := config["folder_path"].(string)
	if folder == "" {
		folder = "./logs"
	}
	return &LoggerService{
		config:        config,
		stopCh:        make(chan struct{}),
		maxFileBytes:  int64(toInt("max_file_mb")) * 1024 * 1024,
		retentionDays: toInt("retention_days"),
		folderPath:    folder,
	}
}

func (l *LoggerService) Name() string {
	return "logger"
}

func (l *LoggerService) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.folderPath, 0755); err != nil {
		return err
	}
	if err := l.openNewFile(); err != nil {
		return err
	}
	log.Println("[LoggerService] Started, writing to", l.file.Name())

	l.wg.Add(1)
	go l.backgroundWorker()
	return nil
}

func (l *LoggerService) Stop() error {
	close(l.stopCh)
	l.wg.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		log.Println("[LoggerService] Stopping")
		return l.file.Close()
	}
	return nil
}

func (l *LoggerService) openNewFile() error {
	name := filepath.Join(l.folderPath, fmt.Sprintf("comexcore_%s.log", time.Now().Format("20060102_150405")))
	file, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	l.file = file
	log.SetOutput(file)
	return nil
}

func (l *LoggerService) rotateIfNeeded() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || l.maxFileBytes <= 0 {
		return
	}
	info, err := l.file.Stat()
	if err != nil || info.Size() < l.maxFileBytes {
		return
	}
	l.file.Close()
	if err := l.openNewFile(); err == nil {
		log.Println("[LoggerService] Rotated log file to", l.file.Name())
	}
}

func (l *LoggerService) backgroundWorker() {
	defer l.wg.Done()
	rotate := time.NewTicker(10 * time.Second)
	retention := time.NewTicker(24 * time.Hour)
	defer rotate.Stop()
	defer retention.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-rotate.C:
			l.rotateIfNeeded()
		case <-retention.C:
			l.zipAndCleanOldLogs()
		}
	}
}

func (l *LoggerService) zipAndCleanOldLogs() {
	if l.retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -l.retentionDays)
	files, err := os.ReadDir(l.folderPath)
	if err != nil {
		return
	}
	zipFile, err := os.Create(filepath.Join(l.folderPath, fmt.Sprintf("logs_%s.zip", time.Now().Format("20060102"))))
	if err != nil {
		return
	}
	defer zipFile.Close()
	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".log" {
			continue
		}
		fullPath := filepath.Join(l.folderPath, f.Name())
		info, err := os.Stat(fullPath)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		w, err := zw.Create(f.Name())
		if err != nil {
			continue
		}
		src, err := os.Open(fullPath)
		if err != nil {
			continue
		}
		io.Copy(w, src)
		src.Close()
		os.Remove(fullPath)
	}
}

// LogAudit writes an operator-facing audit line.
func (l *LoggerService) LogAudit(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	log.Printf("[AUDIT] %s", msg)
}

var GlobalLogger *LoggerService

func SetGlobalLogger(l *LoggerService) {
	GlobalLogger = l
}
