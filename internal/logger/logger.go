package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/Lutefd/currency-converter/internal/repository"
)

var (
	InfoLogger       *log.Logger
	WarnLogger       *log.Logger
	ErrorLogger      *log.Logger
	loggerBufferSize = 1000

	mu      sync.RWMutex
	logChan chan model.Log
	logRepo repository.LogRepository
	drained chan struct{}
)

func init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLogger = log.New(os.Stderr, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// InitLogger starts persisting every log entry to repo. Without it the
// package only writes to stdout and stderr.
func InitLogger(repo repository.LogRepository) {
	mu.Lock()
	defer mu.Unlock()

	ch := make(chan model.Log, loggerBufferSize)
	done := make(chan struct{})
	logChan = ch
	logRepo = repo
	drained = done
	go processLogs(repo, ch, done)
}

func processLogs(repo repository.LogRepository, ch <-chan model.Log, done chan<- struct{}) {
	defer close(done)
	for logEntry := range ch {
		if err := repo.SaveLog(context.Background(), logEntry); err != nil {
			ErrorLogger.Printf("failed to save log: %v", err)
		}
	}
}

func logAsync(level model.LogLevel, message string) {
	switch level {
	case model.LogLevelInfo:
		InfoLogger.Output(3, message)
	case model.LogLevelWarn:
		WarnLogger.Output(3, message)
	default:
		ErrorLogger.Output(3, message)
	}

	mu.RLock()
	defer mu.RUnlock()
	if logChan == nil {
		return
	}

	logEntry := model.NewLog(level, message)
	select {
	case logChan <- logEntry:
	default:
		ErrorLogger.Printf("log channel full. Dropping log: %v", logEntry)
	}
}

func Info(v ...any) {
	logAsync(model.LogLevelInfo, fmt.Sprint(v...))
}

func Infof(format string, v ...any) {
	logAsync(model.LogLevelInfo, fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	logAsync(model.LogLevelWarn, fmt.Sprintf(format, v...))
}

func Error(v ...any) {
	logAsync(model.LogLevelError, fmt.Sprint(v...))
}

func Errorf(format string, v ...any) {
	logAsync(model.LogLevelError, fmt.Sprintf(format, v...))
}

// Shutdown stops accepting entries, waits for the pending ones to be saved
// and closes the repository. It is a no-op when no repository was set.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	ch, repo, done := logChan, logRepo, drained
	logChan, logRepo, drained = nil, nil, nil
	mu.Unlock()

	if ch == nil {
		return nil
	}
	close(ch)

	select {
	case <-done:
		return repo.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}
