// Package logger sends CLI logs to a file so they do not interleave with
// the terminal UI.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	logger  = log.New(io.Discard, "[coldmail] ", log.LstdFlags|log.Lshortfile)
	logFile *os.File
)

// Init opens a timestamped log file under dir and routes both this package
// and the standard logger to it. When the file cannot be created, logs go to
// stderr instead.
func Init(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger = log.New(os.Stderr, "[coldmail] ", log.LstdFlags|log.Lshortfile)
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("coldmail-%s.log", time.Now().Format("20060102-150405")))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger = log.New(os.Stderr, "[coldmail] ", log.LstdFlags|log.Lshortfile)
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = file
	logger = log.New(file, "[coldmail] ", log.LstdFlags|log.Lshortfile)
	log.SetOutput(file)
	return path, nil
}

// DefaultDir is ~/.config/coldmail/logs, or ./tmp when there is no home.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "tmp"
	}
	return filepath.Join(homeDir, ".config", "coldmail", "logs")
}

func Log(format string, v ...interface{}) {
	logger.Printf(format, v...)
}

func LogError(err error, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	logger.Printf("ERROR: %s: %v", msg, err)
}

// Close flushes and closes the log file.
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
		log.SetOutput(os.Stderr)
	}
}
