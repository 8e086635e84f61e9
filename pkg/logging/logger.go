// Package logging provides the process-wide logger. Log lines go to stdout for
// immediate visibility and to a size-rotated file under .pageforge/.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes level-tagged log lines for the server and pipeline.
type Logger struct {
	logger   *log.Logger
	rotator  *lumberjack.Logger
	jsonMode bool
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the singleton logger, initializing the rotating log file on
// first use. Set PAGEFORGE_JSON_LOGS=1 for machine-readable output.
func Get() *Logger {
	once.Do(func() {
		rotator := &lumberjack.Logger{
			Filename:   ".pageforge/server.log",
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger:  log.New(io.MultiWriter(os.Stdout, rotator), "", log.LstdFlags),
			rotator: rotator,
		}
	})
	if os.Getenv("PAGEFORGE_JSON_LOGS") == "1" {
		globalLogger.jsonMode = true
	}
	return globalLogger
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.emit("info", fmt.Sprintf(format, v...))
}

// Warnf logs a formatted warning.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.emit("warn", fmt.Sprintf(format, v...))
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.emit("error", fmt.Sprintf(format, v...))
}

// LogError logs an error value.
func (l *Logger) LogError(err error) {
	l.emit("error", err.Error())
}

// LogStage records one pipeline stage transition for a task. Every external
// call failure is logged through here with the stage name and task id so
// failures can be diagnosed without reproducing the request.
func (l *Logger) LogStage(taskID, stage, detail string) {
	if detail == "" {
		l.emit("info", fmt.Sprintf("task=%s stage=%s", taskID, stage))
		return
	}
	l.emit("info", fmt.Sprintf("task=%s stage=%s %s", taskID, stage, detail))
}

func (l *Logger) emit(level, message string) {
	if l.jsonMode {
		_ = json.NewEncoder(l.logger.Writer()).Encode(map[string]any{"level": level, "msg": message})
		return
	}
	l.logger.Printf("[%s] %s", level, message)
}
