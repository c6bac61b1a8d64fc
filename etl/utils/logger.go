package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger is the leveled logger for the ETL process. Messages are written to a
// dated log file and mirrored to stdout so both the scheduler and an operator
// tailing the file see the same output.
type Logger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
	file        *os.File
}

// NewLogger creates a Logger writing to etl_log_<date>.log. If the log file
// cannot be opened the logger degrades to stdout only.
func NewLogger(verbose bool) *Logger {
	logFileName := fmt.Sprintf("etl_log_%s.log", time.Now().Format("2006-01-02"))

	var out io.Writer = os.Stdout
	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Printf("could not open log file %s, logging to stdout only: %v", logFileName, err)
		file = nil
	} else {
		out = io.MultiWriter(file, os.Stdout)
	}

	return &Logger{
		infoLogger:  log.New(out, "INFO: ", log.Ldate|log.Ltime),
		errorLogger: log.New(out, "ERROR: ", log.Ldate|log.Ltime),
		debugLogger: log.New(out, "DEBUG: ", log.Ldate|log.Ltime),
		isVerbose:   verbose,
		file:        file,
	}
}

// Info logs an informational message.
func (l *Logger) Info(format string, v ...interface{}) {
	l.infoLogger.Printf(format, v...)
}

// Error logs an error message.
func (l *Logger) Error(format string, v ...interface{}) {
	l.errorLogger.Printf(format, v...)
}

// Debug logs a debug message when verbose mode is enabled.
func (l *Logger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}
	l.debugLogger.Printf(format, v...)
}

// LogPhaseStart logs the beginning of a pipeline phase.
func (l *Logger) LogPhaseStart(phase string) {
	l.Info("Starting %s phase", phase)
}

// LogPhaseComplete logs the completion of a pipeline phase.
func (l *Logger) LogPhaseComplete(phase string, duration time.Duration) {
	l.Info("%s phase complete. Duration: %v", phase, duration)
}

// Close releases the underlying log file, if any.
func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
	}
}
