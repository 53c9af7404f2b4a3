// Package debug provides the opt-in raw event log: a plain append-only
// file for things too noisy for the structured log, like every queue
// transition during an investigation.
package debug

import (
	"log"
	"os"
)

type Logger struct {
	enabled bool
}

// NewLogger enables raw logging to the given file when enabled is true.
// An empty path falls back to debug.log in the working directory.
func NewLogger(enabled bool, path string) *Logger {
	if enabled {
		if path == "" {
			path = "debug.log"
		}
		logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(logFile)
		}
		log.Printf("=== DEBUG MODE ENABLED ===")
	}

	return &Logger{enabled: enabled}
}

func (d *Logger) Printf(format string, args ...interface{}) {
	if d.enabled {
		log.Printf(format, args...)
	}
}

func (d *Logger) Println(args ...interface{}) {
	if d.enabled {
		log.Println(args...)
	}
}
