package logger

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions controls rotation of a log file.
type FileOptions struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewFileWriter returns a size-rotated writer for path.
func NewFileWriter(path string, opts FileOptions) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
}

// InitWithFile initializes the global logger writing to stdout and to a
// rotated file at path. The returned closer releases the file.
func InitWithFile(path string, opts FileOptions) (io.Closer, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	w := NewFileWriter(path, opts)
	if err := InitWithWriter(io.MultiWriter(os.Stdout, w)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}
