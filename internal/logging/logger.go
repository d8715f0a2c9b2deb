package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/martijn/clustercalm/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu        sync.Mutex
	logger    *slog.Logger
	logCloser io.Closer
)

// Init builds the process logger from cfg and installs it as the slog
// default. Calling it again replaces the previous logger.
func Init(cfg *config.Config) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}

	output, closer := buildOutput(cfg)
	logCloser = closer

	logger = New(output, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	log.SetFlags(0)
	log.SetOutput(slogWriter{logger: logger})

	return logger
}

// New returns a logger writing to w with the given level and format.
func New(w io.Writer, level, format string) *slog.Logger {
	options := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

// L returns the configured logger, or a discarding logger before Init.
func L() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return Discard()
	}
	return logger
}

func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Close flushes and closes the rotating log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logCloser != nil {
		err := logCloser.Close()
		logCloser = nil
		return err
	}
	return nil
}

type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return len(p), nil
	}
	w.logger.Info(msg)
	return len(p), nil
}

func buildOutput(cfg *config.Config) (io.Writer, io.Closer) {
	if strings.TrimSpace(cfg.LogFile) == "" {
		return os.Stderr, nil
	}

	fileLogger := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	}

	return io.MultiWriter(os.Stderr, fileLogger), fileLogger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
