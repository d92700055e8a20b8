package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/afero"
)

const fileMode = 0o644

// Options describes where and how to log.
type Options struct {
	Level       string
	Environment string
	AddSource   bool
	// FilePath is appended to when EnableFile is set.
	FilePath   string
	EnableFile bool
	// Console defaults to os.Stdout.
	Console io.Writer
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
}

// New returns the logger and a closer for the file sink. The closer is a
// no-op when no file is written.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	if opts.Console != nil {
		out = opts.Console
	}

	if opts.EnableFile {
		if opts.FilePath == "" {
			return nil, nil, ewrap.New("log file path is required when the file sink is enabled")
		}

		fs := opts.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}

		file, err := fs.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileMode)
		if err != nil {
			return nil, nil, ewrap.Wrapf(err, "failed to open log file %s", opts.FilePath)
		}

		out = io.MultiWriter(out, file)
		closer = file
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler

	if strings.ToLower(opts.Environment) == "prod" {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.Environment != "" {
		logger = logger.With(slog.String("environment", opts.Environment))
	}

	return logger, closer, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
