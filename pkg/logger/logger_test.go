package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/go-keepalive/pkg/logger"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level    string
		enabled  slog.Level
		disabled slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"warning", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"invalid", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			log, closer, err := logger.New(logger.Options{Level: tt.level, Console: &bytes.Buffer{}})
			require.NoError(t, err)
			require.NoError(t, closer.Close())

			assert.True(t, log.Enabled(context.Background(), tt.enabled))
			assert.False(t, log.Enabled(context.Background(), tt.disabled))
		})
	}
}

func TestNewTextAndJSON(t *testing.T) {
	t.Parallel()

	var text bytes.Buffer

	log, _, err := logger.New(logger.Options{Level: "info", Environment: "dev", Console: &text})
	require.NoError(t, err)
	log.Info("attempt", slog.Int("attempt", 1))

	assert.Contains(t, text.String(), "level=INFO msg=attempt")
	assert.Contains(t, text.String(), "environment=dev")
	assert.Contains(t, text.String(), "time=")

	var jsonLines bytes.Buffer

	log, _, err = logger.New(logger.Options{Level: "info", Environment: "prod", Console: &jsonLines})
	require.NoError(t, err)
	log.Warn("request failed")

	assert.Contains(t, jsonLines.String(), `"level":"WARN"`)
	assert.Contains(t, jsonLines.String(), `"msg":"request failed"`)
	assert.Contains(t, jsonLines.String(), `"environment":"prod"`)
}

func TestNewFileSink(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/var/log/keepalive.log", []byte("previous line\n"), 0o644))

	var console bytes.Buffer

	log, closer, err := logger.New(logger.Options{
		Level:      "info",
		Console:    &console,
		FilePath:   "/var/log/keepalive.log",
		EnableFile: true,
		Fs:         fs,
	})
	require.NoError(t, err)

	log.Info("starting")
	log.Error("maximum attempts reached")
	require.NoError(t, closer.Close())

	data, err := afero.ReadFile(fs, "/var/log/keepalive.log")
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "previous line\n"))
	assert.Contains(t, content, "msg=starting")
	assert.Contains(t, content, `msg="maximum attempts reached"`)
	assert.Equal(t, console.String(), strings.TrimPrefix(content, "previous line\n"))
}

func TestNewFileSinkDisabled(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	log, closer, err := logger.New(logger.Options{
		Console:  &bytes.Buffer{},
		FilePath: "/var/log/keepalive.log",
		Fs:       fs,
	})
	require.NoError(t, err)

	log.Info("starting")
	require.NoError(t, closer.Close())

	exists, err := afero.Exists(fs, "/var/log/keepalive.log")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewFileSinkErrors(t *testing.T) {
	t.Parallel()

	_, _, err := logger.New(logger.Options{EnableFile: true})
	require.Error(t, err)

	_, _, err = logger.New(logger.Options{
		EnableFile: true,
		FilePath:   "/var/log/keepalive.log",
		Fs:         afero.NewReadOnlyFs(afero.NewMemMapFs()),
	})
	require.Error(t, err)
}
