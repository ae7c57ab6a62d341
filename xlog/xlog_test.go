package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/moarchive/lib/infra"
)

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
}

func TestParseLogLevelAndEncoder(t *testing.T) {
	testcases := []struct {
		in  string
		lvl logLevel
	}{
		{"", LogLevelDebug},
		{"info", LogLevelInfo},
		{"Warn", LogLevelWarn},
		{"ERROR", LogLevelError},
		{"verbose", LogLevelDebug},
	}
	for _, tc := range testcases {
		t.Run(tc.in, func(tt *testing.T) {
			require.Equal(tt, tc.lvl, ParseLogLevel(tc.in))
		})
	}

	enc, ok := ParseLogEncoder("json")
	require.True(t, ok)
	require.Equal(t, JSON, enc)
	enc, ok = ParseLogEncoder("text")
	require.True(t, ok)
	require.Equal(t, PlainText, enc)
	_, ok = ParseLogEncoder("xml")
	require.False(t, ok)
}

func newTestLogger(t *testing.T, opts ...XLoggerOption) (XLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	opts = append(opts, WithXLoggerWriter(zapcore.AddSync(buf)))
	logger := NewXLogger(opts...)
	require.NotNil(t, logger)
	return logger, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	var res []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		res = append(res, m)
	}
	return res
}

func TestXLoggerJSON(t *testing.T) {
	logger, buf := newTestLogger(t, WithXLoggerLevel(LogLevelInfo), WithXLoggerEncoder(JSON))
	require.Equal(t, "info", logger.Level())

	logger.Debug("hidden")
	logger.Info("hypervolume computed", zap.Float64("hv", 13))
	logger.Warn("remove of a point not in the archive")
	logger.Error(errors.New("boom"), "failed")
	logger.Logf(zapcore.InfoLevel, "%d points", 3)
	require.NoError(t, logger.Sync())

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)
	require.Equal(t, "hypervolume computed", lines[0]["msg"])
	require.Equal(t, "INFO", lines[0]["lvl"])
	require.Equal(t, 13.0, lines[0]["hv"])
	require.Contains(t, lines[0], "ts")
	require.Contains(t, lines[0], "callAt")
	require.Equal(t, "WARN", lines[1]["lvl"])
	require.Equal(t, "boom", lines[2]["error"])
	require.Equal(t, "3 points", lines[3]["msg"])

	buf.Reset()
	logger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Debug("visible")
	require.Len(t, decodeLines(t, buf), 1)
}

func TestXLoggerEncoders(t *testing.T) {
	logger, buf := newTestLogger(t,
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(LogLevelInfo),
		WithXLoggerLevelEncoder(zapcore.LowercaseLevelEncoder),
		WithXLoggerTimeEncoder(zapcore.EpochMillisTimeEncoder),
	)
	logger.Info("encoded")
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "info", lines[0]["lvl"])
	require.IsType(t, 0.0, lines[0]["ts"])

	logger, buf = newTestLogger(t,
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(LogLevelInfo),
		WithXLoggerLevelEncoder(nil),
		WithXLoggerTimeEncoder(nil),
	)
	logger.Info("defaults")
	lines = decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Contains(t, lines[0]["lvl"], "INFO")
	require.NotEqual(t, "INFO", lines[0]["lvl"])
	require.IsType(t, "", lines[0]["ts"])
}

func TestXLoggerStdOutWriter(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = stdout })

	logger := NewXLogger(WithXLoggerEncoder(JSON), WithXLoggerLevel(LogLevelInfo), WithXLoggerStdOutWriter())
	os.Stdout = stdout
	logger.Info("to stdout")
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Contains(t, string(out), `"msg":"to stdout"`)
}

func TestXLoggerErrorStack(t *testing.T) {
	logger, buf := newTestLogger(t, WithXLoggerLevel(LogLevelDebug))

	err := infra.WrapErrorStackWithMessage(errors.New("cause"), "archive rebuild")
	logger.ErrorStack(err, "stack")
	logger.ErrorStackf(err, "stack %s", "formatted")
	logger.ErrorStack(errors.New("plain"), "no stack")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)
	for _, line := range lines[:2] {
		require.Equal(t, "archive rebuild: cause", line["error"])
		frames, ok := line["errorStack"].([]any)
		require.True(t, ok)
		require.NotEmpty(t, frames)
	}
	require.Equal(t, "stack formatted", lines[1]["msg"])
	require.Equal(t, "plain", lines[2]["error"])
	require.NotContains(t, lines[2], "errorStack")
}

func TestXLoggerContextFields(t *testing.T) {
	logger, buf := newTestLogger(t,
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerContextFieldExtract("runID", "run"),
		WithXLoggerContextFieldExtract("generation"),
		WithXLoggerContextFieldExtract("secret", ContextKeyMapToOmitempty),
	)
	ctx := ContextWithField(context.Background(), "runID", "r-1")
	ctx = ContextWithField(ctx, "secret", "s")

	logger.InfoContext(ctx, "info")
	logger.DebugContext(ctx, "debug")
	logger.WarnContext(ctx, "warn")
	logger.ErrorContext(ctx, errors.New("e"), "error")
	logger.ErrorStackContext(ctx, infra.NewErrorStack("es"), "error stack")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 5)
	for _, line := range lines {
		require.Equal(t, "r-1", line["run"])
		require.Equal(t, "nil", line["generation"])
		require.NotContains(t, line, "secret")
	}
	require.Equal(t, "e", lines[3]["error"])
	require.Contains(t, lines[4], "errorStack")
}

func TestXLoggerPlainText(t *testing.T) {
	logger, buf := newTestLogger(t, WithXLoggerLevel(LogLevelDebug), WithXLoggerEncoder(PlainText))
	logger.Info("plain text entry")
	require.Contains(t, buf.String(), "plain text entry")
	require.Contains(t, buf.String(), "INFO")
}

func TestXLoggerEnvLevel(t *testing.T) {
	t.Setenv("XLOG_LVL", "warn")
	logger, buf := newTestLogger(t)
	require.Equal(t, "warn", logger.Level())
	logger.Info("dropped")
	logger.Warn("kept")
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0]["msg"])
}

func TestXLoggerOptionErrors(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(nil))
	})
	require.Panics(t, func() {
		//nolint:staticcheck
		NewXLogger(WithXLoggerContext(nil))
	})
}

func TestXLoggerMultipleWriters(t *testing.T) {
	b1, b2 := &bytes.Buffer{}, &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerWriter(zapcore.AddSync(b1)),
		WithXLoggerWriter(zapcore.AddSync(b2)),
	)
	logger.Info("twice")
	require.Len(t, decodeLines(t, b1), 1)
	require.Len(t, decodeLines(t, b2), 1)
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	require.NotPanics(t, func() {
		logger.Debug("x")
		logger.Info("x")
		logger.Warn("x")
		logger.Error(errors.New("x"), "x")
		logger.ErrorStack(infra.NewErrorStack("x"), "x")
		logger.ErrorStackContext(context.Background(), errors.New("x"), "x")
		logger.Logf(zapcore.ErrorLevel, "%s", "x")
		_ = logger.Sync()
	})
}
