package xlog

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func TestFxXLoggerEvents(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerLevel(LogLevelDebug), WithXLoggerWriter(zapcore.AddSync(buf)))
	fxLogger := NewFxXLogger(logger)

	events := []fxevent.Event{
		&fxevent.OnStartExecuting{FunctionName: "start", CallerName: "main"},
		&fxevent.OnStartExecuted{FunctionName: "start", CallerName: "main"},
		&fxevent.OnStartExecuted{FunctionName: "start", CallerName: "main", Err: errors.New("x")},
		&fxevent.OnStopExecuting{FunctionName: "stop", CallerName: "main"},
		&fxevent.OnStopExecuted{FunctionName: "stop", CallerName: "main"},
		&fxevent.Supplied{TypeName: "int"},
		&fxevent.Provided{OutputTypeNames: []string{"archive.Archive"}, ConstructorName: "New"},
		&fxevent.Decorated{OutputTypeNames: []string{"int"}, DecoratorName: "dec"},
		&fxevent.Invoking{FunctionName: "run"},
		&fxevent.Invoked{FunctionName: "run", Err: errors.New("invoke")},
		&fxevent.Stopping{Signal: os.Interrupt},
		&fxevent.Stopped{},
		&fxevent.RollingBack{StartErr: errors.New("rb")},
		&fxevent.RolledBack{},
		&fxevent.Started{},
		&fxevent.LoggerInitialized{ConstructorName: "NewFxXLogger"},
	}
	for _, e := range events {
		fxLogger.LogEvent(e)
	}
	out := buf.String()
	require.Contains(t, out, `"component":"fx"`)
	require.Contains(t, out, "hook OnStart failed")
	require.Contains(t, out, "invoke failed")
	require.Contains(t, out, "archive.Archive")
	require.NotContains(t, out, "callAt")
	require.Equal(t, 14, strings.Count(out, "\n"))

	var nilLogger *FxXLogger
	require.NotPanics(t, func() { nilLogger.LogEvent(&fxevent.Started{}) })
	require.NotPanics(t, func() { NewFxXLogger(NewNopXLogger()).LogEvent(&fxevent.Started{}) })
}

func TestFxXLoggerWithApp(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerLevel(LogLevelDebug), WithXLoggerWriter(zapcore.AddSync(buf)))
	app := fx.New(
		fx.WithLogger(func() fxevent.Logger { return NewFxXLogger(logger) }),
		fx.Supply(3),
		fx.Invoke(func(n int) {}),
	)
	require.NoError(t, app.Err())
	require.Contains(t, buf.String(), "invoking")
}
