// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bufferCloser struct {
	bytes.Buffer
}

func (*bufferCloser) Close() error {
	return nil
}

func TestLogRecoverAndExit(t *testing.T) {
	log := NewLogger("", NewWrappedCore(Info, Discard, Plain.ConsoleEncoder()))

	recovered := false
	log.RecoverAndExit(
		func() {
			panic("DON'T PANIC!")
		},
		func() {
			recovered = true
		},
	)

	require.True(t, recovered)
}

func TestLogLevelFiltering(t *testing.T) {
	require := require.New(t)

	buf := &bufferCloser{}
	log := NewLogger("orchestrator", NewWrappedCore(Info, buf, Plain.FileEncoder()))

	log.Debug("hidden")
	require.Zero(buf.Len())

	log.Info("shown")
	require.Contains(buf.String(), "shown")
	require.Contains(buf.String(), "INFO")
	require.Contains(buf.String(), "orchestrator")

	require.False(log.Enabled(Trace))
	log.SetLevel(Verbo)
	require.True(log.Enabled(Verbo))
}

func TestLogWith(t *testing.T) {
	require := require.New(t)

	buf := &bufferCloser{}
	log := NewLogger("", NewWrappedCore(Info, buf, JSON.FileEncoder()))
	log.With(zap.String("namespace", "eip155")).Warn("switch failed")

	require.Contains(buf.String(), `"namespace":"eip155"`)
	require.Contains(buf.String(), `"level":"warn"`)
}

func TestFactoryLevels(t *testing.T) {
	require := require.New(t)

	f := NewFactory(Config{
		RotatingWriterConfig: RotatingWriterConfig{
			Directory: t.TempDir(),
			MaxSize:   1,
		},
		DisableWriterDisplaying: true,
		DisplayLevel:            Info,
		LogLevel:                Debug,
	})
	defer f.Close()

	_, err := f.Make("account")
	require.NoError(err)
	_, err = f.Make("account")
	require.ErrorIs(err, errDuplicateLogger)

	require.NoError(f.SetDisplayLevel("account", Error))
	level, err := f.GetDisplayLevel("account")
	require.NoError(err)
	require.Equal(Error, level)

	level, err = f.GetLogLevel("account")
	require.NoError(err)
	require.Equal(Debug, level)

	require.ErrorIs(f.SetLogLevel("missing", Info), ErrUnknownLoggerName)
	require.Equal([]string{"account"}, f.GetLoggerNames())
}
