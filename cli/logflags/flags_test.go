package logflags_test

import (
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/cli/logflags"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	var f logflags.Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.SetFlags(fs)
	assert.Equal(t, zapcore.WarnLevel, f.Level)

	require.NoError(t, fs.Parse([]string{"--log-level=debug"}))
	assert.Equal(t, zapcore.DebugLevel, f.Level)
	logger, err := f.Logger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	assert.Error(t, fs.Parse([]string{"--log-level=loud"}))
}

func TestVerbose(t *testing.T) {
	var f logflags.Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"-v"}))
	logger, err := f.Logger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
