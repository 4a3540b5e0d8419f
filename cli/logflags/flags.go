package logflags

import (
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Flags struct {
	Verbose bool
	Level   zapcore.Level
}

func (f *Flags) SetFlags(fs *pflag.FlagSet) {
	f.Level = zapcore.WarnLevel
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "log analysis details to stderr in development format")
	fs.Var(&levelValue{&f.Level}, "log-level", "minimum level of JSON logs written to stderr")
}

// Logger builds the logger of the command.  Verbose output is a debug-level
// development logger; otherwise logs are JSON at f.Level.  Both write to
// stderr.
func (f *Flags) Logger() (*zap.Logger, error) {
	if f.Verbose {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(f.Level)
	return config.Build()
}

type levelValue struct {
	level *zapcore.Level
}

func (l *levelValue) Set(s string) error {
	return l.level.UnmarshalText([]byte(s))
}

func (l *levelValue) String() string {
	if l.level == nil {
		return ""
	}
	return l.level.String()
}

func (*levelValue) Type() string {
	return "level"
}
