package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps normal runs quiet; --verbose switches to debug
const DefaultLevel = "warn"

// ValidLevels are the accepted log_level values
var ValidLevels = []string{"debug", "info", "warn", "error"}

// ParseLevel converts a level name into a zap level
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = DefaultLevel
	}
	for _, valid := range ValidLevels {
		if level == valid {
			var l zapcore.Level
			if err := l.UnmarshalText([]byte(level)); err != nil {
				return l, eris.Wrapf(err, "invalid log level: %s", level)
			}
			return l, nil
		}
	}
	return zapcore.InfoLevel, eris.Errorf("invalid log level: %s (must be one of: %s)", level, strings.Join(ValidLevels, ", "))
}

// New builds a console logger writing to stderr
func New(level string) (*zap.Logger, error) {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter builds a console logger writing to w
func NewWithWriter(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		lvl,
	)
	return zap.New(core), nil
}
