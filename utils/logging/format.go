// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Format modes available
const (
	Plain Format = iota
	Colors
	JSON
)

var (
	errUnknownFormat = errors.New("unknown format")

	levelToColor = map[Level]string{
		Fatal: "\033[31m", // red
		Error: "\033[38;5;208m",
		Warn:  "\033[33m", // yellow
		Info:  "\033[0m",
		Trace: "\033[35m",
		Debug: "\033[94m",
		Verbo: "\033[92m",
	}

	defaultEncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeLevel:    levelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("[01-02|15:04:05.000]"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	jsonEncoderConfig zapcore.EncoderConfig
)

func init() {
	jsonEncoderConfig = defaultEncoderConfig
	jsonEncoderConfig.EncodeLevel = jsonLevelEncoder
	jsonEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
}

// Format of the logs to display
type Format int

// ToFormat chooses a format for the display logs. [fd] decides whether "auto"
// renders colors.
func ToFormat(h string, fd uintptr) (Format, error) {
	switch strings.ToUpper(h) {
	case "PLAIN":
		return Plain, nil
	case "COLORS":
		return Colors, nil
	case "JSON":
		return JSON, nil
	case "AUTO":
		if !term.IsTerminal(int(fd)) {
			return Plain, nil
		}
		return Colors, nil
	default:
		return Plain, fmt.Errorf("%w: %s", errUnknownFormat, h)
	}
}

func (f Format) MarshalJSON() ([]byte, error) {
	switch f {
	case Plain:
		return []byte(`"PLAIN"`), nil
	case Colors:
		return []byte(`"COLORS"`), nil
	case JSON:
		return []byte(`"JSON"`), nil
	default:
		return nil, errUnknownFormat
	}
}

func (f Format) ConsoleEncoder() zapcore.Encoder {
	switch f {
	case Colors:
		config := defaultEncoderConfig
		config.EncodeLevel = colorLevelEncoder
		return zapcore.NewConsoleEncoder(config)
	case JSON:
		return zapcore.NewJSONEncoder(jsonEncoderConfig)
	default:
		return zapcore.NewConsoleEncoder(defaultEncoderConfig)
	}
}

// FileEncoder never emits colors.
func (f Format) FileEncoder() zapcore.Encoder {
	if f == JSON {
		return zapcore.NewJSONEncoder(jsonEncoderConfig)
	}
	return zapcore.NewConsoleEncoder(defaultEncoderConfig)
}

func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(Level(l).String())
}

func jsonLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(Level(l).LowerString())
}

func colorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	lvl := Level(l)
	color, ok := levelToColor[lvl]
	if !ok {
		color = levelToColor[Info]
	}
	enc.AppendString(color + lvl.String() + "\033[0m")
}
