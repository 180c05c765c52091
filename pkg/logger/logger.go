package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// File, when set, receives a rotated copy of every entry.
	File string
	// Output defaults to stdout.
	Output io.Writer
}

// New builds the JSON logrus logger shared by every layer. An unknown level
// falls back to info and is reported once the logger exists.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		})
	}
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
		if opts.Level != "" {
			logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", opts.Level, level.String())
		}
	}
	logger.SetLevel(level)
	return logger
}
