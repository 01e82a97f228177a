package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

var (
	logger *slog.Logger
	writer io.Writer = os.Stdout
	level  slog.Level
)

func init() {
	level = slog.Level(1000) // Very high level to disable all logging by default
	rebuild()
}

func rebuild() {
	logger = slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
}

func format(msg string, args []any) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func Info(msg string, args ...any) {
	logger.Info(format(msg, args))
}

func Debug(msg string, args ...any) {
	logger.Debug(format(msg, args))
}

func Warn(msg string, args ...any) {
	logger.Warn(format(msg, args))
}

func Error(msg string, args ...any) {
	logger.Error(format(msg, args))
}

func SetLevel(l slog.Level) {
	level = l
	rebuild()
}

func SetWriter(w io.Writer) {
	writer = w
	rebuild()
}
