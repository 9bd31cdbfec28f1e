package gokuromoji

import (
	"io"

	"github.com/charmbracelet/log"
)

func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "gokuromoji",
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           level,
	})
}
