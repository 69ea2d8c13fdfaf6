package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures a CLI step and logs it at debug level when done.
type progress struct {
	logger *log.Logger
	step   string
	start  time.Time
}

func newProgress(l *log.Logger, step string) *progress {
	return &progress{logger: l, step: step, start: time.Now()}
}

// done logs the step with its elapsed time, rounded to milliseconds.
func (p *progress) done(keyvals ...any) time.Duration {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Debug(p.step, append(keyvals, "elapsed", elapsed)...)
	return elapsed
}
