package shared

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reporter emits operator-facing lines. Workers share one Reporter, so implementations must be safe for concurrent use.
type Reporter interface {
	Printf(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
}

type writerReporter struct {
	writer      io.Writer
	writerGuard *sync.Mutex
}

// NewWriterReporter constructs a Reporter that writes unstyled lines to the provided io.Writer.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return writerReporter{writer: writer, writerGuard: &sync.Mutex{}}
}

func (reporter writerReporter) Printf(format string, args ...any) {
	reporter.writerGuard.Lock()
	defer reporter.writerGuard.Unlock()
	fmt.Fprintf(reporter.writer, format, args...)
}

func (reporter writerReporter) Successf(format string, args ...any) {
	reporter.Printf(format, args...)
}

func (reporter writerReporter) Warnf(format string, args ...any) {
	reporter.Printf(format, args...)
}
