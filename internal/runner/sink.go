// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// errorPrefix marks chunks that came from the child's standard error.
const errorPrefix = "ERROR: "

type (
	// Sink is an append-only, ordered text surface that receives process output.
	Sink interface {
		// Append writes raw text with no trailing newline added.
		Append(text string)
		// AppendLine writes text followed by a newline.
		AppendLine(text string)
	}

	// Notifier surfaces a user-facing message once a command has finished.
	Notifier interface {
		Info(msg string)
		Error(msg string)
	}

	// WriterSink adapts an io.Writer to the Sink interface. It is safe for
	// concurrent use, so several tasks may share one.
	WriterSink struct {
		mu sync.Mutex
		w  io.Writer
	}

	// LogNotifier delivers notifications as log records.
	LogNotifier struct {
		logger *log.Logger
	}

	// lockedSink serializes the stdout and stderr forwarders of a single task.
	lockedSink struct {
		mu   sync.Mutex
		sink Sink
	}

	// chunkWriter turns every Write into one call of emit.
	chunkWriter func(text string)

	nopNotifier struct{}

	discardSink struct{}
)

// NewWriterSink creates a Sink that writes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Append writes text verbatim.
func (s *WriterSink) Append(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, text)
}

// AppendLine writes text and a newline.
func (s *WriterSink) AppendLine(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, text)
}

// NewLogNotifier creates a Notifier backed by logger.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Info logs msg at info level.
func (n *LogNotifier) Info(msg string) { n.logger.Info(msg) }

// Error logs msg at error level.
func (n *LogNotifier) Error(msg string) { n.logger.Error(msg) }

func (nopNotifier) Info(string)  {}
func (nopNotifier) Error(string) {}

func (discardSink) Append(string)     {}
func (discardSink) AppendLine(string) {}

func newLockedSink(sink Sink) *lockedSink {
	return &lockedSink{sink: sink}
}

func (s *lockedSink) Append(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink.Append(text)
}

func (s *lockedSink) AppendLine(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink.AppendLine(text)
}

// appendError forwards a stderr chunk with the error marker in front of it.
func (s *lockedSink) appendError(text string) {
	s.Append(errorPrefix + text)
}

func (w chunkWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		w(string(p))
	}
	return len(p), nil
}

// forward copies r into emit one read at a time until r is exhausted, so
// output reaches the sink as it is produced rather than when the process exits.
func forward(r io.Reader, emit func(string)) {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			emit(string(buf[:n]))
		}
		if err != nil {
			return
		}
	}
}
