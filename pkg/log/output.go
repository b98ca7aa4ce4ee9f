package log

import (
	"io"
	"os"
	"sync"
)

// ConsoleOutput writes to stderr.
type ConsoleOutput struct{ w *WriterOutput }

// NewConsoleOutput returns an output writing to os.Stderr.
func NewConsoleOutput() *ConsoleOutput { return &ConsoleOutput{w: NewWriterOutput(os.Stderr)} }

func (o *ConsoleOutput) Write(entry *Entry, formatted []byte) error {
	return o.w.Write(entry, formatted)
}
func (o *ConsoleOutput) Close() error { return nil }

// WriterOutput writes to an arbitrary io.Writer, serializing writes.
type WriterOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterOutput wraps w.
func NewWriterOutput(w io.Writer) *WriterOutput { return &WriterOutput{w: w} }

func (o *WriterOutput) Write(_ *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.w.Write(formatted)
	return err
}

func (o *WriterOutput) Close() error {
	if c, ok := o.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NullOutput discards everything.
type NullOutput struct{}

func (NullOutput) Write(*Entry, []byte) error { return nil }
func (NullOutput) Close() error               { return nil }
