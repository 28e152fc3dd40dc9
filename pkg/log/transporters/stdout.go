// Package transporters holds log output destinations.
package transporters

import (
	"encoding/json"
	"io"
	"os"

	"chirp/pkg/log"
)

// Stdout writes line-delimited JSON entries to stdout or any io.Writer.
type Stdout struct {
	writer io.Writer
}

// NewStdout creates a transporter writing to os.Stdout.
func NewStdout() *Stdout {
	return &Stdout{writer: os.Stdout}
}

// NewStdoutWithWriter creates a transporter with a custom writer, mainly
// for tests.
func NewStdoutWithWriter(w io.Writer) *Stdout {
	return &Stdout{writer: w}
}

// Name returns the transporter identifier.
func (s *Stdout) Name() string { return "stdout" }

// Write marshals the entry to JSON followed by a newline.
func (s *Stdout) Write(entry log.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.writer.Write(append(data, '\n'))
	return err
}

// Close is a no-op for stdout.
func (s *Stdout) Close() error { return nil }
