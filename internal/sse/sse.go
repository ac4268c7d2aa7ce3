// Package sse decodes the server-sent event streams returned for streaming
// chat completions.
package sse

import (
	"bufio"
	"io"
	"strings"
)

// DoneSentinel is the data payload that terminates a completion stream.
const DoneSentinel = "[DONE]"

const maxLineBytes = 1 << 20

// Decoder yields the payload of each data line in a stream. Every data line
// is its own record; no blank-line separator is required between them.
// Comment lines, which the server sends as keep-alives while a model is
// loading, blank lines and non-data fields are skipped.
type Decoder struct {
	scanner *bufio.Scanner
	data    string
	err     error
	done    bool
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Decoder{scanner: s}
}

// Next advances to the next data payload. It returns false at the end of
// the stream, after the DoneSentinel, or on a read error.
func (d *Decoder) Next() bool {
	if d.done {
		return false
	}

	for d.scanner.Scan() {
		line := strings.TrimSuffix(d.scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		if field != "data" {
			continue
		}

		value = strings.TrimPrefix(value, " ")
		if strings.TrimSpace(value) == DoneSentinel {
			d.data = ""
			d.done = true
			return false
		}
		d.data = value
		return true
	}

	d.data = ""
	d.done = true
	d.err = d.scanner.Err()
	return false
}

// Data returns the current payload.
func (d *Decoder) Data() string {
	return d.data
}

// Err returns the first read error, if any. Reaching the DoneSentinel or
// the end of the stream is not an error.
func (d *Decoder) Err() error {
	return d.err
}
