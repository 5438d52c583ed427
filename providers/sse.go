package providers

import (
	"bufio"
	"bytes"
	"io"
)

// SSEScanner scans Server-Sent Events (SSE) streams, yielding one data
// payload per event.
type SSEScanner struct {
	scanner *bufio.Scanner
	data    string
	err     error
}

// NewSSEScanner creates a new SSE scanner.
func NewSSEScanner(r io.Reader) *SSEScanner {
	scanner := bufio.NewScanner(r)
	// Streamed chunks can exceed the default 64KB token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &SSEScanner{
		scanner: scanner,
	}
}

// Scan advances to the next SSE data line.
func (s *SSEScanner) Scan() bool {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()

		// Skip empty lines (event boundaries)
		if len(line) == 0 {
			continue
		}

		if bytes.HasPrefix(line, []byte("data:")) {
			payload := bytes.TrimPrefix(line, []byte("data:"))
			s.data = string(bytes.TrimLeft(payload, " "))
			return true
		}
	}

	s.err = s.scanner.Err()
	return false
}

// Data returns the current event data.
func (s *SSEScanner) Data() string {
	return s.data
}

// Err returns any scanning error.
func (s *SSEScanner) Err() error {
	return s.err
}
