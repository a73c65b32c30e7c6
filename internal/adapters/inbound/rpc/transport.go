package rpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single protocol frame (1 MiB).
const MaxFrameSize = 1024 * 1024

// readFrame reads the next line from the input stream and returns it
// raw. Framing errors are distinct from parse errors: only a closed or
// broken stream ends the loop.
func (s *Server) readFrame() ([]byte, error) {
	if s.scanner == nil {
		s.scanner = bufio.NewScanner(s.stdin)
		s.scanner.Buffer(make([]byte, MaxFrameSize), MaxFrameSize)
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading frame: %w", err)
		}
		return nil, io.EOF
	}
	return s.scanner.Bytes(), nil
}

// writeFrame writes exactly one JSON object followed by a newline. The
// output stream carries only protocol frames; diagnostics go to the
// logger.
func (s *Server) writeFrame(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling frame: %w", err)
	}
	if _, err := fmt.Fprintf(s.stdout, "%s\n", data); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
