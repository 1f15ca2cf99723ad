package scanner

import (
	"bufio"
	"io"
	"strings"
)

// ReaderSource emits one code per line read from r. Hardware QR scanners in
// keyboard-wedge mode type the decoded value followed by a newline, so wiring
// this to stdin turns the process into a check-in station.
type ReaderSource struct {
	codes chan string
}

// NewReaderSource starts draining r in the background.
func NewReaderSource(r io.Reader) *ReaderSource {
	s := &ReaderSource{codes: make(chan string)}
	go func() {
		defer close(s.codes)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if code := strings.TrimSpace(sc.Text()); code != "" {
				s.codes <- code
			}
		}
	}()
	return s
}

// Codes implements CodeSource.
func (s *ReaderSource) Codes() <-chan string {
	return s.codes
}
