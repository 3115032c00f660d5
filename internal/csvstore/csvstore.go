// Package csvstore loads delimited technology/event files into in-memory
// row collections. The files come from external partners as either UTF-8
// or legacy single-byte Korean encodings (EUC-KR/CP949), configured per
// file. A failed load does not poison the source: the service still starts
// and the load is retried transparently on the next query.
package csvstore

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/innosearch-dev/innosearch/internal/errors"
	"github.com/innosearch-dev/innosearch/internal/logger"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Record maps a header name to the cell value of one row.
type Record map[string]string

type State int

const (
	Unloaded State = iota
	Loaded
	Failed
)

// Source is one CSV file with explicit load state.
// Records/Headers lazily (re)load on Unloaded or Failed.
type Source struct {
	tag      string
	path     string
	encoding string

	mu      sync.RWMutex
	state   State
	headers []string
	records []Record
}

func NewSource(tag, path, encoding string) *Source {
	return &Source{tag: tag, path: path, encoding: encoding}
}

func (s *Source) Tag() string { return s.tag }

// Preload attempts the initial load. Errors are logged, not returned:
// startup must not fail on a missing or undecodable file.
func (s *Source) Preload() {
	if err := s.ensureLoaded(); err != nil {
		logger.Log.Warn("csv preload failed, will retry on first query", "source", s.tag, "err", err)
	}
}

// Records returns all rows, loading the file first if needed.
func (s *Source) Records() ([]Record, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, nil
}

// Headers returns the header row in file order, loading first if needed.
// Duplicate header names are kept as-is; Record lookup makes the last
// occurrence win.
func (s *Source) Headers() ([]string, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headers, nil
}

func (s *Source) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Source) ensureLoaded() error {
	s.mu.RLock()
	loaded := s.state == Loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Loaded { // another goroutine won the load race
		return nil
	}

	headers, records, err := s.load()
	if err != nil {
		s.state = Failed
		return &errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("source data unavailable: %s", s.tag),
			StatusCode: 500,
		}
	}

	s.headers = headers
	s.records = records
	s.state = Loaded
	logger.Log.Info("csv source loaded", "source", s.tag, "rows", len(records))
	return nil
}

func (s *Source) load() ([]string, []Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		logger.Log.Error("can't open csv file", "source", s.tag, "path", s.path, "err", err)
		return nil, nil, err
	}
	defer f.Close()

	text, err := decodeAll(f, s.encoding)
	if err != nil {
		logger.Log.Error("can't decode csv file", "source", s.tag, "encoding", s.encoding, "err", err)
		return nil, nil, err
	}

	headers, records := Parse(text)
	return headers, records, nil
}

// decodeAll reads the whole file, converting legacy Korean encodings to
// UTF-8. "euc-kr" and "cp949" name the same decoder: the files in the wild
// are labeled either way and x/text's EUC-KR table covers both.
func decodeAll(r io.Reader, encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		// keep r as is
	case "euc-kr", "euckr", "cp949":
		r = transform.NewReader(r, korean.EUCKR.NewDecoder())
	default:
		return "", fmt.Errorf("unsupported encoding %q", encoding)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
